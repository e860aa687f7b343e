package port

import "time"

// FrameStore интерфейс локального хранилища отладочных кадров
type FrameStore interface {
	// Save сохраняет кадр с ключом по времени съёмки и возвращает путь
	Save(frame []byte, capturedAt time.Time) (string, error)
}
