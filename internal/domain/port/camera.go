package port

// FrameSource интерфейс источника кадров
type FrameSource interface {
	// Init открывает устройство и готовит его к съёмке
	Init() error

	// Capture снимает один кадр и возвращает его в формате JPEG
	Capture() ([]byte, error)

	// Release освобождает устройство
	Release()
}
