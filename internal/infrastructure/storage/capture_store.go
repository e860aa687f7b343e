package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"print-watch/internal/domain/port"
)

// CaptureStore сохраняет отладочные копии кадров на диск.
type CaptureStore struct {
	dir string
}

// NewCaptureStore создаёт хранилище и каталог для кадров.
func NewCaptureStore(dir string) (*CaptureStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create capture dir: %w", err)
	}
	return &CaptureStore{dir: dir}, nil
}

// Save записывает кадр под именем с меткой времени съёмки.
func (s *CaptureStore) Save(frame []byte, capturedAt time.Time) (string, error) {
	name := fmt.Sprintf("capture_%s.jpg", capturedAt.Format("20060102_150405"))
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, frame, 0644); err != nil {
		return "", fmt.Errorf("write capture: %w", err)
	}

	return path, nil
}

// Проверка реализации интерфейса
var _ port.FrameStore = (*CaptureStore)(nil)
