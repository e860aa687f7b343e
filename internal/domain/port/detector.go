package port

import (
	"context"

	"print-watch/internal/domain/entity"
)

// Detector интерфейс детектора дефектов печати
type Detector interface {
	// Detect анализирует кадр и возвращает найденные объекты
	Detect(ctx context.Context, imageData []byte) ([]entity.Detection, error)

	// Annotate создаёт изображение с подсветкой найденных объектов
	Annotate(imageData []byte, detections []entity.Detection) ([]byte, error)
}
