package port

import (
	"context"

	"print-watch/internal/domain/entity"
)

// Uploader интерфейс отправки кадров на сервер детекции
type Uploader interface {
	// Health проверяет доступность сервера и наличие загруженной модели
	Health(ctx context.Context) (modelLoaded bool, err error)

	// SendFrame отправляет кадр основным транспортом (multipart)
	SendFrame(ctx context.Context, frame []byte) (*entity.Summary, error)

	// SendFrameBase64 отправляет кадр запасным транспортом (base64 в JSON)
	SendFrameBase64(ctx context.Context, frame []byte) (*entity.Summary, error)
}
