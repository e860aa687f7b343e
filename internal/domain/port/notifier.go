package port

import (
	"context"

	"print-watch/internal/domain/entity"
)

// AlertNotifier интерфейс канала оповещений
type AlertNotifier interface {
	// SendAlert отправляет кадр с подписью по батчу.
	// Возвращает false при любой ошибке доставки, ошибки не пробрасывает.
	SendAlert(ctx context.Context, rendered []byte, batch *entity.Batch) bool
}
