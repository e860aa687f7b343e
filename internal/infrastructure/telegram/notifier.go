package telegram

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"print-watch/internal/domain/entity"
	"print-watch/internal/domain/port"
)

// Notifier отправляет алерты с кадром в Telegram-чат.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewNotifier создаёт нотификатор и проверяет токен у Telegram.
func NewNotifier(token string, chatID int64) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Notifier{
		api:    api,
		chatID: chatID,
	}, nil
}

// SendAlert отправляет кадр с подписью по дефектным детекциям.
// Сбой доставки логируется и превращается в false, наружу не уходит.
func (n *Notifier) SendAlert(ctx context.Context, rendered []byte, batch *entity.Batch) bool {
	_ = ctx

	errs := batch.Errors()
	if len(errs) == 0 {
		log.Printf("Alert not sent: only %q detected (normal state)", batch.Sentinel)
		return false
	}

	photo := tgbotapi.NewPhoto(n.chatID, tgbotapi.FileBytes{
		Name:  "detection.jpg",
		Bytes: rendered,
	})
	photo.Caption = buildCaption(errs)
	photo.ParseMode = tgbotapi.ModeMarkdown

	if _, err := n.api.Send(photo); err != nil {
		log.Printf("Failed to send Telegram alert: %v", err)
		return false
	}

	log.Printf("Alert sent to Telegram (%d errors)", len(errs))
	return true
}

// buildCaption собирает подпись к фото: метка, уверенность, координаты.
// Формат подписи повторяет исходный алерт, который читают операторы.
func buildCaption(errs []entity.Detection) string {
	var b strings.Builder
	b.WriteString("⚠ *Detección de error en impresión 3D* ⚠\n\n")

	for _, d := range errs {
		fmt.Fprintf(&b, "🔹 *%s*\n", d.Label)
		fmt.Fprintf(&b, "Confianza: %.2f\n", d.Confidence)
		fmt.Fprintf(&b, "Posición: x1=%d, y1=%d, x2=%d, y2=%d\n\n",
			roundPx(d.Box.XMin), roundPx(d.Box.YMin), roundPx(d.Box.XMax), roundPx(d.Box.YMax))
	}

	return b.String()
}

func roundPx(v float64) int {
	return int(math.Round(v))
}

// Проверка реализации интерфейса
var _ port.AlertNotifier = (*Notifier)(nil)
