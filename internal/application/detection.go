package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log"

	// Регистрируем декодеры форматов, которые присылает клиент.
	_ "image/jpeg"
	_ "image/png"

	"print-watch/internal/domain/entity"
	"print-watch/internal/domain/port"
)

var (
	// ErrNoImage — в запросе не было изображения.
	ErrNoImage = errors.New("no image supplied")

	// ErrDecode — присланные байты не являются изображением.
	ErrDecode = errors.New("failed to decode image")

	// ErrDetectorUnavailable — модель не была загружена при старте.
	ErrDetectorUnavailable = errors.New("detector is not available")
)

// DetectionService прогоняет кадр через детектор и решает, нужен ли алерт.
type DetectionService struct {
	detector port.Detector
	notifier port.AlertNotifier
	sentinel string
}

// NewDetectionService создаёт сервис детекции.
// detector может быть nil — тогда каждый запрос завершится ErrDetectorUnavailable.
func NewDetectionService(detector port.Detector, notifier port.AlertNotifier, sentinel string) *DetectionService {
	return &DetectionService{
		detector: detector,
		notifier: notifier,
		sentinel: sentinel,
	}
}

// ModelLoaded сообщает, доступен ли детектор.
func (s *DetectionService) ModelLoaded() bool {
	return s.detector != nil
}

// Process обрабатывает один кадр: декодирование, детекция, алерт, сводка.
func (s *DetectionService) Process(ctx context.Context, imageData []byte) (*entity.Summary, error) {
	if s.detector == nil {
		return nil, ErrDetectorUnavailable
	}

	if len(imageData) == 0 {
		return nil, ErrNoImage
	}
	if _, _, err := image.Decode(bytes.NewReader(imageData)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	detections, err := s.detector.Detect(ctx, imageData)
	if err != nil {
		return nil, err
	}

	batch := entity.NewBatch(detections, s.sentinel)

	alertSent := false
	if batch.HasErrors() {
		// В алерт уходит полный батч с подсветкой всех рамок,
		// подпись нотификатор строит только по дефектам.
		rendered, renderErr := s.detector.Annotate(imageData, detections)
		if renderErr != nil {
			log.Printf("Failed to annotate frame, sending original: %v", renderErr)
			rendered = imageData
		}

		if s.notifier != nil {
			alertSent = s.notifier.SendAlert(ctx, rendered, batch)
		} else {
			log.Printf("Alert skipped: notifier is not configured")
		}
	}

	return entity.NewSummary(batch, alertSent), nil
}
