package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"print-watch/internal/domain/entity"
	"print-watch/internal/domain/port"
	"print-watch/internal/infrastructure/render"
)

// RemoteDetector делегирует инференцию внешнему сервису с моделью.
type RemoteDetector struct {
	inferenceURL string
	client       *http.Client
}

// remoteDetection — формат одной детекции в ответе inference-сервиса.
type remoteDetection struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	XMin       float64 `json:"xmin"`
	YMin       float64 `json:"ymin"`
	XMax       float64 `json:"xmax"`
	YMax       float64 `json:"ymax"`
}

// NewRemoteDetector создаёт адаптер внешнего inference-сервиса.
func NewRemoteDetector(inferenceURL string, timeout time.Duration) *RemoteDetector {
	return &RemoteDetector{
		inferenceURL: inferenceURL,
		client:       &http.Client{Timeout: timeout},
	}
}

// CheckHealth проверяет доступность inference-сервиса.
func (r *RemoteDetector) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.inferenceURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("inference service unhealthy: %d", resp.StatusCode)
	}

	return nil
}

// Detect отправляет кадр inference-сервису и разбирает ответ.
func (r *RemoteDetector) Detect(ctx context.Context, imageData []byte) ([]entity.Detection, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "image.jpg")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, bytes.NewReader(imageData)); err != nil {
		return nil, fmt.Errorf("copy image data: %w", err)
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.inferenceURL+"/predict", body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference failed with status: %d", resp.StatusCode)
	}

	var result struct {
		Detections []remoteDetection `json:"detections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	detections := make([]entity.Detection, 0, len(result.Detections))
	for _, d := range result.Detections {
		detections = append(detections, entity.Detection{
			Label:      d.Name,
			Confidence: d.Confidence,
			Box:        entity.Box{XMin: d.XMin, YMin: d.YMin, XMax: d.XMax, YMax: d.YMax},
		})
	}

	return detections, nil
}

// Annotate рисует рамки чистым Go — OpenCV здесь не нужен.
func (r *RemoteDetector) Annotate(imageData []byte, detections []entity.Detection) ([]byte, error) {
	return render.Annotate(imageData, detections)
}

// Проверка реализации интерфейса
var _ port.Detector = (*RemoteDetector)(nil)
