//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"print-watch/internal/domain/entity"
)

// DNNDetector — заглушка для сборки без OpenCV.
type DNNDetector struct{}

// NewDNNDetector возвращает ошибку, если сборка без тега gocv.
func NewDNNDetector(modelPath, configPath, labelsPath string) (*DNNDetector, error) {
	_ = modelPath
	_ = configPath
	_ = labelsPath
	return nil, errors.New("gocv build tag is not enabled")
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *DNNDetector) Detect(ctx context.Context, imageData []byte) ([]entity.Detection, error) {
	_ = ctx
	_ = imageData
	return nil, errors.New("gocv build tag is not enabled")
}

// Annotate возвращает ошибку, если сборка без тега gocv.
func (d *DNNDetector) Annotate(imageData []byte, detections []entity.Detection) ([]byte, error) {
	_ = imageData
	_ = detections
	return nil, errors.New("gocv build tag is not enabled")
}

// Close ничего не делает в заглушке.
func (d *DNNDetector) Close() error {
	return nil
}
