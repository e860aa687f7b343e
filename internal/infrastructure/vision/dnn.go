//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"gocv.io/x/gocv"

	"print-watch/internal/domain/entity"
	"print-watch/internal/domain/port"
)

const (
	// Порог уверенности, ниже которого детекции отбрасываются.
	defaultConfThreshold = 0.25

	inputSide = 300
)

// DNNDetector — детектор на локальной сети OpenCV DNN.
type DNNDetector struct {
	net        gocv.Net
	labels     []string
	confThresh float32
}

// NewDNNDetector загружает модель и файл меток классов.
func NewDNNDetector(modelPath, configPath, labelsPath string) (*DNNDetector, error) {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("model file not found: %s", modelPath)
	}

	labels, err := loadLabels(labelsPath)
	if err != nil {
		return nil, err
	}

	net := gocv.ReadNet(modelPath, configPath)
	if net.Empty() {
		return nil, errors.New("failed to load network")
	}

	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		return nil, fmt.Errorf("set backend: %w", err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		return nil, fmt.Errorf("set target: %w", err)
	}

	return &DNNDetector{
		net:        net,
		labels:     labels,
		confThresh: defaultConfThreshold,
	}, nil
}

// Detect прогоняет кадр через сеть и возвращает детекции в пикселях кадра.
func (d *DNNDetector) Detect(ctx context.Context, imageData []byte) ([]entity.Detection, error) {
	_ = ctx

	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0/127.5, image.Pt(inputSide, inputSide),
		gocv.NewScalar(127.5, 127.5, 127.5, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")

	output := d.net.Forward("")
	defer output.Close()

	// Каждая строка выхода: [_, classID, confidence, xmin, ymin, xmax, ymax]
	// с нормированными координатами.
	rows := output.Reshape(1, output.Total()/7)
	defer rows.Close()

	w := float32(mat.Cols())
	h := float32(mat.Rows())

	detections := make([]entity.Detection, 0, rows.Rows())
	for i := 0; i < rows.Rows(); i++ {
		confidence := rows.GetFloatAt(i, 2)
		if confidence < d.confThresh {
			continue
		}

		classID := int(rows.GetFloatAt(i, 1))
		detections = append(detections, entity.Detection{
			Label:      d.classLabel(classID),
			Confidence: float64(confidence),
			Box: entity.Box{
				XMin: float64(rows.GetFloatAt(i, 3) * w),
				YMin: float64(rows.GetFloatAt(i, 4) * h),
				XMax: float64(rows.GetFloatAt(i, 5) * w),
				YMax: float64(rows.GetFloatAt(i, 6) * h),
			},
		})
	}

	return detections, nil
}

// Annotate рисует рамки и подписи детекций и возвращает JPEG.
func (d *DNNDetector) Annotate(imageData []byte, detections []entity.Detection) ([]byte, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	red := color.RGBA{R: 255, A: 255}
	for _, det := range detections {
		rect := image.Rect(int(det.Box.XMin), int(det.Box.YMin), int(det.Box.XMax), int(det.Box.YMax))
		gocv.Rectangle(&mat, rect, red, 2)

		label := fmt.Sprintf("%s (%.2f)", det.Label, det.Confidence)
		gocv.PutText(&mat, label, image.Pt(rect.Min.X, rect.Min.Y-5), gocv.FontHersheySimplex, 0.5, red, 1)
	}

	buf, err := gocv.IMEncode(".jpg", mat)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	out := make([]byte, len(buf.GetBytes()))
	copy(out, buf.GetBytes())
	return out, nil
}

// Close освобождает сеть.
func (d *DNNDetector) Close() error {
	return d.net.Close()
}

func (d *DNNDetector) classLabel(classID int) string {
	if classID >= 0 && classID < len(d.labels) {
		return d.labels[classID]
	}
	return fmt.Sprintf("class_%d", classID)
}

// loadLabels читает имена классов, по одному на строку.
func loadLabels(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}

	var labels []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			labels = append(labels, line)
		}
	}
	return labels, nil
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), errors.New("failed to decode image")
}

// Проверка реализации интерфейса
var _ port.Detector = (*DNNDetector)(nil)
