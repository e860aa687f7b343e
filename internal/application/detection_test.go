package app

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/require"

	"print-watch/internal/domain/entity"
)

// makeTestJPEG создаёт маленький валидный JPEG для тестов.
func makeTestJPEG(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 5), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

type fakeDetector struct {
	detections []entity.Detection
	err        error
	calls      int
}

func (f *fakeDetector) Detect(ctx context.Context, imageData []byte) ([]entity.Detection, error) {
	f.calls++
	return f.detections, f.err
}

func (f *fakeDetector) Annotate(imageData []byte, detections []entity.Detection) ([]byte, error) {
	return imageData, nil
}

type fakeNotifier struct {
	sent    bool
	calls   int
	lastLen int
}

func (f *fakeNotifier) SendAlert(ctx context.Context, rendered []byte, batch *entity.Batch) bool {
	f.calls++
	f.lastLen = len(batch.Detections)
	return f.sent
}

func TestProcess_EmptyBatch(t *testing.T) {
	det := &fakeDetector{}
	not := &fakeNotifier{sent: true}
	svc := NewDetectionService(det, not, "imprimiendo")

	summary, err := svc.Process(context.Background(), makeTestJPEG(t))
	require.NoError(t, err)
	require.Equal(t, 0, summary.DetectionsFound)
	require.Empty(t, summary.Detections)
	require.Equal(t, entity.StatusNormal, summary.Status)
	require.False(t, summary.AlertSent)
	require.Zero(t, not.calls)
}

func TestProcess_SentinelOnlySkipsAlert(t *testing.T) {
	det := &fakeDetector{detections: []entity.Detection{
		{Label: "imprimiendo", Confidence: 0.91},
	}}
	not := &fakeNotifier{sent: true}
	svc := NewDetectionService(det, not, "imprimiendo")

	summary, err := svc.Process(context.Background(), makeTestJPEG(t))
	require.NoError(t, err)
	require.Equal(t, entity.StatusPrintingNormal, summary.Status)
	require.False(t, summary.AlertSent)
	require.Zero(t, not.calls)
}

func TestProcess_ErrorDetectedDispatchesFullBatch(t *testing.T) {
	det := &fakeDetector{detections: []entity.Detection{
		{Label: "imprimiendo", Confidence: 0.91},
		{Label: "stringing", Confidence: 0.77, Box: entity.Box{XMin: 10, YMin: 20, XMax: 110, YMax: 220}},
	}}
	not := &fakeNotifier{sent: true}
	svc := NewDetectionService(det, not, "imprimiendo")

	summary, err := svc.Process(context.Background(), makeTestJPEG(t))
	require.NoError(t, err)
	require.Equal(t, entity.StatusErrorDetected, summary.Status)
	require.True(t, summary.AlertSent)
	require.Equal(t, 1, not.calls)
	// Нотификатор получает полный батч, включая сентинел.
	require.Equal(t, 2, not.lastLen)
}

func TestProcess_DispatchFailureIsNonFatal(t *testing.T) {
	det := &fakeDetector{detections: []entity.Detection{
		{Label: "spaghetti", Confidence: 0.5},
	}}
	not := &fakeNotifier{sent: false}
	svc := NewDetectionService(det, not, "imprimiendo")

	summary, err := svc.Process(context.Background(), makeTestJPEG(t))
	require.NoError(t, err)
	require.Equal(t, entity.StatusErrorDetected, summary.Status)
	require.False(t, summary.AlertSent)
}

func TestProcess_UndecodableSkipsDetector(t *testing.T) {
	det := &fakeDetector{}
	svc := NewDetectionService(det, nil, "imprimiendo")

	_, err := svc.Process(context.Background(), []byte("definitely not an image"))
	require.ErrorIs(t, err, ErrDecode)
	require.Zero(t, det.calls)
}

func TestProcess_NoImage(t *testing.T) {
	svc := NewDetectionService(&fakeDetector{}, nil, "imprimiendo")

	_, err := svc.Process(context.Background(), nil)
	require.ErrorIs(t, err, ErrNoImage)
}

func TestProcess_DetectorUnavailable(t *testing.T) {
	svc := NewDetectionService(nil, nil, "imprimiendo")
	require.False(t, svc.ModelLoaded())

	_, err := svc.Process(context.Background(), makeTestJPEG(t))
	require.ErrorIs(t, err, ErrDetectorUnavailable)
}

func TestProcess_DetectorError(t *testing.T) {
	det := &fakeDetector{err: errors.New("inference exploded")}
	svc := NewDetectionService(det, nil, "imprimiendo")

	_, err := svc.Process(context.Background(), makeTestJPEG(t))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrDecode)
	require.NotErrorIs(t, err, ErrDetectorUnavailable)
}
