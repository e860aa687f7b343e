//go:build gocv
// +build gocv

package camera

import (
	"errors"
	"fmt"

	"gocv.io/x/gocv"
)

// Webcam — USB-камера через OpenCV VideoCapture.
type Webcam struct {
	index int
	cap   *gocv.VideoCapture
}

// NewWebcam создаёт источник кадров для устройства с указанным индексом.
func NewWebcam(index int) *Webcam {
	return &Webcam{index: index}
}

// Init открывает устройство и выставляет режим съёмки.
func (w *Webcam) Init() error {
	cap, err := gocv.OpenVideoCapture(w.index)
	if err != nil {
		return fmt.Errorf("open webcam %d: %w", w.index, err)
	}

	cap.Set(gocv.VideoCaptureFrameWidth, float64(frameWidth))
	cap.Set(gocv.VideoCaptureFrameHeight, float64(frameHeight))
	cap.Set(gocv.VideoCaptureFPS, 30)

	if !cap.IsOpened() {
		cap.Close()
		return errors.New("webcam is not opened")
	}

	w.cap = cap
	return nil
}

// Capture читает один кадр и кодирует его в JPEG.
func (w *Webcam) Capture() ([]byte, error) {
	if w.cap == nil {
		return nil, errors.New("webcam is not initialized")
	}

	mat := gocv.NewMat()
	defer mat.Close()

	if ok := w.cap.Read(&mat); !ok || mat.Empty() {
		return nil, errors.New("failed to read frame from webcam")
	}

	buf, err := gocv.IMEncodeWithParams(".jpg", mat, []int{gocv.IMWriteJpegQuality, jpegQuality})
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	frame := make([]byte, len(buf.GetBytes()))
	copy(frame, buf.GetBytes())
	return frame, nil
}

// Release закрывает устройство.
func (w *Webcam) Release() {
	if w.cap != nil {
		w.cap.Close()
		w.cap = nil
	}
}
