//go:build !gocv
// +build !gocv

package camera

import "errors"

// Webcam — заглушка для сборки без OpenCV.
type Webcam struct {
	index int
}

// NewWebcam создаёт заглушку источника кадров.
func NewWebcam(index int) *Webcam {
	return &Webcam{index: index}
}

// Init возвращает ошибку, если сборка без тега gocv.
func (w *Webcam) Init() error {
	return errors.New("gocv build tag is not enabled")
}

// Capture возвращает ошибку, если сборка без тега gocv.
func (w *Webcam) Capture() ([]byte, error) {
	return nil, errors.New("gocv build tag is not enabled")
}

// Release ничего не делает в заглушке.
func (w *Webcam) Release() {}
