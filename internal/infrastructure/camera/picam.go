package camera

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
)

const (
	frameWidth  = 1280
	frameHeight = 720
	jpegQuality = 85
)

// PiCamera — встроенная камера Raspberry Pi, снимает через rpicam-still.
type PiCamera struct {
	command string
}

// NewPiCamera создаёт источник кадров встроенной камеры.
func NewPiCamera() *PiCamera {
	return &PiCamera{command: "rpicam-still"}
}

// Init проверяет, что утилита съёмки доступна.
// Старые прошивки ставят её под именем libcamera-still.
func (p *PiCamera) Init() error {
	if _, err := exec.LookPath(p.command); err == nil {
		return nil
	}
	if _, err := exec.LookPath("libcamera-still"); err == nil {
		p.command = "libcamera-still"
		return nil
	}
	return fmt.Errorf("%s not found in PATH", p.command)
}

// Capture снимает один кадр в JPEG через stdout утилиты.
func (p *PiCamera) Capture() ([]byte, error) {
	cmd := exec.Command(p.command, p.captureArgs()...)

	frame, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.command, err)
	}
	if len(frame) == 0 {
		return nil, errors.New("camera returned an empty frame")
	}

	return frame, nil
}

// Release ничего не держит открытым: утилита завершается после каждого кадра.
func (p *PiCamera) Release() {}

func (p *PiCamera) captureArgs() []string {
	return []string{
		"--output", "-",
		"--width", strconv.Itoa(frameWidth),
		"--height", strconv.Itoa(frameHeight),
		"--quality", strconv.Itoa(jpegQuality),
		"--timeout", "1",
		"--nopreview",
	}
}
