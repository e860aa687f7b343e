package container

import (
	app "print-watch/internal/application"
	"print-watch/internal/domain/port"
)

type Container struct {
	DetectionService *app.DetectionService
}

func New(detector port.Detector, notifier port.AlertNotifier, sentinel string) *Container {
	return &Container{
		DetectionService: app.NewDetectionService(detector, notifier, sentinel),
	}
}
