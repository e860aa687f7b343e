package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"print-watch/config"
	app "print-watch/internal/application"
	"print-watch/internal/domain/port"
	"print-watch/internal/infrastructure/camera"
	"print-watch/internal/infrastructure/storage"
	"print-watch/internal/infrastructure/upload"
)

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var source port.FrameSource
	if cfg.UsePiCamera {
		log.Println("Using Raspberry Pi camera")
		source = camera.NewPiCamera()
	} else {
		log.Printf("Using USB webcam %d", cfg.CameraIndex)
		source = camera.NewWebcam(cfg.CameraIndex)
	}

	store, err := storage.NewCaptureStore(cfg.CaptureDir)
	if err != nil {
		log.Fatalf("Failed to create capture store: %v", err)
	}

	uploader := upload.NewClient(cfg.ServerURL, cfg.HTTPTimeout)
	monitor := app.NewMonitorService(source, uploader, store, cfg.CaptureInterval)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := monitor.Start(ctx); err != nil {
		log.Fatalf("Startup failed: %v", err)
	}

	log.Println("Press Ctrl+C to stop")
	if err := monitor.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Monitor error: %v", err)
	}

	log.Println("Client stopped")
}
