package main

import (
	"context"
	"log"
	"time"

	"print-watch/config"
	"print-watch/internal/api"
	"print-watch/internal/container"
	"print-watch/internal/domain/port"
	"print-watch/internal/infrastructure/telegram"
	"print-watch/internal/infrastructure/vision"
	"print-watch/internal/metrics"
)

func main() {
	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}
	if cfg.TelegramChatID == 0 {
		log.Fatal("TELEGRAM_CHAT_ID is required")
	}

	// Детектор строится один раз; при неудаче сервер поднимается без
	// модели и отвечает 500 на каждый запрос детекции.
	var detector port.Detector
	if cfg.InferenceURL != "" {
		remote := vision.NewRemoteDetector(cfg.InferenceURL, 30*time.Second)
		if err := remote.CheckHealth(context.Background()); err != nil {
			log.Printf("Warning: inference service not available: %v", err)
		}
		detector = remote
		log.Printf("Using remote inference service: %s", cfg.InferenceURL)
	} else {
		dnn, err := vision.NewDNNDetector(cfg.ModelPath, cfg.ModelConfigPath, cfg.LabelsPath)
		if err != nil {
			log.Printf("Failed to load model: %v", err)
		} else {
			detector = dnn
			log.Printf("Model loaded from %s", cfg.ModelPath)
		}
	}

	var notifier port.AlertNotifier
	tg, err := telegram.NewNotifier(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		log.Printf("Failed to create Telegram notifier, alerts disabled: %v", err)
	} else {
		notifier = tg
	}

	appContainer := container.New(detector, notifier, cfg.SentinelLabel)

	server := api.NewServer(appContainer.DetectionService, metrics.New())

	log.Printf("Detection server is running on :%s", cfg.Port)
	if err := server.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
