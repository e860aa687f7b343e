package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Server — конфигурация сервера детекции.
type Server struct {
	Port            string
	TelegramToken   string // обязателен, без значения по умолчанию
	TelegramChatID  int64  // обязателен, без значения по умолчанию
	SentinelLabel   string
	ModelPath       string
	ModelConfigPath string
	LabelsPath      string
	InferenceURL    string // если задан, используется внешний inference-сервис
}

// Client — конфигурация клиента съёмки.
type Client struct {
	ServerURL       string
	CaptureInterval time.Duration
	UsePiCamera     bool
	CameraIndex     int
	CaptureDir      string
	HTTPTimeout     time.Duration
}

// LoadServer читает конфигурацию сервера из окружения.
func LoadServer() (*Server, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Server{
		Port:            getEnv("PORT", "5000"),
		TelegramToken:   os.Getenv("TELEGRAM_TOKEN"),
		SentinelLabel:   getEnv("SENTINEL_LABEL", "imprimiendo"),
		ModelPath:       getEnv("MODEL_PATH", "modelo/impresion.onnx"),
		ModelConfigPath: getEnv("MODEL_CONFIG_PATH", ""),
		LabelsPath:      getEnv("LABELS_PATH", "modelo/labels.txt"),
		InferenceURL:    os.Getenv("INFERENCE_URL"),
	}

	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = chatID
	}

	return cfg, nil
}

// LoadClient читает конфигурацию клиента из окружения.
func LoadClient() (*Client, error) {
	_ = godotenv.Load()

	return &Client{
		ServerURL:       getEnv("SERVER_URL", "http://localhost:5000"),
		CaptureInterval: time.Duration(getEnvAsInt("CAPTURE_INTERVAL", 30)) * time.Second,
		UsePiCamera:     getEnvAsBool("USE_PI_CAMERA", false),
		CameraIndex:     getEnvAsInt("CAMERA_INDEX", 0),
		CaptureDir:      getEnv("CAPTURE_DIR", "captures"),
		HTTPTimeout:     time.Duration(getEnvAsInt("HTTP_TIMEOUT", 30)) * time.Second,
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
