package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadServer_Defaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	cfg, err := LoadServer()
	require.NoError(t, err)
	require.Equal(t, "5000", cfg.Port)
	require.Equal(t, "imprimiendo", cfg.SentinelLabel)
	require.Empty(t, cfg.TelegramToken)
	require.Zero(t, cfg.TelegramChatID)
}

func TestLoadServer_ChatID(t *testing.T) {
	t.Setenv("TELEGRAM_CHAT_ID", "-1002221266716")

	cfg, err := LoadServer()
	require.NoError(t, err)
	require.Equal(t, int64(-1002221266716), cfg.TelegramChatID)
}

func TestLoadServer_InvalidChatID(t *testing.T) {
	t.Setenv("TELEGRAM_CHAT_ID", "not-a-number")

	_, err := LoadServer()
	require.Error(t, err)
}

func TestLoadClient_Overrides(t *testing.T) {
	t.Setenv("SERVER_URL", "http://detector:9000")
	t.Setenv("CAPTURE_INTERVAL", "5")
	t.Setenv("USE_PI_CAMERA", "true")
	t.Setenv("CAMERA_INDEX", "2")

	cfg, err := LoadClient()
	require.NoError(t, err)
	require.Equal(t, "http://detector:9000", cfg.ServerURL)
	require.Equal(t, int64(5), int64(cfg.CaptureInterval.Seconds()))
	require.True(t, cfg.UsePiCamera)
	require.Equal(t, 2, cfg.CameraIndex)
}
