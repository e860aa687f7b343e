package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"print-watch/internal/domain/entity"
	"print-watch/internal/domain/port"
)

// MonitorState — состояние цикла наблюдения.
type MonitorState string

const (
	StateDisconnected MonitorState = "disconnected" // сервер ещё не проверен
	StateConnected    MonitorState = "connected"    // сервер доступен, модель загружена
	StateCapturing    MonitorState = "capturing"    // идёт съёмка кадра
	StateSending      MonitorState = "sending"      // кадр отправляется на сервер
	StateIdle         MonitorState = "idle"         // пауза до следующего цикла
)

// MonitorService — цикл наблюдения: съёмка, отправка, пауза.
type MonitorService struct {
	camera   port.FrameSource
	uploader port.Uploader
	store    port.FrameStore

	interval   time.Duration
	retryDelay time.Duration // пауза после неудачной съёмки

	state MonitorState
}

// NewMonitorService создаёт сервис наблюдения.
func NewMonitorService(camera port.FrameSource, uploader port.Uploader, store port.FrameStore, interval time.Duration) *MonitorService {
	return &MonitorService{
		camera:     camera,
		uploader:   uploader,
		store:      store,
		interval:   interval,
		retryDelay: 5 * time.Second,
		state:      StateDisconnected,
	}
}

// State возвращает текущее состояние цикла.
func (m *MonitorService) State() MonitorState {
	return m.state
}

// Start проверяет сервер и открывает камеру.
// Любая ошибка здесь фатальна — цикл не запускается.
func (m *MonitorService) Start(ctx context.Context) error {
	modelLoaded, err := m.uploader.Health(ctx)
	if err != nil {
		return fmt.Errorf("server is unreachable: %w", err)
	}
	if !modelLoaded {
		return errors.New("server reports no model loaded")
	}
	m.state = StateConnected

	if err := m.camera.Init(); err != nil {
		return fmt.Errorf("camera init: %w", err)
	}

	return nil
}

// Run крутит цикл наблюдения до отмены контекста.
// Камера освобождается при любом пути выхода.
func (m *MonitorService) Run(ctx context.Context) error {
	defer func() {
		m.camera.Release()
		log.Printf("Camera released")
	}()

	log.Printf("Monitoring every %s", m.interval)

	for {
		if ok := m.cycle(ctx); !ok {
			return ctx.Err()
		}
	}
}

// cycle выполняет одну итерацию. Возвращает false при отмене контекста.
func (m *MonitorService) cycle(ctx context.Context) bool {
	m.state = StateCapturing
	frame, err := m.camera.Capture()
	if err != nil {
		log.Printf("Capture failed, retrying in %s: %v", m.retryDelay, err)
		return m.sleep(ctx, m.retryDelay)
	}

	if path, err := m.store.Save(frame, time.Now()); err != nil {
		log.Printf("Failed to save debug copy: %v", err)
	} else {
		log.Printf("Saved debug copy: %s", path)
	}

	m.send(ctx, frame)

	m.state = StateIdle
	return m.sleep(ctx, m.interval)
}

// send отправляет кадр: сначала multipart, при неудаче один раз base64.
func (m *MonitorService) send(ctx context.Context, frame []byte) {
	m.state = StateSending

	summary, err := m.uploader.SendFrame(ctx, frame)
	if err != nil {
		log.Printf("Primary upload failed: %v", err)
		log.Printf("Retrying via base64 transport...")
		summary, err = m.uploader.SendFrameBase64(ctx, frame)
	}
	if err != nil {
		log.Printf("Both transports failed, cycle abandoned: %v", err)
		return
	}

	m.logSummary(summary)
}

func (m *MonitorService) logSummary(summary *entity.Summary) {
	if summary.DetectionsFound == 0 {
		log.Printf("No objects detected")
		return
	}

	log.Printf("Detections found: %d", summary.DetectionsFound)
	for _, d := range summary.Detections {
		log.Printf("- %s: %.2f", d.Name, d.Confidence)
	}

	switch summary.Status {
	case entity.StatusErrorDetected:
		log.Printf("PRINT ERROR DETECTED (alert_sent=%v)", summary.AlertSent)
	case entity.StatusPrintingNormal:
		log.Printf("Printing looks normal")
	}
}

// sleep ждёт d или отмену контекста. Возвращает false при отмене.
func (m *MonitorService) sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
