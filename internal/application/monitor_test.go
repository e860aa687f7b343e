package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"print-watch/internal/domain/entity"
)

type fakeCamera struct {
	frame    []byte
	err      error
	released bool
	initErr  error
}

func (f *fakeCamera) Init() error {
	return f.initErr
}

func (f *fakeCamera) Capture() ([]byte, error) {
	return f.frame, f.err
}

func (f *fakeCamera) Release() {
	f.released = true
}

type fakeUploader struct {
	modelLoaded bool
	healthErr   error

	primaryErr   error
	secondaryErr error

	primaryCalls   int
	secondaryCalls int
}

func (f *fakeUploader) Health(ctx context.Context) (bool, error) {
	return f.modelLoaded, f.healthErr
}

func (f *fakeUploader) SendFrame(ctx context.Context, frame []byte) (*entity.Summary, error) {
	f.primaryCalls++
	if f.primaryErr != nil {
		return nil, f.primaryErr
	}
	return &entity.Summary{Status: entity.StatusNormal, Detections: []entity.DetectionRecord{}}, nil
}

func (f *fakeUploader) SendFrameBase64(ctx context.Context, frame []byte) (*entity.Summary, error) {
	f.secondaryCalls++
	if f.secondaryErr != nil {
		return nil, f.secondaryErr
	}
	return &entity.Summary{Status: entity.StatusNormal, Detections: []entity.DetectionRecord{}}, nil
}

type fakeStore struct {
	saves int
}

func (f *fakeStore) Save(frame []byte, capturedAt time.Time) (string, error) {
	f.saves++
	return "captures/capture_test.jpg", nil
}

func newTestMonitor(cam *fakeCamera, up *fakeUploader) *MonitorService {
	m := NewMonitorService(cam, up, &fakeStore{}, time.Millisecond)
	m.retryDelay = time.Millisecond
	return m
}

func TestStart_ServerUnreachable(t *testing.T) {
	up := &fakeUploader{healthErr: errors.New("connection refused")}
	m := newTestMonitor(&fakeCamera{}, up)

	err := m.Start(context.Background())
	require.Error(t, err)
	require.Equal(t, StateDisconnected, m.State())
}

func TestStart_ModelNotLoaded(t *testing.T) {
	up := &fakeUploader{modelLoaded: false}
	m := newTestMonitor(&fakeCamera{}, up)

	err := m.Start(context.Background())
	require.ErrorContains(t, err, "no model loaded")
}

func TestStart_CameraInitFatal(t *testing.T) {
	up := &fakeUploader{modelLoaded: true}
	cam := &fakeCamera{initErr: errors.New("device busy")}
	m := newTestMonitor(cam, up)

	err := m.Start(context.Background())
	require.ErrorContains(t, err, "camera init")
	require.Equal(t, StateConnected, m.State())
}

func TestCycle_PrimaryFailureFallsBackExactlyOnce(t *testing.T) {
	up := &fakeUploader{modelLoaded: true, primaryErr: errors.New("timeout")}
	m := newTestMonitor(&fakeCamera{frame: []byte("jpeg")}, up)

	ok := m.cycle(context.Background())
	require.True(t, ok)
	require.Equal(t, 1, up.primaryCalls)
	require.Equal(t, 1, up.secondaryCalls)
}

func TestCycle_BothTransportsFailAbandonsCycle(t *testing.T) {
	up := &fakeUploader{
		modelLoaded:  true,
		primaryErr:   errors.New("timeout"),
		secondaryErr: errors.New("timeout"),
	}
	m := newTestMonitor(&fakeCamera{frame: []byte("jpeg")}, up)

	ok := m.cycle(context.Background())
	require.True(t, ok)
	require.Equal(t, 1, up.primaryCalls)
	require.Equal(t, 1, up.secondaryCalls)
}

func TestCycle_PrimarySuccessSkipsFallback(t *testing.T) {
	up := &fakeUploader{modelLoaded: true}
	m := newTestMonitor(&fakeCamera{frame: []byte("jpeg")}, up)

	ok := m.cycle(context.Background())
	require.True(t, ok)
	require.Equal(t, 1, up.primaryCalls)
	require.Zero(t, up.secondaryCalls)
}

func TestCycle_CaptureFailureContinues(t *testing.T) {
	up := &fakeUploader{modelLoaded: true}
	cam := &fakeCamera{err: errors.New("read failed")}
	m := newTestMonitor(cam, up)

	ok := m.cycle(context.Background())
	require.True(t, ok)
	require.Zero(t, up.primaryCalls)
}

func TestCycle_SavesDebugCopy(t *testing.T) {
	up := &fakeUploader{modelLoaded: true}
	store := &fakeStore{}
	m := NewMonitorService(&fakeCamera{frame: []byte("jpeg")}, up, store, time.Millisecond)

	ok := m.cycle(context.Background())
	require.True(t, ok)
	require.Equal(t, 1, store.saves)
}

func TestRun_ReleasesCameraOnCancel(t *testing.T) {
	up := &fakeUploader{modelLoaded: true}
	cam := &fakeCamera{frame: []byte("jpeg")}
	m := newTestMonitor(cam, up)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	err := m.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.True(t, cam.released)
	require.GreaterOrEqual(t, up.primaryCalls, 1)
}
