package metrics

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics — счётчики сервера детекции.
type Metrics struct {
	RequestsTotal   atomic.Uint64
	DecodeErrors    atomic.Uint64
	InferenceErrors atomic.Uint64
	DetectionsTotal atomic.Uint64
	AlertsSent      atomic.Uint64
	AlertsSkipped   atomic.Uint64

	// Длительность последней инференции в миллисекундах.
	InferenceLatencyMs atomic.Uint64

	registry *prometheus.Registry
}

// New создаёт метрики и регистрирует их в приватном реестре.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "printwatch_requests_total",
			Help: "Total detection requests received",
		},
		func() float64 { return float64(m.RequestsTotal.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "printwatch_decode_errors_total",
			Help: "Total requests rejected with undecodable images",
		},
		func() float64 { return float64(m.DecodeErrors.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "printwatch_inference_errors_total",
			Help: "Total detector failures",
		},
		func() float64 { return float64(m.InferenceErrors.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "printwatch_detections_total",
			Help: "Total objects detected across all frames",
		},
		func() float64 { return float64(m.DetectionsTotal.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "printwatch_alerts_sent_total",
			Help: "Total alerts delivered to the chat channel",
		},
		func() float64 { return float64(m.AlertsSent.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "printwatch_alerts_skipped_total",
			Help: "Total frames with errors where no alert was delivered",
		},
		func() float64 { return float64(m.AlertsSkipped.Load()) },
	))

	m.registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "printwatch_inference_latency_ms",
			Help: "Latency of the last inference in milliseconds",
		},
		func() float64 { return float64(m.InferenceLatencyMs.Load()) },
	))

	return m
}

// ObserveInference фиксирует длительность одной инференции.
func (m *Metrics) ObserveInference(start time.Time) {
	m.InferenceLatencyMs.Store(uint64(time.Since(start).Milliseconds()))
}

// Handler возвращает HTTP-обработчик экспорта метрик.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
