package api

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	app "print-watch/internal/application"
	"print-watch/internal/domain/entity"
	"print-watch/internal/metrics"
)

// Server — HTTP-сервер детекции.
type Server struct {
	detection *app.DetectionService
	metrics   *metrics.Metrics
	engine    *gin.Engine
}

// NewServer собирает роутер и обработчики.
func NewServer(detection *app.DetectionService, m *metrics.Metrics) *Server {
	s := &Server{
		detection: detection,
		metrics:   m,
	}

	r := gin.Default()
	r.GET("/", s.health)
	r.POST("/detect", s.detect)
	r.POST("/detect_base64", s.detectBase64)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	s.engine = r
	return s
}

// Run запускает сервер на указанном адресе.
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// health отвечает состоянием сервера и признаком загруженной модели.
func (s *Server) health(c *gin.Context) {
	status := "OK"
	if !s.detection.ModelLoaded() {
		status = "ERROR"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       status,
		"message":      "3D print error detection server",
		"model_loaded": s.detection.ModelLoaded(),
	})
}

// detect принимает кадр через multipart-поле image.
func (s *Server) detect(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no image supplied"})
		return
	}
	if file.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty file"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image: " + err.Error()})
		return
	}
	defer f.Close()

	imageData, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image: " + err.Error()})
		return
	}

	s.process(c, imageData)
}

// detectBase64 принимает кадр как base64 в JSON-поле image.
// Значение может начинаться с data-URI префикса.
func (s *Server) detectBase64(c *gin.Context) {
	var req struct {
		Image string `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Image == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no base64 image supplied"})
		return
	}

	payload := req.Image
	if idx := strings.Index(payload, ","); idx >= 0 {
		payload = payload[idx+1:]
	}

	imageData, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to decode base64 image: " + err.Error()})
		return
	}

	s.process(c, imageData)
}

// process прогоняет кадр через сервис и пишет ответ.
func (s *Server) process(c *gin.Context, imageData []byte) {
	s.metrics.RequestsTotal.Add(1)

	start := time.Now()
	summary, err := s.detection.Process(c.Request.Context(), imageData)
	s.metrics.ObserveInference(start)

	if err != nil {
		switch {
		case errors.Is(err, app.ErrNoImage), errors.Is(err, app.ErrDecode):
			s.metrics.DecodeErrors.Add(1)
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, app.ErrDetectorUnavailable):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "model is not available"})
		default:
			// Текст ошибки уходит вызывающему как есть: сервис живёт
			// в доверенной сети, а клиент пишет тело ответа в лог.
			s.metrics.InferenceErrors.Add(1)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error: " + err.Error()})
		}
		return
	}

	s.metrics.DetectionsTotal.Add(uint64(summary.DetectionsFound))
	if summary.Status == entity.StatusErrorDetected {
		if summary.AlertSent {
			s.metrics.AlertsSent.Add(1)
		} else {
			s.metrics.AlertsSkipped.Add(1)
		}
	}

	c.JSON(http.StatusOK, summary)
}
