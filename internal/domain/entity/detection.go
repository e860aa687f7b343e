package entity

import (
	"math"
	"strings"
)

// Detection — один объект, найденный детектором на кадре.
type Detection struct {
	Label      string  // имя класса
	Confidence float64 // уверенность модели в диапазоне [0,1]
	Box        Box     // рамка в пиксельных координатах
}

// Box — прямоугольник вокруг найденного объекта.
type Box struct {
	XMin float64
	YMin float64
	XMax float64
	YMax float64
}

// IsSentinel сообщает, совпадает ли метка детекции с сентинелом.
func (d Detection) IsSentinel(sentinel string) bool {
	return strings.EqualFold(d.Label, sentinel)
}

// Batch — все детекции одного кадра вместе с меткой нормального состояния.
type Batch struct {
	Detections []Detection
	Sentinel   string
}

// NewBatch создаёт батч для одного кадра.
func NewBatch(detections []Detection, sentinel string) *Batch {
	return &Batch{Detections: detections, Sentinel: sentinel}
}

// Errors возвращает детекции, не совпадающие с сентинелом.
func (b *Batch) Errors() []Detection {
	errs := make([]Detection, 0, len(b.Detections))
	for _, d := range b.Detections {
		if !d.IsSentinel(b.Sentinel) {
			errs = append(errs, d)
		}
	}
	return errs
}

// HasErrors сообщает, есть ли в батче хотя бы одна не-сентинельная детекция.
func (b *Batch) HasErrors() bool {
	return len(b.Errors()) > 0
}

// Status определяет статус кадра по составу батча.
func (b *Batch) Status() Status {
	if len(b.Detections) == 0 {
		return StatusNormal
	}
	if b.HasErrors() {
		return StatusErrorDetected
	}
	return StatusPrintingNormal
}

// Status — итоговая оценка одного кадра.
type Status string

const (
	StatusNormal         Status = "normal"          // детекций нет
	StatusPrintingNormal Status = "printing_normal" // видна только нормальная печать
	StatusErrorDetected  Status = "error_detected"  // найден хотя бы один дефект
)

// Summary — ответ сервера по одному кадру.
type Summary struct {
	DetectionsFound int               `json:"detections_found"`
	Detections      []DetectionRecord `json:"detections"`
	AlertSent       bool              `json:"alert_sent"`
	Status          Status            `json:"status"`
}

// DetectionRecord — сериализуемое представление одной детекции.
type DetectionRecord struct {
	Name        string      `json:"name"`
	Confidence  float64     `json:"confidence"`
	Coordinates Coordinates `json:"coordinates"`
}

// Coordinates — целочисленная рамка в ответе сервера.
type Coordinates struct {
	XMin int `json:"xmin"`
	YMin int `json:"ymin"`
	XMax int `json:"xmax"`
	YMax int `json:"ymax"`
}

// NewSummary собирает ответ по батчу и результату отправки алерта.
func NewSummary(batch *Batch, alertSent bool) *Summary {
	records := make([]DetectionRecord, 0, len(batch.Detections))
	for _, d := range batch.Detections {
		records = append(records, DetectionRecord{
			Name:       d.Label,
			Confidence: d.Confidence,
			Coordinates: Coordinates{
				XMin: int(math.Round(d.Box.XMin)),
				YMin: int(math.Round(d.Box.YMin)),
				XMax: int(math.Round(d.Box.XMax)),
				YMax: int(math.Round(d.Box.YMax)),
			},
		})
	}

	return &Summary{
		DetectionsFound: len(batch.Detections),
		Detections:      records,
		AlertSent:       alertSent,
		Status:          batch.Status(),
	}
}
