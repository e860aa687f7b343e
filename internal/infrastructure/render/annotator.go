package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"math"

	_ "image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"print-watch/internal/domain/entity"
)

const (
	boxThickness = 2
	jpegQuality  = 90
)

var boxColor = color.RGBA{R: 255, A: 255}

// Annotate рисует рамки и подписи детекций поверх кадра и кодирует JPEG.
func Annotate(imageData []byte, detections []entity.Detection) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("decode frame: %w", err)
	}

	canvas := image.NewRGBA(src.Bounds())
	draw.Draw(canvas, canvas.Bounds(), src, src.Bounds().Min, draw.Src)

	for _, d := range detections {
		rect := image.Rect(
			int(math.Round(d.Box.XMin)),
			int(math.Round(d.Box.YMin)),
			int(math.Round(d.Box.XMax)),
			int(math.Round(d.Box.YMax)),
		)
		drawRect(canvas, rect)
		drawLabel(canvas, fmt.Sprintf("%s (%.2f)", d.Label, d.Confidence), rect.Min.X, rect.Min.Y-5)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, canvas, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}

	return buf.Bytes(), nil
}

// drawRect рисует контур рамки четырьмя полосами.
func drawRect(canvas *image.RGBA, rect image.Rectangle) {
	fill := image.NewUniform(boxColor)

	top := image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+boxThickness)
	bottom := image.Rect(rect.Min.X, rect.Max.Y-boxThickness, rect.Max.X, rect.Max.Y)
	left := image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+boxThickness, rect.Max.Y)
	right := image.Rect(rect.Max.X-boxThickness, rect.Min.Y, rect.Max.X, rect.Max.Y)

	for _, stripe := range []image.Rectangle{top, bottom, left, right} {
		draw.Draw(canvas, stripe.Intersect(canvas.Bounds()), fill, image.Point{}, draw.Src)
	}
}

// drawLabel печатает текст метки над рамкой.
func drawLabel(canvas *image.RGBA, label string, x, y int) {
	if y < basicfont.Face7x13.Height {
		y = basicfont.Face7x13.Height
	}

	d := font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(boxColor),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(label)
}
