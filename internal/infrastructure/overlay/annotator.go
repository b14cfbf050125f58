package overlay

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"line-inspector/internal/domain/entity"
	"line-inspector/internal/domain/port"
)

const (
	boxThickness = 2
	bannerAlpha  = 178 // ~70% непрозрачности
)

var (
	// ColorDefect цвет рамки класса брака
	ColorDefect = color.RGBA{R: 255, A: 255}
	// ColorObject цвет рамки остальных классов
	ColorObject = color.RGBA{R: 255, G: 255, A: 255}

	colorLabelText = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Annotator рисует рамки детекций и строку состояния. Состояния не хранит.
type Annotator struct {
	defectLabel string
	face        font.Face
}

// NewAnnotator создаёт разметчик для указанного класса брака
func NewAnnotator(defectLabel string) *Annotator {
	return &Annotator{
		defectLabel: defectLabel,
		face:        basicfont.Face7x13,
	}
}

// Annotate копирует кадр и рисует на копии; исходный кадр не меняется
func (a *Annotator) Annotate(frame *image.RGBA, detections []entity.Detection, banner port.Banner) *image.RGBA {
	out := image.NewRGBA(frame.Bounds())
	draw.Draw(out, out.Bounds(), frame, frame.Bounds().Min, draw.Src)

	for _, d := range detections {
		a.drawDetection(out, d)
	}
	a.drawBanner(out, banner)

	return out
}

// LabelText подпись рамки: "SG - DEFECT 0.91" для брака, "BOLT 0.80" для остальных
func (a *Annotator) LabelText(d entity.Detection) string {
	status := strings.ToUpper(d.Label)
	if d.Is(a.defectLabel) {
		status = strings.ToUpper(a.defectLabel) + " - DEFECT"
	}
	return fmt.Sprintf("%s %.2f", status, d.Confidence)
}

func (a *Annotator) drawDetection(dst *image.RGBA, d entity.Detection) {
	c := ColorObject
	if d.Is(a.defectLabel) {
		c = ColorDefect
	}

	r := d.Box.Rect()
	strokeRect(dst, r, c, boxThickness)

	label := a.LabelText(d)
	textW := font.MeasureString(a.face, label).Ceil()
	textH := a.face.Metrics().Height.Ceil()

	// плашка над рамкой, если сверху нет места — внутри рамки
	tag := image.Rect(r.Min.X, r.Min.Y-textH-6, r.Min.X+textW+4, r.Min.Y)
	if tag.Min.Y < dst.Bounds().Min.Y {
		tag = tag.Add(image.Pt(0, textH+6))
	}
	fillRect(dst, tag, c)
	a.drawText(dst, label, tag.Min.X+2, tag.Max.Y-4, colorLabelText)
}

func (a *Annotator) drawBanner(dst *image.RGBA, banner port.Banner) {
	if banner.Text == "" {
		return
	}

	textW := font.MeasureString(a.face, banner.Text).Ceil()
	textH := a.face.Metrics().Height.Ceil()
	r := image.Rect(5, 5, 5+textW+10, 5+textH+14).Add(dst.Bounds().Min)

	mask := image.NewUniform(color.Alpha{A: bannerAlpha})
	draw.DrawMask(dst, r, image.Black, image.Point{}, mask, image.Point{}, draw.Over)
	a.drawText(dst, banner.Text, r.Min.X+5, r.Max.Y-9, banner.Color)
}

func (a *Annotator) drawText(dst *image.RGBA, text string, x, y int, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: a.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}

func fillRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

func strokeRect(dst *image.RGBA, r image.Rectangle, c color.Color, t int) {
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+t), c)
	fillRect(dst, image.Rect(r.Min.X, r.Max.Y-t, r.Max.X, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+t, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Max.X-t, r.Min.Y, r.Max.X, r.Max.Y), c)
}

var _ port.FrameAnnotator = (*Annotator)(nil)
