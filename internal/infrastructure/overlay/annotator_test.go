package overlay

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/draw"

	"line-inspector/internal/domain/entity"
	"line-inspector/internal/domain/port"
)

func whiteFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

func TestAnnotator_DrawsBoxColourByLabel(t *testing.T) {
	a := NewAnnotator("sg")
	frame := whiteFrame(160, 120)
	box := entity.BoundingBox{X1: 40, Y1: 60, X2: 90, Y2: 110}

	out := a.Annotate(frame, []entity.Detection{{Label: "SG", Confidence: 0.9, Box: box}}, port.Banner{})
	require.Equal(t, ColorDefect, out.RGBAAt(40, 85))
	require.Equal(t, ColorDefect, out.RGBAAt(89, 85))

	out = a.Annotate(frame, []entity.Detection{{Label: "bolt", Confidence: 0.7, Box: box}}, port.Banner{})
	require.Equal(t, ColorObject, out.RGBAAt(40, 85))

	// внутренность рамки не закрашивается
	require.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, out.RGBAAt(65, 100))
}

func TestAnnotator_DoesNotMutateInput(t *testing.T) {
	a := NewAnnotator("sg")
	frame := whiteFrame(160, 120)
	det := entity.Detection{Label: "sg", Confidence: 0.5, Box: entity.BoundingBox{X1: 40, Y1: 60, X2: 90, Y2: 110}}

	out := a.Annotate(frame, []entity.Detection{det}, port.Banner{Text: "FPS: 30 | Status: PASS - NO DEFECTS", Color: color.RGBA{G: 255, A: 255}})
	require.NotSame(t, frame, out)
	require.Equal(t, frame.Bounds(), out.Bounds())
	require.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, frame.RGBAAt(40, 85))
	require.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, frame.RGBAAt(7, 7))
}

func TestAnnotator_BannerIsSemiTransparent(t *testing.T) {
	a := NewAnnotator("sg")
	frame := whiteFrame(400, 100)

	out := a.Annotate(frame, nil, port.Banner{Text: "FPS: 12 | Status: NG - SG DETECTED", Color: ColorDefect})
	px := out.RGBAAt(6, 6)
	require.Less(t, px.R, uint8(100))
	require.Greater(t, px.R, uint8(40))
	// за пределами плашки кадр не тронут
	require.Equal(t, uint8(255), out.RGBAAt(399, 99).R)
}

func TestAnnotator_LabelText(t *testing.T) {
	a := NewAnnotator("sg")
	require.Equal(t, "SG - DEFECT 0.91", a.LabelText(entity.Detection{Label: "Sg", Confidence: 0.912}))
	require.Equal(t, "BOLT 0.50", a.LabelText(entity.Detection{Label: "bolt", Confidence: 0.5}))
}

func TestAnnotator_BoxAtEdgeDoesNotPanic(t *testing.T) {
	a := NewAnnotator("sg")
	frame := whiteFrame(50, 50)
	det := entity.Detection{Label: "sg", Confidence: 0.9, Box: entity.BoundingBox{X1: 0, Y1: 0, X2: 200, Y2: 200}}

	require.NotPanics(t, func() { a.Annotate(frame, []entity.Detection{det}, port.Banner{}) })
}
