package vision

import (
	"image"

	"golang.org/x/image/draw"
)

// toRGBA приводит кадр к *image.RGBA с началом координат в (0,0)
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// resizeRGBA масштабирует кадр до w×h; нулевые размеры оставляют кадр как есть
func resizeRGBA(img *image.RGBA, w, h int) *image.RGBA {
	if w <= 0 || h <= 0 || (img.Bounds().Dx() == w && img.Bounds().Dy() == h) {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(out, out.Bounds(), img, img.Bounds(), draw.Src, nil)
	return out
}
