package overlay

import (
	"bytes"
	"errors"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"

	"line-inspector/internal/domain/port"
)

// DefaultJPEGQuality качество JPEG для отправки клиентам
const DefaultJPEGQuality = 85

// JPEGEncoder кодирует кадры в JPEG, при необходимости уменьшая ширину
type JPEGEncoder struct {
	Quality  int
	MaxWidth int // 0 — без масштабирования
}

// NewJPEGEncoder создаёт кодировщик
func NewJPEGEncoder(quality, maxWidth int) *JPEGEncoder {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return &JPEGEncoder{Quality: quality, MaxWidth: maxWidth}
}

// Encode реализует port.FrameEncoder
func (e *JPEGEncoder) Encode(frame image.Image) ([]byte, error) {
	if frame == nil || frame.Bounds().Empty() {
		return nil, errors.New("empty frame")
	}

	img := e.scale(frame)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: e.Quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *JPEGEncoder) scale(src image.Image) image.Image {
	b := src.Bounds()
	if e.MaxWidth <= 0 || b.Dx() <= e.MaxWidth {
		return src
	}
	h := b.Dy() * e.MaxWidth / b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, e.MaxWidth, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

var _ port.FrameEncoder = (*JPEGEncoder)(nil)
