package port

import (
	"image"
	"image/color"

	"line-inspector/internal/domain/entity"
)

// Banner строка состояния поверх кадра
type Banner struct {
	Text  string
	Color color.RGBA
}

// FrameAnnotator рисует детекции и строку состояния
type FrameAnnotator interface {
	// Annotate не меняет исходный кадр и возвращает новый
	Annotate(frame *image.RGBA, detections []entity.Detection, banner Banner) *image.RGBA
}

// FrameEncoder кодирует кадр для отправки клиентам
type FrameEncoder interface {
	Encode(frame image.Image) ([]byte, error)
}
