package port

import (
	"context"
	"errors"

	"line-inspector/internal/domain/entity"
)

// ErrDetectorUnavailable модель не загружена или сборка без OpenCV
var ErrDetectorUnavailable = errors.New("object detector is not available")

// ObjectDetector интерфейс модели детекции объектов
type ObjectDetector interface {
	// Detect возвращает объекты с уверенностью не ниже threshold
	Detect(ctx context.Context, frame *entity.Frame, threshold float64) ([]entity.Detection, error)
}
