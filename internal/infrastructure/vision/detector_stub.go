//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"fmt"

	"line-inspector/internal/domain/entity"
	"line-inspector/internal/domain/port"
)

// YOLODetector заглушка без OpenCV
type YOLODetector struct{}

// NewYOLODetector возвращает ошибку, если сборка без тега gocv.
func NewYOLODetector(modelPath string, classes []string, inputSize int, nmsThreshold float64) (*YOLODetector, error) {
	_ = classes
	_ = inputSize
	_ = nmsThreshold
	return nil, fmt.Errorf("%w: %s: gocv build tag is not enabled", port.ErrDetectorUnavailable, modelPath)
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *YOLODetector) Detect(ctx context.Context, frame *entity.Frame, threshold float64) ([]entity.Detection, error) {
	_ = ctx
	_ = frame
	_ = threshold
	return nil, port.ErrDetectorUnavailable
}

// Close ничего не делает
func (d *YOLODetector) Close() error {
	return nil
}
