package vision

import (
	"fmt"
	"image"

	"line-inspector/internal/domain/entity"
)

// DefaultInputSize сторона входа сети YOLOv8
const DefaultInputSize = 640

// ClassName имя класса по индексу; неизвестные индексы получают имя Class_<n>
func ClassName(classes []string, id int) string {
	if id >= 0 && id < len(classes) {
		return classes[id]
	}
	return fmt.Sprintf("Class_%d", id)
}

// buildDetections собирает детекции по индексам, оставшимся после NMS,
// и обрезает рамки по границам кадра
func buildDetections(keep []int, boxes []image.Rectangle, scores []float32, classIDs []int, classes []string, bounds image.Rectangle) []entity.Detection {
	out := make([]entity.Detection, 0, len(keep))
	for _, idx := range keep {
		if idx < 0 || idx >= len(boxes) {
			continue
		}
		r := boxes[idx].Intersect(bounds)
		if r.Empty() {
			continue
		}
		out = append(out, entity.Detection{
			Label:      ClassName(classes, classIDs[idx]),
			Confidence: float64(scores[idx]),
			Box:        entity.BoundingBox{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y},
		})
	}
	return out
}
