package vision

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"

	"line-inspector/internal/domain/entity"
)

func TestClassName(t *testing.T) {
	classes := []string{"ok", "sg"}
	require.Equal(t, "sg", ClassName(classes, 1))
	require.Equal(t, "Class_7", ClassName(classes, 7))
	require.Equal(t, "Class_-1", ClassName(classes, -1))
}

func TestBuildDetections(t *testing.T) {
	bounds := image.Rect(0, 0, 100, 100)
	boxes := []image.Rectangle{
		image.Rect(10, 10, 20, 20),
		image.Rect(-5, 90, 30, 120),
		image.Rect(200, 200, 220, 220),
	}
	scores := []float32{0.9, 0.6, 0.8}
	ids := []int{1, 0, 1}

	dets := buildDetections([]int{0, 1, 2, 9}, boxes, scores, ids, []string{"ok", "sg"}, bounds)
	require.Len(t, dets, 2)
	require.Equal(t, "sg", dets[0].Label)
	require.InDelta(t, 0.9, dets[0].Confidence, 1e-6)
	// рамка обрезана по кадру
	require.Equal(t, entity.BoundingBox{X1: 0, Y1: 90, X2: 30, Y2: 100}, dets[1].Box)
}
