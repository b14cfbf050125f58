//go:build gocv
// +build gocv

package vision

import (
	"context"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"

	"line-inspector/internal/domain/entity"
	"line-inspector/internal/domain/port"
)

// YOLODetector детектор YOLOv8 (ONNX) на OpenCV DNN
type YOLODetector struct {
	mu           sync.Mutex
	net          gocv.Net
	classes      []string
	inputSize    int
	nmsThreshold float32
}

// NewYOLODetector загружает модель; classes — имена классов в порядке обучения
func NewYOLODetector(modelPath string, classes []string, inputSize int, nmsThreshold float64) (*YOLODetector, error) {
	net := gocv.ReadNetFromONNX(modelPath)
	if net.Empty() {
		return nil, fmt.Errorf("%w: cannot load model %s", port.ErrDetectorUnavailable, modelPath)
	}
	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, fmt.Errorf("set backend: %w", err)
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, fmt.Errorf("set target: %w", err)
	}
	if inputSize <= 0 {
		inputSize = DefaultInputSize
	}

	return &YOLODetector{
		net:          net,
		classes:      classes,
		inputSize:    inputSize,
		nmsThreshold: float32(nmsThreshold),
	}, nil
}

// Detect прогоняет кадр через сеть
func (d *YOLODetector) Detect(ctx context.Context, frame *entity.Frame, threshold float64) ([]entity.Detection, error) {
	_ = ctx
	if frame == nil || frame.Image == nil {
		return nil, fmt.Errorf("empty frame")
	}

	mat, err := gocv.ImageToMatRGB(frame.Image)
	if err != nil {
		return nil, fmt.Errorf("frame to mat: %w", err)
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(d.inputSize, d.inputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.mu.Lock()
	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	d.mu.Unlock()
	defer out.Close()

	return d.parse(out, frame.Image.Bounds(), float32(threshold))
}

// parse разбирает выход [1, 4+классы, N] в детекции и применяет NMS
func (d *YOLODetector) parse(out gocv.Mat, bounds image.Rectangle, threshold float32) ([]entity.Detection, error) {
	sizes := out.Size()
	if len(sizes) != 3 || sizes[1] < 5 {
		return nil, fmt.Errorf("unexpected output shape %v", sizes)
	}

	flat := out.Reshape(1, sizes[1])
	defer flat.Close()
	rows := gocv.NewMat()
	defer rows.Close()
	gocv.Transpose(flat, &rows)

	scaleX := float32(bounds.Dx()) / float32(d.inputSize)
	scaleY := float32(bounds.Dy()) / float32(d.inputSize)

	var (
		boxes   []image.Rectangle
		scores  []float32
		classes []int
	)
	for i := 0; i < rows.Rows(); i++ {
		classID, score := -1, float32(0)
		for j := 4; j < rows.Cols(); j++ {
			if s := rows.GetFloatAt(i, j); s > score {
				classID, score = j-4, s
			}
		}
		if score < threshold {
			continue
		}

		cx, cy := rows.GetFloatAt(i, 0)*scaleX, rows.GetFloatAt(i, 1)*scaleY
		w, h := rows.GetFloatAt(i, 2)*scaleX, rows.GetFloatAt(i, 3)*scaleY
		boxes = append(boxes, image.Rect(int(cx-w/2), int(cy-h/2), int(cx+w/2), int(cy+h/2)))
		scores = append(scores, score)
		classes = append(classes, classID)
	}
	if len(boxes) == 0 {
		return nil, nil
	}

	keep := gocv.NMSBoxes(boxes, scores, threshold, d.nmsThreshold)
	return buildDetections(keep, boxes, scores, classes, d.classes, bounds), nil
}

// Close освобождает сеть
func (d *YOLODetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}

var _ port.ObjectDetector = (*YOLODetector)(nil)
