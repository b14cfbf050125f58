//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"line-inspector/internal/domain/port"
)

func TestStubsReportMissingOpenCV(t *testing.T) {
	_, err := NewCameraOpener().Open(0, port.CaptureOptions{Width: 1280, Height: 720, FPS: 30})
	require.ErrorIs(t, err, port.ErrDeviceOpen)

	_, err = NewYOLODetector("model.onnx", nil, 640, 0.45)
	require.ErrorIs(t, err, port.ErrDetectorUnavailable)

	_, err = (&YOLODetector{}).Detect(context.Background(), nil, 0.5)
	require.ErrorIs(t, err, port.ErrDetectorUnavailable)
}
