//go:build !gocv
// +build !gocv

package vision

import (
	"fmt"

	"line-inspector/internal/domain/port"
)

// CameraOpener заглушка без OpenCV
type CameraOpener struct{}

// NewCameraOpener создаёт заглушку (без OpenCV).
func NewCameraOpener() *CameraOpener {
	return &CameraOpener{}
}

// Open возвращает ошибку, если сборка без тега gocv.
func (o *CameraOpener) Open(deviceIndex int, opts port.CaptureOptions) (port.CaptureSource, error) {
	_ = opts
	return nil, fmt.Errorf("%w: device %d: gocv build tag is not enabled", port.ErrDeviceOpen, deviceIndex)
}
