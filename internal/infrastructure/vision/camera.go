//go:build gocv
// +build gocv

package vision

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"line-inspector/internal/domain/entity"
	"line-inspector/internal/domain/port"
)

// CameraOpener открывает камеры через OpenCV VideoCapture
type CameraOpener struct{}

// NewCameraOpener создаёт открыватель камер
func NewCameraOpener() *CameraOpener {
	return &CameraOpener{}
}

// Open открывает камеру и по возможности применяет разрешение и частоту кадров.
// Неудачная установка параметров не считается ошибкой.
func (o *CameraOpener) Open(deviceIndex int, opts port.CaptureOptions) (port.CaptureSource, error) {
	capture, err := gocv.OpenVideoCapture(deviceIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: device %d: %v", port.ErrDeviceOpen, deviceIndex, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("%w: device %d is not opened", port.ErrDeviceOpen, deviceIndex)
	}

	applyProp(capture, deviceIndex, "width", gocv.VideoCaptureFrameWidth, opts.Width)
	applyProp(capture, deviceIndex, "height", gocv.VideoCaptureFrameHeight, opts.Height)
	applyProp(capture, deviceIndex, "fps", gocv.VideoCaptureFPS, opts.FPS)

	return &Camera{
		capture: capture,
		mat:     gocv.NewMat(),
		device:  deviceIndex,
	}, nil
}

func applyProp(capture *gocv.VideoCapture, device int, name string, prop gocv.VideoCaptureProperties, want int) {
	if want <= 0 {
		return
	}
	capture.Set(prop, float64(want))
	if got := capture.Get(prop); int(got) != want {
		log.Warn().Int("device", device).Str("property", name).Int("want", want).Float64("got", got).Msg("camera property not applied")
	}
}

// Camera открытая камера
type Camera struct {
	mu      sync.Mutex
	capture *gocv.VideoCapture
	mat     gocv.Mat
	device  int
	seq     uint64
	closed  bool
}

// Read читает следующий кадр; пустой кадр означает конец потока
func (c *Camera) Read() (*entity.Frame, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, port.ErrCaptureClosed
	}
	if ok := c.capture.Read(&c.mat); !ok || c.mat.Empty() {
		return nil, fmt.Errorf("%w: device %d returned no frame", port.ErrEndOfStream, c.device)
	}

	img, err := c.mat.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert frame: %w", err)
	}

	c.seq++
	return &entity.Frame{
		Image:      toRGBA(img),
		Seq:        c.seq,
		CapturedAt: time.Now(),
	}, nil
}

// Close освобождает камеру; ждёт завершения текущего чтения
func (c *Camera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.mat.Close()
	return c.capture.Close()
}

// Properties фактические параметры камеры
func (c *Camera) Properties() map[string]float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	return map[string]float64{
		"width":  c.capture.Get(gocv.VideoCaptureFrameWidth),
		"height": c.capture.Get(gocv.VideoCaptureFrameHeight),
		"fps":    c.capture.Get(gocv.VideoCaptureFPS),
	}
}

var (
	_ port.CaptureOpener     = (*CameraOpener)(nil)
	_ port.CaptureProperties = (*Camera)(nil)
)
