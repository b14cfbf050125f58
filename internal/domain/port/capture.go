package port

import (
	"errors"

	"line-inspector/internal/domain/entity"
)

var (
	// ErrDeviceOpen устройство захвата не удалось открыть
	ErrDeviceOpen = errors.New("capture device open failed")
	// ErrEndOfStream источник больше не отдаёт кадры
	ErrEndOfStream = errors.New("capture end of stream")
	// ErrCaptureClosed чтение из закрытого источника
	ErrCaptureClosed = errors.New("capture source closed")
)

// CaptureOptions параметры, применяемые при открытии камеры (по возможности)
type CaptureOptions struct {
	Width  int
	Height int
	FPS    int
}

// CaptureOpener открывает источник кадров
type CaptureOpener interface {
	// Open открывает устройство с указанным индексом
	Open(deviceIndex int, opts CaptureOptions) (CaptureSource, error)
}

// CaptureSource открытый источник кадров
type CaptureSource interface {
	// Read блокируется до следующего кадра; ошибка означает конец потока
	Read() (*entity.Frame, error)

	// Close освобождает устройство; повторный вызов безопасен
	Close() error
}

// CaptureProperties описывает фактические параметры открытого источника
type CaptureProperties interface {
	Properties() map[string]float64
}
