package entity

import (
	"image"
	"time"
)

// InspectionStatus итог проверки кадра
type InspectionStatus string

const (
	StatusPass InspectionStatus = "PASS" // дефект не найден
	StatusNG   InspectionStatus = "NG"   // найден дефект
)

// StatusOf переводит флаг дефекта в статус
func StatusOf(defectPresent bool) InspectionStatus {
	if defectPresent {
		return StatusNG
	}
	return StatusPass
}

// Frame кадр с камеры
type Frame struct {
	Image      *image.RGBA
	Seq        uint64    // порядковый номер кадра в рамках запуска
	CapturedAt time.Time // момент захвата
}

// FrameResult итог обработки одного кадра; живёт одну итерацию цикла
type FrameResult struct {
	DefectPresent bool
	Detections    []Detection
	Annotated     *image.RGBA
}

// InferenceOutcome результат вызова модели: либо детекции, либо сбой
type InferenceOutcome struct {
	Detections []Detection
	Err        error
}

// Faulted сообщает, что модель не смогла обработать кадр
func (o InferenceOutcome) Faulted() bool {
	return o.Err != nil
}

// LastResult последний обработанный кадр для запросов статуса
type LastResult struct {
	Status        InspectionStatus `json:"status"`
	DefectPresent bool             `json:"defect_present"`
	Detections    []Detection      `json:"detections"`
	FPS           int              `json:"fps"`
	At            time.Time        `json:"at"`
}
