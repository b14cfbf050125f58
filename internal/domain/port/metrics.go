package port

import (
	"time"

	"line-inspector/internal/domain/entity"
)

// InspectionMetrics счётчики работы цикла контроля
type InspectionMetrics interface {
	FrameProcessed(latency time.Duration)
	InferenceFault()
	EncodeFault()
	ReadFault()
	ItemInspected(status entity.InspectionStatus)
	SetFPS(fps int)
	SetRunning(running bool)
}
