package app

import (
	"time"

	"line-inspector/internal/domain/entity"
)

type nopMetrics struct{}

func (nopMetrics) FrameProcessed(time.Duration) {}
func (nopMetrics) InferenceFault() {}
func (nopMetrics) EncodeFault() {}
func (nopMetrics) ReadFault() {}
func (nopMetrics) ItemInspected(entity.InspectionStatus) {}
func (nopMetrics) SetFPS(int) {}
func (nopMetrics) SetRunning(bool) {}
