package entity

// EventName имя события, отправляемого подписчикам
type EventName string

const (
	EventDetectionResult EventName = "detection_result"
	EventVideoFrame      EventName = "video_frame"
	EventSystemStatus    EventName = "system_status"
	// EventItemInspected отправляется только когда изделие засчитано в статистику
	EventItemInspected EventName = "item_inspected"
)

// Event событие для подписчиков
type Event struct {
	Name EventName `json:"event"`
	Data any       `json:"data"`
}

// DetectionResult полезная нагрузка detection_result и item_inspected
type DetectionResult struct {
	Status     InspectionStatus `json:"status"`
	PassCount  uint64           `json:"pass_count"`
	NGCount    uint64           `json:"ng_count"`
	TotalCount uint64           `json:"total_count"`
	NGRate     float64          `json:"ng_rate"`
}

// NewDetectionResult собирает нагрузку из статуса кадра и снимка счётчиков
func NewDetectionResult(status InspectionStatus, stats ProductionStats) DetectionResult {
	return DetectionResult{
		Status:     status,
		PassCount:  stats.Pass,
		NGCount:    stats.NG,
		TotalCount: stats.Total,
		NGRate:     stats.NGRate(),
	}
}

// VideoFrame полезная нагрузка video_frame: JPEG в base64
type VideoFrame struct {
	Frame string `json:"frame"`
}
