package entity

// SystemState состояние системы контроля
type SystemState string

const (
	StateIdle    SystemState = "idle"    // камера закрыта, цикл не запущен
	StateRunning SystemState = "running" // идёт контроль
)

// SystemStatus ответ на управляющую команду
type SystemStatus struct {
	IsRunning bool             `json:"is_running"`
	Message   string           `json:"message,omitempty"`
	Stats     *ProductionStats `json:"stats,omitempty"` // только для get_status и reset_stats
}

// State возвращает состояние, соответствующее статусу
func (s SystemStatus) State() SystemState {
	if s.IsRunning {
		return StateRunning
	}
	return StateIdle
}
