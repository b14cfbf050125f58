package app

import (
	"sync"
	"time"

	"line-inspector/internal/domain/entity"
)

// DefaultDebounce минимальный интервал между двумя засчитанными изделиями
const DefaultDebounce = 3 * time.Second

// StatsTracker превращает поток покадровых решений в отдельные изделия и считает FPS.
// Одна деталь видна на многих кадрах подряд, поэтому в пределах окна debounce
// засчитывается только первое решение.
type StatsTracker struct {
	mu        sync.Mutex
	debounce  time.Duration
	stats     entity.ProductionStats
	lastEvent time.Time
	hasEvent  bool

	fps        int
	fpsCounter int
	fpsStart   time.Time
}

// NewStatsTracker создаёт трекер; debounce <= 0 означает значение по умолчанию
func NewStatsTracker(debounce time.Duration) *StatsTracker {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &StatsTracker{debounce: debounce}
}

// Update фиксирует изделие, если с прошлого события прошло больше окна debounce.
// Возвращает снимок счётчиков и признак того, что изделие было засчитано.
func (t *StatsTracker) Update(defectPresent bool, now time.Time) (entity.ProductionStats, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.hasEvent && now.Sub(t.lastEvent) <= t.debounce {
		return t.stats, false
	}

	t.stats.Total++
	if defectPresent {
		t.stats.NG++
	} else {
		t.stats.Pass++
	}
	t.lastEvent = now
	t.hasEvent = true

	return t.stats, true
}

// TickFPS учитывает кадр и раз в секунду переносит счётчик в отображаемый FPS.
// Значение отражает предыдущую полную секунду.
func (t *StatsTracker) TickFPS(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.fpsStart.IsZero() {
		t.fpsStart = now
	}
	t.fpsCounter++
	if now.Sub(t.fpsStart) >= time.Second {
		t.fps = t.fpsCounter
		t.fpsCounter = 0
		t.fpsStart = now
	}
	return t.fps
}

// Snapshot возвращает текущие счётчики
func (t *StatsTracker) Snapshot() entity.ProductionStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stats
}

// FPS возвращает последнее измеренное значение
func (t *StatsTracker) FPS() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fps
}

// Reset обнуляет счётчики и окно debounce
func (t *StatsTracker) Reset() entity.ProductionStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stats = entity.ProductionStats{}
	t.hasEvent = false
	t.lastEvent = time.Time{}
	return t.stats
}

// ResetFPS сбрасывает окно FPS перед новым запуском
func (t *StatsTracker) ResetFPS() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fps = 0
	t.fpsCounter = 0
	t.fpsStart = time.Time{}
}
