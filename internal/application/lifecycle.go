package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"line-inspector/internal/domain/entity"
	"line-inspector/internal/domain/port"
)

// DefaultSettleDelay пауза между остановкой и повторным открытием камеры
const DefaultSettleDelay = 500 * time.Millisecond

const (
	msgOpenFailed    = "Failed to initialize camera"
	msgRestartFailed = "Failed to restart detection"
	msgStreamEnded   = "Capture stream ended"
	msgStatsReset    = "Statistics reset"
)

// ControllerConfig параметры управления камерой
type ControllerConfig struct {
	DeviceIndex int
	Capture     port.CaptureOptions
	SettleDelay time.Duration
}

// Controller запускает и останавливает цикл контроля.
// Все операции можно вызывать конкурентно: они выполняются по очереди,
// и в любой момент активен не более чем один цикл.
type Controller struct {
	cfg       ControllerConfig
	opener    port.CaptureOpener
	loop      *InspectionLoop
	stats     *StatsTracker
	publisher port.EventPublisher
	metrics   port.InspectionMetrics

	opMu sync.Mutex // упорядочивает start/stop/restart

	mu  sync.RWMutex
	run *activeRun
}

type activeRun struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}
}

// NewController создаёт контроллер в состоянии Idle
func NewController(
	cfg ControllerConfig,
	opener port.CaptureOpener,
	loop *InspectionLoop,
	stats *StatsTracker,
	publisher port.EventPublisher,
	metrics port.InspectionMetrics,
) *Controller {
	if cfg.SettleDelay < 0 {
		cfg.SettleDelay = 0
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if publisher == nil {
		publisher = port.Publishers(nil)
	}
	return &Controller{
		cfg:       cfg,
		opener:    opener,
		loop:      loop,
		stats:     stats,
		publisher: publisher,
		metrics:   metrics,
	}
}

// State текущее состояние системы
func (c *Controller) State() entity.SystemState {
	return c.Status().State()
}

// Status текущий статус без сообщения
func (c *Controller) Status() entity.SystemStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return entity.SystemStatus{IsRunning: c.run != nil}
}

// Start открывает камеру и запускает цикл. Если цикл уже идёт, ничего не делает.
func (c *Controller) Start() (entity.SystemStatus, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	return c.startLocked()
}

// Stop останавливает цикл и дожидается освобождения камеры.
// Текущий кадр дообрабатывается. Повторный вызов ничего не делает.
func (c *Controller) Stop() entity.SystemStatus {
	c.opMu.Lock()
	defer c.opMu.Unlock()
	c.stopLocked()
	return entity.SystemStatus{IsRunning: false}
}

// Restart останавливает цикл, ждёт освобождения устройства и запускает снова.
// Статистика не сбрасывается.
func (c *Controller) Restart(ctx context.Context) (entity.SystemStatus, error) {
	c.opMu.Lock()
	defer c.opMu.Unlock()

	c.stopLocked()

	if c.cfg.SettleDelay > 0 {
		select {
		case <-ctx.Done():
			return entity.SystemStatus{IsRunning: false, Message: msgRestartFailed}, ctx.Err()
		case <-time.After(c.cfg.SettleDelay):
		}
	}

	status, err := c.startLocked()
	if err != nil {
		status.Message = msgRestartFailed
	}
	return status, err
}

// ResetStats обнуляет счётчики изделий
func (c *Controller) ResetStats() entity.SystemStatus {
	stats := c.stats.Reset()
	status := c.Status()
	status.Message = msgStatsReset
	status.Stats = &stats
	return status
}

// Execute выполняет команду оператора и рассылает system_status всем подписчикам.
// get_status только возвращает статус: ответ получает лишь спросивший.
// Перезапуск доводится до конца, даже если ctx вызывающего отменён.
func (c *Controller) Execute(ctx context.Context, cmd entity.Command) (entity.SystemStatus, error) {
	var (
		status entity.SystemStatus
		err    error
	)
	switch cmd {
	case entity.CommandStart:
		status, err = c.Start()
	case entity.CommandStop:
		status = c.Stop()
	case entity.CommandRestart:
		status, err = c.Restart(context.WithoutCancel(ctx))
	case entity.CommandGetStatus:
		status = c.Status()
		stats := c.stats.Snapshot()
		status.Stats = &stats
		return status, nil
	case entity.CommandResetStats:
		status = c.ResetStats()
	default:
		return c.Status(), fmt.Errorf("%w: %q", entity.ErrUnknownCommand, cmd)
	}

	c.publisher.Publish(entity.Event{Name: entity.EventSystemStatus, Data: status})
	return status, err
}

func (c *Controller) startLocked() (entity.SystemStatus, error) {
	if c.Status().IsRunning {
		return entity.SystemStatus{IsRunning: true}, nil
	}

	src, err := c.opener.Open(c.cfg.DeviceIndex, c.cfg.Capture)
	if err != nil {
		log.Error().Err(err).Int("device", c.cfg.DeviceIndex).Msg("capture device open failed")
		return entity.SystemStatus{IsRunning: false, Message: msgOpenFailed}, fmt.Errorf("open capture device %d: %w", c.cfg.DeviceIndex, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &activeRun{
		id:     uuid.NewString(),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	c.mu.Lock()
	c.run = r
	c.mu.Unlock()

	c.stats.ResetFPS()
	c.metrics.SetRunning(true)
	log.Info().Str("run_id", r.id).Int("device", c.cfg.DeviceIndex).Msg("inspection started")

	go c.work(ctx, r, src)

	return entity.SystemStatus{IsRunning: true}, nil
}

func (c *Controller) stopLocked() {
	c.mu.Lock()
	r := c.run
	c.run = nil
	c.mu.Unlock()

	if r == nil {
		return
	}

	r.cancel()
	<-r.done
	c.metrics.SetRunning(false)
	log.Info().Str("run_id", r.id).Msg("inspection stopped")
}

// work владеет источником кадров до выхода из цикла и сам его закрывает,
// поэтому после Close чтений уже не бывает.
func (c *Controller) work(ctx context.Context, r *activeRun, src port.CaptureSource) {
	defer close(r.done)

	err := c.loop.Run(ctx, src)
	if cerr := src.Close(); cerr != nil {
		log.Warn().Err(cerr).Str("run_id", r.id).Msg("capture close failed")
	}

	c.mu.Lock()
	ended := c.run == r
	if ended {
		c.run = nil
	}
	c.mu.Unlock()

	if !ended {
		return
	}

	// цикл завершился сам: камера перестала отдавать кадры
	log.Warn().Err(err).Str("run_id", r.id).Msg("inspection loop ended")
	c.metrics.SetRunning(false)
	c.publisher.Publish(entity.Event{
		Name: entity.EventSystemStatus,
		Data: entity.SystemStatus{IsRunning: false, Message: msgStreamEnded},
	})
}
