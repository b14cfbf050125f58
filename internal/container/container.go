package container

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"line-inspector/config"
	"line-inspector/internal/api/telegram"
	"line-inspector/internal/api/web"
	app "line-inspector/internal/application"
	"line-inspector/internal/domain/port"
	"line-inspector/internal/infrastructure/metrics"
	"line-inspector/internal/infrastructure/overlay"
	"line-inspector/internal/infrastructure/storage"
	"line-inspector/internal/infrastructure/vision"
)

const shutdownTimeout = 5 * time.Second

type Container struct {
	Config     *config.Config
	Metrics    *metrics.Metrics
	Stats      *app.StatsTracker
	Loop       *app.InspectionLoop
	Controller *app.Controller
	Alerts     *app.AlertService
	Hub        *web.Hub
	Server     *web.Server
	Bot        *telegram.Bot // nil без TELEGRAM_TOKEN

	detector *vision.YOLODetector
}

// New собирает сервисы приложения по конфигурации.
// Если модель не загрузилась, контроль всё равно запускается: кадры идут без разметки.
func New(cfg *config.Config) (*Container, error) {
	m := metrics.New()

	var (
		detector port.ObjectDetector
		yolo     *vision.YOLODetector
	)
	yolo, err := vision.NewYOLODetector(cfg.ModelPath, cfg.ModelClasses, cfg.ModelInputSize, cfg.NMSThreshold)
	if err != nil {
		log.Warn().Err(err).Str("model", cfg.ModelPath).Msg("detector unavailable, frames will not be annotated")
		yolo = nil
	} else {
		detector = yolo
	}

	stats := app.NewStatsTracker(cfg.Debounce)
	alerts := app.NewAlertService(storage.NewMemorySubscriberRepository())
	hub := web.NewHub(nil, m)
	publishers := port.Publishers{hub, alerts}

	loop := app.NewInspectionLoop(
		app.LoopConfig{
			DefectLabel: cfg.DefectLabel,
			Confidence:  cfg.ConfidenceThreshold,
			TargetFPS:   cfg.TargetFPS,
		},
		detector,
		overlay.NewAnnotator(cfg.DefectLabel),
		overlay.NewJPEGEncoder(cfg.JPEGQuality, 0),
		stats,
		publishers,
		m,
	)

	ctrl := app.NewController(
		app.ControllerConfig{
			DeviceIndex: cfg.CameraIndex,
			Capture:     cfgCapture(cfg),
			SettleDelay: cfg.RestartSettle,
		},
		NewOpener(cfg),
		loop,
		stats,
		publishers,
		m,
	)
	hub.SetExecutor(ctrl)

	c := &Container{
		Config:     cfg,
		Metrics:    m,
		Stats:      stats,
		Loop:       loop,
		Controller: ctrl,
		Alerts:     alerts,
		Hub:        hub,
		Server:     web.NewServer(cfg.HTTPAddr, hub, ctrl, loop, stats, m.Handler()),
		detector:   yolo,
	}

	if cfg.TelegramToken != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, ctrl, alerts, loop)
		if err != nil {
			return nil, fmt.Errorf("create bot: %w", err)
		}
		c.Bot = bot
	}

	return c, nil
}

// NewOpener источник кадров: каталог с изображениями или камера
func NewOpener(cfg *config.Config) port.CaptureOpener {
	if cfg.CameraDir != "" {
		return vision.NewDirOpener(cfg.CameraDir, true)
	}
	return vision.NewCameraOpener()
}

func cfgCapture(cfg *config.Config) port.CaptureOptions {
	return port.CaptureOptions{
		Width:  cfg.FrameWidth,
		Height: cfg.FrameHeight,
		FPS:    cfg.CameraFPS,
	}
}

// Run обслуживает HTTP и бота до отмены ctx, затем останавливает контроль
func (c *Container) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := c.Server.ListenAndServe(); err != nil {
			errs <- fmt.Errorf("http server: %w", err)
			cancel()
		}
	}()

	if c.Bot != nil {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Alerts.Run(ctx, c.Bot)
		}()
		go func() {
			defer wg.Done()
			if err := c.Bot.Run(ctx); err != nil {
				errs <- fmt.Errorf("telegram bot: %w", err)
				cancel()
			}
		}()
	}

	<-ctx.Done()
	log.Info().Msg("shutting down")

	c.Controller.Stop()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := c.Server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}

	wg.Wait()
	close(errs)

	var result []error
	for err := range errs {
		result = append(result, err)
	}
	if c.detector != nil {
		if err := c.detector.Close(); err != nil {
			result = append(result, fmt.Errorf("close detector: %w", err))
		}
	}
	return errors.Join(result...)
}
