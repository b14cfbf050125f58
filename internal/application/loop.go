package app

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"line-inspector/internal/domain/entity"
	"line-inspector/internal/domain/port"
)

const (
	DefaultConfidence = 0.5
	DefaultTargetFPS  = 30
	DefaultDefect     = "sg"
)

var (
	colorAlert = color.RGBA{R: 255, A: 255}
	colorOK    = color.RGBA{G: 255, A: 255}
)

// LoopConfig параметры цикла контроля
type LoopConfig struct {
	DefectLabel string  // класс, означающий брак
	Confidence  float64 // порог уверенности модели
	TargetFPS   int     // целевая частота итераций
}

func (c LoopConfig) withDefaults() LoopConfig {
	if c.DefectLabel == "" {
		c.DefectLabel = DefaultDefect
	}
	if c.Confidence <= 0 {
		c.Confidence = DefaultConfidence
	}
	if c.TargetFPS <= 0 {
		c.TargetFPS = DefaultTargetFPS
	}
	return c
}

// InspectionLoop покадровый цикл: захват, детекция, разметка, статистика, рассылка
type InspectionLoop struct {
	cfg       LoopConfig
	detector  port.ObjectDetector
	annotator port.FrameAnnotator
	encoder   port.FrameEncoder
	stats     *StatsTracker
	publisher port.EventPublisher
	metrics   port.InspectionMetrics
	now       func() time.Time

	mu     sync.RWMutex
	latest []byte
	last   entity.LastResult
}

// NewInspectionLoop создаёт цикл; metrics может быть nil
func NewInspectionLoop(
	cfg LoopConfig,
	detector port.ObjectDetector,
	annotator port.FrameAnnotator,
	encoder port.FrameEncoder,
	stats *StatsTracker,
	publisher port.EventPublisher,
	metrics port.InspectionMetrics,
) *InspectionLoop {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if publisher == nil {
		publisher = port.Publishers(nil)
	}
	return &InspectionLoop{
		cfg:       cfg.withDefaults(),
		detector:  detector,
		annotator: annotator,
		encoder:   encoder,
		stats:     stats,
		publisher: publisher,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Run крутит цикл, пока не отменён ctx или источник не перестал отдавать кадры.
// Отмена проверяется на границе итерации: текущий кадр всегда обрабатывается до конца.
// Возвращает nil при отмене и ошибку чтения при обрыве потока.
func (l *InspectionLoop) Run(ctx context.Context, src port.CaptureSource) error {
	interval := time.Second / time.Duration(l.cfg.TargetFPS)
	for {
		if ctx.Err() != nil {
			return nil
		}

		started := time.Now()
		frame, err := src.Read()
		if err != nil {
			l.metrics.ReadFault()
			if errors.Is(err, port.ErrEndOfStream) {
				return err
			}
			return fmt.Errorf("%w: %v", port.ErrEndOfStream, err)
		}

		l.Process(ctx, frame)
		elapsed := time.Since(started)
		l.metrics.FrameProcessed(elapsed)

		// досыпаем только остаток интервала
		wait := interval - elapsed
		if wait <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(wait):
		}
	}
}

// Process обрабатывает один кадр
func (l *InspectionLoop) Process(ctx context.Context, frame *entity.Frame) entity.FrameResult {
	outcome := l.infer(ctx, frame)
	if outcome.Faulted() {
		log.Warn().Err(outcome.Err).Uint64("seq", frame.Seq).Msg("detection failed, frame passed through unannotated")
		l.metrics.InferenceFault()
		l.pushFrame(frame.Image)
		return entity.FrameResult{Annotated: frame.Image}
	}

	defect := entity.HasLabel(outcome.Detections, l.cfg.DefectLabel)
	status := entity.StatusOf(defect)

	now := l.now()
	stats, committed := l.stats.Update(defect, now)
	fps := l.stats.TickFPS(now)
	l.metrics.SetFPS(fps)

	annotated := l.annotator.Annotate(frame.Image, outcome.Detections, l.banner(defect, fps))

	result := entity.NewDetectionResult(status, stats)
	l.publisher.Publish(entity.Event{Name: entity.EventDetectionResult, Data: result})
	if committed {
		l.metrics.ItemInspected(status)
		l.publisher.Publish(entity.Event{Name: entity.EventItemInspected, Data: result})
		log.Info().Str("status", string(status)).Uint64("total", stats.Total).Uint64("ng", stats.NG).Msg("item inspected")
	}
	l.pushFrame(annotated)

	l.mu.Lock()
	l.last = entity.LastResult{
		Status:        status,
		DefectPresent: defect,
		Detections:    outcome.Detections,
		FPS:           fps,
		At:            now,
	}
	l.mu.Unlock()

	return entity.FrameResult{DefectPresent: defect, Detections: outcome.Detections, Annotated: annotated}
}

// LatestFrame последний закодированный кадр
func (l *InspectionLoop) LatestFrame() ([]byte, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.latest, len(l.latest) > 0
}

// LastResult итог последнего успешно обработанного кадра
func (l *InspectionLoop) LastResult() entity.LastResult {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.last
}

// infer вызывает модель и превращает ошибку или панику в сбой кадра.
// Модель получает контекст без отмены: начатый кадр доводится до конца.
func (l *InspectionLoop) infer(ctx context.Context, frame *entity.Frame) (outcome entity.InferenceOutcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = entity.InferenceOutcome{Err: fmt.Errorf("detector panic: %v", r)}
		}
	}()

	if l.detector == nil {
		return entity.InferenceOutcome{Err: port.ErrDetectorUnavailable}
	}
	dets, err := l.detector.Detect(context.WithoutCancel(ctx), frame, l.cfg.Confidence)
	if err != nil {
		return entity.InferenceOutcome{Err: err}
	}
	return entity.InferenceOutcome{Detections: dets}
}

func (l *InspectionLoop) pushFrame(img image.Image) {
	data, err := l.encoder.Encode(img)
	if err != nil {
		log.Warn().Err(err).Msg("frame encode failed, skipping push")
		l.metrics.EncodeFault()
		return
	}

	l.mu.Lock()
	l.latest = data
	l.mu.Unlock()

	l.publisher.Publish(entity.Event{
		Name: entity.EventVideoFrame,
		Data: entity.VideoFrame{Frame: base64.StdEncoding.EncodeToString(data)},
	})
}

func (l *InspectionLoop) banner(defect bool, fps int) port.Banner {
	if defect {
		return port.Banner{
			Text:  fmt.Sprintf("FPS: %d | Status: NG - %s DETECTED", fps, strings.ToUpper(l.cfg.DefectLabel)),
			Color: colorAlert,
		}
	}
	return port.Banner{
		Text:  fmt.Sprintf("FPS: %d | Status: PASS - NO DEFECTS", fps),
		Color: colorOK,
	}
}
