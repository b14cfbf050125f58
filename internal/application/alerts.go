package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"line-inspector/internal/domain/entity"
	"line-inspector/internal/domain/port"
)

const alertQueueSize = 16

// AlertService рассылает подписанным чатам уведомления о каждой забракованной детали
type AlertService struct {
	repo  port.SubscriberRepository
	queue chan entity.DetectionResult
}

// NewAlertService создаёт сервис уведомлений
func NewAlertService(repo port.SubscriberRepository) *AlertService {
	return &AlertService{
		repo:  repo,
		queue: make(chan entity.DetectionResult, alertQueueSize),
	}
}

// Subscribe подписывает чат на уведомления
func (s *AlertService) Subscribe(ctx context.Context, chatID int64, userName string) error {
	return s.repo.Add(ctx, entity.NewSubscriber(chatID, userName))
}

// Unsubscribe отписывает чат
func (s *AlertService) Unsubscribe(ctx context.Context, chatID int64) error {
	return s.repo.Remove(ctx, chatID)
}

// Publish принимает события цикла; не блокируется, при переполнении очереди уведомление теряется
func (s *AlertService) Publish(event entity.Event) {
	if event.Name != entity.EventItemInspected {
		return
	}
	res, ok := event.Data.(entity.DetectionResult)
	if !ok || res.Status != entity.StatusNG {
		return
	}

	select {
	case s.queue <- res:
	default:
		log.Warn().Uint64("total", res.TotalCount).Msg("alert queue full, NG alert dropped")
	}
}

// Run доставляет уведомления до отмены ctx
func (s *AlertService) Run(ctx context.Context, notifier port.Notifier) {
	for {
		select {
		case <-ctx.Done():
			return
		case res := <-s.queue:
			s.dispatch(ctx, notifier, res)
		}
	}
}

func (s *AlertService) dispatch(ctx context.Context, notifier port.Notifier, res entity.DetectionResult) {
	subs, err := s.repo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("list subscribers")
		return
	}

	text := FormatAlert(res)
	for _, sub := range subs {
		if err := notifier.Notify(ctx, sub.ChatID, text); err != nil {
			log.Warn().Err(err).Int64("chat_id", sub.ChatID).Msg("NG alert delivery failed")
		}
	}
}

// FormatAlert текст уведомления о браке
func FormatAlert(res entity.DetectionResult) string {
	return fmt.Sprintf("🚨 Брак (NG) на линии\nВсего: %d | Годных: %d | NG: %d | Доля брака: %.1f%%",
		res.TotalCount, res.PassCount, res.NGCount, res.NGRate)
}
