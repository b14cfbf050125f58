package port

import (
	"context"

	"line-inspector/internal/domain/entity"
)

// SubscriberRepository интерфейс хранилища подписчиков на уведомления
type SubscriberRepository interface {
	// Add подписывает чат; повторная подписка ничего не меняет
	Add(ctx context.Context, sub *entity.Subscriber) error

	// Remove отписывает чат
	Remove(ctx context.Context, chatID int64) error

	// List возвращает всех подписчиков
	List(ctx context.Context) ([]*entity.Subscriber, error)
}

// Notifier доставляет текстовое уведомление в чат
type Notifier interface {
	Notify(ctx context.Context, chatID int64, text string) error
}
