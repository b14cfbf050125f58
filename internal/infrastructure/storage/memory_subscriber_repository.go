package storage

import (
	"context"
	"sort"
	"sync"

	"line-inspector/internal/domain/entity"
	"line-inspector/internal/domain/port"
)

// MemorySubscriberRepository in-memory хранилище подписчиков.
// Подписки живут до перезапуска процесса.
type MemorySubscriberRepository struct {
	mu   sync.RWMutex
	subs map[int64]*entity.Subscriber
}

// NewMemorySubscriberRepository создаёт новое in-memory хранилище
func NewMemorySubscriberRepository() *MemorySubscriberRepository {
	return &MemorySubscriberRepository{
		subs: make(map[int64]*entity.Subscriber),
	}
}

// Add подписывает чат, существующая подписка сохраняется
func (r *MemorySubscriberRepository) Add(ctx context.Context, sub *entity.Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.subs[sub.ChatID]; !exists {
		r.subs[sub.ChatID] = sub
	}

	return nil
}

// Remove отписывает чат
func (r *MemorySubscriberRepository) Remove(ctx context.Context, chatID int64) error {
	r.mu.Lock()
	delete(r.subs, chatID)
	r.mu.Unlock()

	return nil
}

// List возвращает подписчиков в порядке Chat ID
func (r *MemorySubscriberRepository) List(ctx context.Context) ([]*entity.Subscriber, error) {
	r.mu.RLock()
	out := make([]*entity.Subscriber, 0, len(r.subs))
	for _, sub := range r.subs {
		out = append(out, sub)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ChatID < out[j].ChatID })
	return out, nil
}

// Проверка реализации интерфейса
var _ port.SubscriberRepository = (*MemorySubscriberRepository)(nil)
