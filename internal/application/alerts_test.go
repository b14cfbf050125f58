package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"line-inspector/internal/domain/entity"
	"line-inspector/internal/infrastructure/storage"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent map[int64][]string
}

func (n *recordingNotifier) Notify(_ context.Context, chatID int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sent == nil {
		n.sent = make(map[int64][]string)
	}
	n.sent[chatID] = append(n.sent[chatID], text)
	return nil
}

func (n *recordingNotifier) count(chatID int64) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent[chatID])
}

func TestAlertService_NotifiesSubscribersOnNG(t *testing.T) {
	svc := NewAlertService(storage.NewMemorySubscriberRepository())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, svc.Subscribe(ctx, 1, "a"))
	require.NoError(t, svc.Subscribe(ctx, 2, "b"))
	require.NoError(t, svc.Unsubscribe(ctx, 2))

	n := &recordingNotifier{}
	go svc.Run(ctx, n)

	ng := entity.NewDetectionResult(entity.StatusNG, entity.ProductionStats{Total: 4, Pass: 3, NG: 1})
	pass := entity.NewDetectionResult(entity.StatusPass, entity.ProductionStats{Total: 4, Pass: 3, NG: 1})

	svc.Publish(entity.Event{Name: entity.EventItemInspected, Data: pass})
	svc.Publish(entity.Event{Name: entity.EventDetectionResult, Data: ng})
	svc.Publish(entity.Event{Name: entity.EventItemInspected, Data: ng})

	require.Eventually(t, func() bool { return n.count(1) == 1 }, time.Second, 5*time.Millisecond)
	require.Zero(t, n.count(2))
	n.mu.Lock()
	msg := n.sent[1][0]
	n.mu.Unlock()
	require.Contains(t, msg, "25.0%")
}

func TestAlertService_PublishNeverBlocks(t *testing.T) {
	svc := NewAlertService(storage.NewMemorySubscriberRepository())
	ng := entity.NewDetectionResult(entity.StatusNG, entity.ProductionStats{Total: 1, NG: 1})

	done := make(chan struct{})
	go func() {
		for i := 0; i < alertQueueSize*3; i++ {
			svc.Publish(entity.Event{Name: entity.EventItemInspected, Data: ng})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked without a consumer")
	}
}
