package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"line-inspector/internal/domain/entity"
)

func TestMemorySubscriberRepository_AddListRemove(t *testing.T) {
	repo := NewMemorySubscriberRepository()
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, entity.NewSubscriber(20, "b")))
	require.NoError(t, repo.Add(ctx, entity.NewSubscriber(10, "a")))
	// повторная подписка не перезаписывает первую
	require.NoError(t, repo.Add(ctx, entity.NewSubscriber(10, "other")))

	subs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 2)
	require.Equal(t, int64(10), subs[0].ChatID)
	require.Equal(t, "a", subs[0].UserName)

	require.NoError(t, repo.Remove(ctx, 10))
	require.NoError(t, repo.Remove(ctx, 99))

	subs, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	require.Equal(t, int64(20), subs[0].ChatID)
}
