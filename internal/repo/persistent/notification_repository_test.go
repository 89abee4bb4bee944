package persistent

import (
	"context"
	"fmt"
	"testing"
	"time"

	"postboard/internal/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotifications(t *testing.T) (NotificationRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewNotificationRepository(client), mr
}

func TestNotificationRepository_NewestFirst(t *testing.T) {
	repo, mr := newTestNotifications(t)
	ctx := context.Background()

	require.NoError(t, repo.Push(ctx, "u1", &entity.Notification{Type: "like", Message: "first", CreatedAt: time.Now()}))
	require.NoError(t, repo.Push(ctx, "u1", &entity.Notification{Type: "comment", Message: "second", CreatedAt: time.Now()}))
	require.NoError(t, repo.Push(ctx, "u2", &entity.Notification{Type: "like", Message: "other user"}))

	list, err := repo.List(ctx, "u1", 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Message)
	assert.Equal(t, "first", list[1].Message)

	assert.True(t, mr.TTL(notificationKeyPrefix+"u1") > 0)
}

func TestNotificationRepository_Capped(t *testing.T) {
	repo, _ := newTestNotifications(t)
	ctx := context.Background()

	for i := 0; i < maxNotifications+5; i++ {
		require.NoError(t, repo.Push(ctx, "u1", &entity.Notification{Message: fmt.Sprintf("n%d", i)}))
	}

	list, err := repo.List(ctx, "u1", 0)
	require.NoError(t, err)
	assert.Len(t, list, maxNotifications)
	assert.Equal(t, fmt.Sprintf("n%d", maxNotifications+4), list[0].Message)

	list, err = repo.List(ctx, "u1", 3)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}

func TestNotificationRepository_Empty(t *testing.T) {
	repo, _ := newTestNotifications(t)

	list, err := repo.List(context.Background(), "nobody", 10)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}
