package persistent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"postboard/internal/entity"

	"github.com/redis/go-redis/v9"
)

const (
	notificationKeyPrefix = "notifications:"
	maxNotifications      = 100
	notificationTTL       = 30 * 24 * time.Hour
)

type NotificationRepository interface {
	Push(ctx context.Context, userID string, notification *entity.Notification) error
	List(ctx context.Context, userID string, limit int) ([]entity.Notification, error)
}

// notificationRepository keeps each user's newest notifications in a capped
// Redis list.
type notificationRepository struct {
	client *redis.Client
}

func NewNotificationRepository(client *redis.Client) NotificationRepository {
	return &notificationRepository{client: client}
}

func (r *notificationRepository) Push(ctx context.Context, userID string, notification *entity.Notification) error {
	data, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	key := notificationKeyPrefix + userID
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, maxNotifications-1)
	pipe.Expire(ctx, key, notificationTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to push notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) List(ctx context.Context, userID string, limit int) ([]entity.Notification, error) {
	if limit <= 0 || limit > maxNotifications {
		limit = maxNotifications
	}

	raw, err := r.client.LRange(ctx, notificationKeyPrefix+userID, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	notifications := make([]entity.Notification, 0, len(raw))
	for _, item := range raw {
		var n entity.Notification
		if err := json.Unmarshal([]byte(item), &n); err != nil {
			continue
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}
