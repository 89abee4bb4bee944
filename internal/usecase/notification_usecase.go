package usecase

import (
	"context"
	"fmt"
	"time"

	"postboard/internal/entity"
	"postboard/internal/repo/persistent"
	"postboard/pkg/logger"
	"postboard/pkg/queue"
)

const notificationPageSize = 50

type NotificationUseCase interface {
	Handle(ctx context.Context, activity queue.Activity) error
	List(ctx context.Context, userID string) ([]entity.Notification, error)
}

type notificationUseCase struct {
	notificationRepo persistent.NotificationRepository
	userRepo         persistent.UserRepository
	logger           *logger.Logger
}

// NewNotificationUseCase builds the activity consumer side. With a nil
// notificationRepo nothing is stored and List is always empty.
func NewNotificationUseCase(
	notificationRepo persistent.NotificationRepository,
	userRepo persistent.UserRepository,
	logger *logger.Logger,
) NotificationUseCase {
	return &notificationUseCase{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		logger:           logger,
	}
}

func (uc *notificationUseCase) Handle(ctx context.Context, activity queue.Activity) error {
	if activity.RecipientID == "" || activity.ActorID == "" || activity.PostID == "" {
		return fmt.Errorf("invalid %s activity: missing user_id, actor_id or post_id", activity.Type)
	}
	if uc.notificationRepo == nil {
		return nil
	}

	actorName := "Someone"
	if actor, err := uc.userRepo.GetByID(ctx, activity.ActorID); err == nil {
		actorName = actor.Username
	}

	notification := &entity.Notification{
		Type:      string(activity.Type),
		ActorID:   activity.ActorID,
		PostID:    activity.PostID,
		CommentID: activity.CommentID,
		CreatedAt: time.Now().UTC(),
	}
	switch activity.Type {
	case queue.ActivityLike:
		notification.Title = "New like"
		notification.Message = fmt.Sprintf("%s liked your post", actorName)
	case queue.ActivityComment:
		notification.Title = "New comment"
		notification.Message = fmt.Sprintf("%s commented on your post", actorName)
	default:
		return fmt.Errorf("unknown activity type: %s", activity.Type)
	}

	if err := uc.notificationRepo.Push(ctx, activity.RecipientID, notification); err != nil {
		return err
	}

	uc.logger.Info("[NOTIFICATION] %s activity for user=%s post=%s", activity.Type, activity.RecipientID, activity.PostID)
	return nil
}

func (uc *notificationUseCase) List(ctx context.Context, userID string) ([]entity.Notification, error) {
	if uc.notificationRepo == nil {
		return []entity.Notification{}, nil
	}
	return uc.notificationRepo.List(ctx, userID, notificationPageSize)
}
