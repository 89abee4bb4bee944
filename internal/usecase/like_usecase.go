package usecase

import (
	"context"

	"postboard/internal/entity"
	"postboard/internal/repo/persistent"
	"postboard/pkg/apperror"
	"postboard/pkg/logger"
	"postboard/pkg/queue"
)

type LikeUseCase interface {
	Toggle(ctx context.Context, postID, userID string) (*entity.LikeToggle, error)
	Count(ctx context.Context, postID string) (int64, error)
	IsLiked(ctx context.Context, postID, userID string) (bool, error)
}

type likeUseCase struct {
	likeRepo  persistent.LikeRepository
	postRepo  persistent.PostRepository
	publisher ActivityPublisher
	logger    *logger.Logger
}

func NewLikeUseCase(
	likeRepo persistent.LikeRepository,
	postRepo persistent.PostRepository,
	publisher ActivityPublisher,
	logger *logger.Logger,
) LikeUseCase {
	return &likeUseCase{
		likeRepo:  likeRepo,
		postRepo:  postRepo,
		publisher: publisher,
		logger:    logger,
	}
}

func (uc *likeUseCase) Toggle(ctx context.Context, postID, userID string) (*entity.LikeToggle, error) {
	post, err := uc.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	result, err := uc.likeRepo.Toggle(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if result.Liked && post.AuthorID != userID {
		publishActivity(ctx, uc.publisher, uc.logger, queue.Activity{
			Type:        queue.ActivityLike,
			RecipientID: post.AuthorID,
			ActorID:     userID,
			PostID:      postID,
			Priority:    3,
		})
	}

	return result, nil
}

func (uc *likeUseCase) Count(ctx context.Context, postID string) (int64, error) {
	exists, err := uc.postRepo.Exists(ctx, postID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, apperror.NotFound("post not found")
	}
	return uc.likeRepo.Count(ctx, postID)
}

// IsLiked reports false for anonymous viewers instead of failing.
func (uc *likeUseCase) IsLiked(ctx context.Context, postID, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return uc.likeRepo.IsLiked(ctx, postID, userID)
}
