package usecase

import (
	"context"

	"postboard/internal/entity"
	"postboard/internal/repo/persistent"
	"postboard/pkg/apperror"
	"postboard/pkg/logger"
)

type PostUseCase interface {
	Create(ctx context.Context, authorID, title, content string) (*entity.Post, error)
	Get(ctx context.Context, postID, viewerID string) (*entity.PostView, error)
	List(ctx context.Context, viewerID string) ([]entity.PostView, error)
	ListByAuthor(ctx context.Context, authorID, viewerID string) ([]entity.PostView, error)
	Update(ctx context.Context, postID string, update entity.PostUpdate) (*entity.Post, error)
	Delete(ctx context.Context, postID string) error
}

type postUseCase struct {
	postRepo persistent.PostRepository
	userRepo persistent.UserRepository
	feedRepo persistent.FeedRepository
	logger   *logger.Logger
}

func NewPostUseCase(
	postRepo persistent.PostRepository,
	userRepo persistent.UserRepository,
	feedRepo persistent.FeedRepository,
	logger *logger.Logger,
) PostUseCase {
	return &postUseCase{
		postRepo: postRepo,
		userRepo: userRepo,
		feedRepo: feedRepo,
		logger:   logger,
	}
}

func (uc *postUseCase) Create(ctx context.Context, authorID, title, content string) (*entity.Post, error) {
	if err := requireFields("content", content); err != nil {
		return nil, err
	}

	post := &entity.Post{
		Title:    title,
		Content:  content,
		AuthorID: authorID,
	}
	if err := uc.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	uc.logger.Info("Post created: id=%s author=%s", post.ID, authorID)
	return post, nil
}

func (uc *postUseCase) Get(ctx context.Context, postID, viewerID string) (*entity.PostView, error) {
	return uc.feedRepo.Get(ctx, postID, viewerID)
}

func (uc *postUseCase) List(ctx context.Context, viewerID string) ([]entity.PostView, error) {
	return uc.feedRepo.List(ctx, viewerID)
}

func (uc *postUseCase) ListByAuthor(ctx context.Context, authorID, viewerID string) ([]entity.PostView, error) {
	exists, err := uc.userRepo.Exists(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NotFound("user not found")
	}
	return uc.feedRepo.ListByAuthor(ctx, authorID, viewerID)
}

func (uc *postUseCase) Update(ctx context.Context, postID string, update entity.PostUpdate) (*entity.Post, error) {
	return uc.postRepo.Update(ctx, postID, update)
}

func (uc *postUseCase) Delete(ctx context.Context, postID string) error {
	if err := uc.postRepo.Delete(ctx, postID); err != nil {
		return err
	}
	uc.logger.Info("Post deleted: id=%s", postID)
	return nil
}
