package usecase

import (
	"context"

	"postboard/internal/entity"
	"postboard/internal/repo/persistent"
	"postboard/pkg/apperror"
	"postboard/pkg/logger"
	"postboard/pkg/queue"
)

type CommentUseCase interface {
	Create(ctx context.Context, postID, authorID, content string, parentID *string) (*entity.Comment, error)
	ListTree(ctx context.Context, postID string) ([]*entity.CommentNode, error)
	Update(ctx context.Context, commentID, userID string, update entity.CommentUpdate) (*entity.Comment, error)
	Delete(ctx context.Context, commentID, userID string) error
}

type commentUseCase struct {
	commentRepo persistent.CommentRepository
	postRepo    persistent.PostRepository
	publisher   ActivityPublisher
	logger      *logger.Logger
}

func NewCommentUseCase(
	commentRepo persistent.CommentRepository,
	postRepo persistent.PostRepository,
	publisher ActivityPublisher,
	logger *logger.Logger,
) CommentUseCase {
	return &commentUseCase{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

func (uc *commentUseCase) Create(ctx context.Context, postID, authorID, content string, parentID *string) (*entity.Comment, error) {
	if err := requireFields("content", content); err != nil {
		return nil, err
	}

	post, err := uc.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if parentID != nil && *parentID == "" {
		parentID = nil
	}
	if parentID != nil {
		if err := uc.checkParent(ctx, postID, *parentID); err != nil {
			return nil, err
		}
	}

	comment := &entity.Comment{
		Content:  content,
		PostID:   postID,
		AuthorID: authorID,
		ParentID: parentID,
	}
	if err := uc.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if post.AuthorID != authorID {
		publishActivity(ctx, uc.publisher, uc.logger, queue.Activity{
			Type:        queue.ActivityComment,
			RecipientID: post.AuthorID,
			ActorID:     authorID,
			PostID:      postID,
			CommentID:   comment.ID,
			Priority:    5,
		})
	}

	return comment, nil
}

// checkParent requires parentID to name a comment on the same post.
func (uc *commentUseCase) checkParent(ctx context.Context, postID, parentID string) error {
	parent, err := uc.commentRepo.GetByID(ctx, parentID)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return apperror.Validation("parent comment not found")
		}
		return err
	}
	if parent.PostID != postID {
		return apperror.Validation("parent comment belongs to another post")
	}
	return nil
}

func (uc *commentUseCase) ListTree(ctx context.Context, postID string) ([]*entity.CommentNode, error) {
	exists, err := uc.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NotFound("post not found")
	}

	comments, err := uc.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return BuildCommentTree(comments), nil
}

func (uc *commentUseCase) owned(ctx context.Context, commentID, userID string) (*entity.Comment, error) {
	comment, err := uc.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != userID {
		return nil, apperror.Forbidden("you can only modify your own comments")
	}
	return comment, nil
}

func (uc *commentUseCase) Update(ctx context.Context, commentID, userID string, update entity.CommentUpdate) (*entity.Comment, error) {
	comment, err := uc.owned(ctx, commentID, userID)
	if err != nil {
		return nil, err
	}

	if update.Content != nil {
		if err := requireFields("content", *update.Content); err != nil {
			return nil, err
		}
	}

	if update.ParentID != nil && *update.ParentID != "" {
		newParent := *update.ParentID
		if newParent == comment.ID {
			return nil, apperror.Validation("a comment cannot reply to itself or its own replies")
		}
		if err := uc.checkParent(ctx, comment.PostID, newParent); err != nil {
			return nil, err
		}

		siblings, err := uc.commentRepo.ListByPost(ctx, comment.PostID)
		if err != nil {
			return nil, err
		}
		if wouldCycle(siblings, comment.ID, newParent) {
			return nil, apperror.Validation("a comment cannot reply to itself or its own replies")
		}
	}

	return uc.commentRepo.Update(ctx, commentID, update)
}

func (uc *commentUseCase) Delete(ctx context.Context, commentID, userID string) error {
	if _, err := uc.owned(ctx, commentID, userID); err != nil {
		return err
	}
	return uc.commentRepo.Delete(ctx, commentID)
}
