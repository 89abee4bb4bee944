package persistent

import (
	"context"
	"errors"
	"fmt"

	"postboard/internal/entity"
	"postboard/internal/model"
	"postboard/pkg/apperror"

	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	GetByID(ctx context.Context, id string) (*entity.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]entity.Comment, error)
	Update(ctx context.Context, id string, update entity.CommentUpdate) (*entity.Comment, error)
	Delete(ctx context.Context, id string) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	commentModel := ToCommentModel(comment)

	if err := r.db.WithContext(ctx).Create(commentModel).Error; err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("post not found")
		}
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return r.reload(r.db.WithContext(ctx), commentModel.ID, comment)
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	comment := &entity.Comment{}
	if err := r.reload(r.db.WithContext(ctx), id, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (r *commentRepository) reload(db *gorm.DB, id string, into *entity.Comment) error {
	if !validID(id) {
		return apperror.NotFound("comment not found")
	}

	var commentModel model.CommentModel
	if err := db.Preload("Author").Where("id = ?", id).First(&commentModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("comment not found")
		}
		return fmt.Errorf("failed to get comment: %w", err)
	}

	*into = *ToCommentEntity(&commentModel)
	return nil
}

// ListByPost returns every comment on the post, oldest first.
func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]entity.Comment, error) {
	if !validID(postID) {
		return []entity.Comment{}, nil
	}

	var commentModels []model.CommentModel
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&commentModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	comments := make([]entity.Comment, 0, len(commentModels))
	for i := range commentModels {
		comments = append(comments, *ToCommentEntity(&commentModels[i]))
	}
	return comments, nil
}

func (r *commentRepository) Update(ctx context.Context, id string, update entity.CommentUpdate) (*entity.Comment, error) {
	if !validID(id) {
		return nil, apperror.NotFound("comment not found")
	}

	values := map[string]interface{}{}
	if update.Content != nil {
		values["content"] = *update.Content
	}
	if update.ParentID != nil {
		if *update.ParentID == "" {
			values["parent_id"] = nil
		} else {
			values["parent_id"] = *update.ParentID
		}
	}

	db := r.db.WithContext(ctx)
	if len(values) > 0 {
		result := db.Model(&model.CommentModel{}).Where("id = ?", id).Updates(values)
		if result.Error != nil {
			if isForeignKeyViolation(result.Error) {
				return nil, apperror.NotFound("parent comment not found")
			}
			return nil, fmt.Errorf("failed to update comment: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, apperror.NotFound("comment not found")
		}
	}

	comment := &entity.Comment{}
	if err := r.reload(db, id, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes the comment and, by cascade, every reply beneath it.
func (r *commentRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperror.NotFound("comment not found")
	}

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.CommentModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete comment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("comment not found")
	}
	return nil
}
