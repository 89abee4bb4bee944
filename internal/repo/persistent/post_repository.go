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

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, id string, update entity.PostUpdate) (*entity.Post, error)
	Delete(ctx context.Context, id string) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	postModel := ToPostModel(post)

	if err := r.db.WithContext(ctx).Create(postModel).Error; err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("user not found")
		}
		return fmt.Errorf("failed to create post: %w", err)
	}

	*post = *ToPostEntity(postModel)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	postModel, err := r.find(r.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	return ToPostEntity(postModel), nil
}

func (r *postRepository) find(db *gorm.DB, id string) (*model.PostModel, error) {
	if !validID(id) {
		return nil, apperror.NotFound("post not found")
	}

	var postModel model.PostModel
	if err := db.Where("id = ?", id).First(&postModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("post not found")
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return &postModel, nil
}

func (r *postRepository) Exists(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.PostModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check post: %w", err)
	}
	return count > 0, nil
}

// Update overwrites only the supplied fields. An empty update returns the
// post untouched.
func (r *postRepository) Update(ctx context.Context, id string, update entity.PostUpdate) (*entity.Post, error) {
	var updated *model.PostModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		postModel, err := r.find(tx, id)
		if err != nil {
			return err
		}

		if update.Empty() {
			updated = postModel
			return nil
		}

		values := map[string]interface{}{}
		if update.Title != nil {
			values["title"] = *update.Title
		}
		if update.Content != nil {
			values["content"] = *update.Content
		}

		if err := tx.Model(postModel).Updates(values).Error; err != nil {
			return fmt.Errorf("failed to update post: %w", err)
		}

		updated, err = r.find(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToPostEntity(updated), nil
}

// Delete removes the post; comments and likes go with it by cascade.
func (r *postRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperror.NotFound("post not found")
	}

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.PostModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete post: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("post not found")
	}
	return nil
}
