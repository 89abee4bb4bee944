package persistent

import (
	"context"
	"fmt"

	"postboard/internal/entity"
	"postboard/internal/model"
	"postboard/pkg/apperror"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository interface {
	Toggle(ctx context.Context, postID, userID string) (*entity.LikeToggle, error)
	Count(ctx context.Context, postID string) (int64, error)
	IsLiked(ctx context.Context, postID, userID string) (bool, error)
}

type likeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

// Toggle removes the user's like if present and adds it otherwise, then
// reports the new state with the post's like count. A concurrent toggle that
// inserted the same pair first is treated as already liked.
func (r *likeRepository) Toggle(ctx context.Context, postID, userID string) (*entity.LikeToggle, error) {
	if !validID(postID) {
		return nil, apperror.NotFound("post not found")
	}

	result := &entity.LikeToggle{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted := tx.Where("post_id = ? AND user_id = ?", postID, userID).Delete(&model.LikeModel{})
		if deleted.Error != nil {
			return fmt.Errorf("failed to remove like: %w", deleted.Error)
		}

		if deleted.RowsAffected == 0 {
			like := &model.LikeModel{PostID: postID, UserID: userID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(like).Error; err != nil {
				if isForeignKeyViolation(err) {
					return apperror.NotFound("post not found")
				}
				if !isDuplicateKey(err) {
					return fmt.Errorf("failed to add like: %w", err)
				}
			}
			result.Liked = true
		}

		if err := tx.Model(&model.LikeModel{}).Where("post_id = ?", postID).Count(&result.LikesCount).Error; err != nil {
			return fmt.Errorf("failed to count likes: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *likeRepository) Count(ctx context.Context, postID string) (int64, error) {
	if !validID(postID) {
		return 0, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.LikeModel{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count likes: %w", err)
	}
	return count, nil
}

func (r *likeRepository) IsLiked(ctx context.Context, postID, userID string) (bool, error) {
	if !validID(postID) || !validID(userID) {
		return false, nil
	}

	var count int64
	err := r.db.WithContext(ctx).Model(&model.LikeModel{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return count > 0, nil
}
