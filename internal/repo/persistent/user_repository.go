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

var errUsernameOrEmailTaken = apperror.Conflict("username or email already taken")

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create inserts the user unless the username or email is already taken.
// The unique indexes catch a concurrent registration that slips past the check.
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	userModel := ToUserModel(user)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.UserModel{}).
			Where("username = ? OR email = ?", userModel.Username, userModel.Email).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errUsernameOrEmailTaken
		}

		if err := tx.Create(userModel).Error; err != nil {
			if isDuplicateKey(err) {
				return errUsernameOrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		if apperror.Is(err, apperror.KindConflict) {
			return err
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	*user = *ToUserEntity(userModel)
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validID(id) {
		return nil, apperror.NotFound("user not found")
	}

	var userModel model.UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&userModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) Exists(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.UserModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return count > 0, nil
}

// Delete removes the user; the schema cascades to their posts, comments,
// likes and sessions.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperror.NotFound("user not found")
	}

	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.UserModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("user not found")
	}
	return nil
}
