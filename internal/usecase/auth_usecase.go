package usecase

import (
	"context"

	"postboard/internal/entity"
	"postboard/internal/repo/persistent"
	"postboard/pkg/apperror"
	"postboard/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = apperror.Unauthorized("invalid email or password")

type AuthUseCase interface {
	Register(ctx context.Context, username, email, password string) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, userID string) (*entity.User, error)
	DeleteAccount(ctx context.Context, userID, token string) error
}

type authUseCase struct {
	userRepo persistent.UserRepository
	sessions Sessions
	logger   *logger.Logger
}

func NewAuthUseCase(
	userRepo persistent.UserRepository,
	sessions Sessions,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo: userRepo,
		sessions: sessions,
		logger:   logger,
	}
}

func (uc *authUseCase) Register(ctx context.Context, username, email, password string) (*entity.User, error) {
	if err := requireFields("username", username, "email", email, "password", password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal("failed to process registration", err)
	}

	user := &entity.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.logger.Info("User registered: id=%s username=%s", user.ID, user.Username)
	user.Password = ""
	return user, nil
}

func (uc *authUseCase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	if err := requireFields("email", email, "password", password); err != nil {
		return nil, "", err
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return nil, "", errInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", errInvalidCredentials
	}

	_, token, err := uc.sessions.Create(ctx, user.ID, user.Username)
	if err != nil {
		return nil, "", apperror.Internal("failed to start session", err)
	}

	user.Password = ""
	return user, token, nil
}

func (uc *authUseCase) Logout(ctx context.Context, token string) error {
	if err := uc.sessions.Destroy(ctx, token); err != nil {
		uc.logger.Warn("Failed to destroy session on logout: %v", err)
	}
	return nil
}

func (uc *authUseCase) Me(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// DeleteAccount removes the user with everything they own and ends the
// session that asked for it.
func (uc *authUseCase) DeleteAccount(ctx context.Context, userID, token string) error {
	if err := uc.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	if err := uc.sessions.Destroy(ctx, token); err != nil {
		uc.logger.Warn("Failed to destroy session of deleted user %s: %v", userID, err)
	}
	uc.logger.Info("User deleted: id=%s", userID)
	return nil
}
