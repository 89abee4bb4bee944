package http

import (
	"context"
	"io"

	"postboard/internal/entity"
	"postboard/internal/usecase"
	"postboard/pkg/logger"
	"postboard/pkg/queue"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

// MockAuthUseCase is a mock implementation of AuthUseCase
type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Register(ctx context.Context, username, email, password string) (*entity.User, error) {
	args := m.Called(ctx, username, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthUseCase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.User), args.String(1), args.Error(2)
}

func (m *MockAuthUseCase) Logout(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthUseCase) Me(ctx context.Context, userID string) (*entity.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthUseCase) DeleteAccount(ctx context.Context, userID, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

// MockPostUseCase is a mock implementation of PostUseCase
type MockPostUseCase struct {
	mock.Mock
}

func (m *MockPostUseCase) Create(ctx context.Context, authorID, title, content string) (*entity.Post, error) {
	args := m.Called(ctx, authorID, title, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) Get(ctx context.Context, postID, viewerID string) (*entity.PostView, error) {
	args := m.Called(ctx, postID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PostView), args.Error(1)
}

func (m *MockPostUseCase) List(ctx context.Context, viewerID string) ([]entity.PostView, error) {
	args := m.Called(ctx, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PostView), args.Error(1)
}

func (m *MockPostUseCase) ListByAuthor(ctx context.Context, authorID, viewerID string) ([]entity.PostView, error) {
	args := m.Called(ctx, authorID, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PostView), args.Error(1)
}

func (m *MockPostUseCase) Update(ctx context.Context, postID string, update entity.PostUpdate) (*entity.Post, error) {
	args := m.Called(ctx, postID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) Delete(ctx context.Context, postID string) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

// MockLikeUseCase is a mock implementation of LikeUseCase
type MockLikeUseCase struct {
	mock.Mock
}

func (m *MockLikeUseCase) Toggle(ctx context.Context, postID, userID string) (*entity.LikeToggle, error) {
	args := m.Called(ctx, postID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LikeToggle), args.Error(1)
}

func (m *MockLikeUseCase) Count(ctx context.Context, postID string) (int64, error) {
	args := m.Called(ctx, postID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLikeUseCase) IsLiked(ctx context.Context, postID, userID string) (bool, error) {
	args := m.Called(ctx, postID, userID)
	return args.Bool(0), args.Error(1)
}

// MockCommentUseCase is a mock implementation of CommentUseCase
type MockCommentUseCase struct {
	mock.Mock
}

func (m *MockCommentUseCase) Create(ctx context.Context, postID, authorID, content string, parentID *string) (*entity.Comment, error) {
	args := m.Called(ctx, postID, authorID, content, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comment), args.Error(1)
}

func (m *MockCommentUseCase) ListTree(ctx context.Context, postID string) ([]*entity.CommentNode, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.CommentNode), args.Error(1)
}

func (m *MockCommentUseCase) Update(ctx context.Context, commentID, userID string, update entity.CommentUpdate) (*entity.Comment, error) {
	args := m.Called(ctx, commentID, userID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comment), args.Error(1)
}

func (m *MockCommentUseCase) Delete(ctx context.Context, commentID, userID string) error {
	args := m.Called(ctx, commentID, userID)
	return args.Error(0)
}

type MockNotificationUseCase struct {
	mock.Mock
}

func (m *MockNotificationUseCase) Handle(ctx context.Context, activity queue.Activity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}

func (m *MockNotificationUseCase) List(ctx context.Context, userID string) ([]entity.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Notification), args.Error(1)
}

var (
	_ usecase.AuthUseCase         = (*MockAuthUseCase)(nil)
	_ usecase.PostUseCase         = (*MockPostUseCase)(nil)
	_ usecase.LikeUseCase         = (*MockLikeUseCase)(nil)
	_ usecase.CommentUseCase      = (*MockCommentUseCase)(nil)
	_ usecase.NotificationUseCase = (*MockNotificationUseCase)(nil)
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func testLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, io.Discard)
}

// asUser marks the request as coming from userID, the way AuthMiddleware does.
func asUser(userID string, next gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("username", userID+"-name")
		next(c)
	}
}
