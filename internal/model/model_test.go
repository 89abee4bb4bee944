package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserModel_BeforeCreate(t *testing.T) {
	user := &UserModel{Username: "testuser", Email: "test@example.com", Password: "hash"}

	assert.NoError(t, user.BeforeCreate(nil))
	assert.NotEmpty(t, user.ID)
}

func TestUserModel_BeforeCreate_WithID(t *testing.T) {
	user := &UserModel{ID: "existing-id-123"}

	assert.NoError(t, user.BeforeCreate(nil))
	assert.Equal(t, "existing-id-123", user.ID)
}

func TestPostModel_BeforeCreate(t *testing.T) {
	post := &PostModel{AuthorID: "author-123", Content: "hello"}

	assert.NoError(t, post.BeforeCreate(nil))
	assert.NotEmpty(t, post.ID)
}

func TestCommentModel_BeforeCreate(t *testing.T) {
	comment := &CommentModel{PostID: "post-1", AuthorID: "user-1", Content: "hi"}

	assert.NoError(t, comment.BeforeCreate(nil))
	assert.NotEmpty(t, comment.ID)
}

func TestLikeModel_BeforeCreate(t *testing.T) {
	a := &LikeModel{UserID: "user-123", PostID: "post-123"}
	b := &LikeModel{UserID: "user-123", PostID: "post-456"}

	assert.NoError(t, a.BeforeCreate(nil))
	assert.NoError(t, b.BeforeCreate(nil))
	assert.NotEqual(t, a.ID, b.ID)
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, "users", UserModel{}.TableName())
	assert.Equal(t, "posts", PostModel{}.TableName())
	assert.Equal(t, "comments", CommentModel{}.TableName())
	assert.Equal(t, "likes", LikeModel{}.TableName())
	assert.Equal(t, "sessions", SessionModel{}.TableName())
	assert.Len(t, All(), 5)
}
