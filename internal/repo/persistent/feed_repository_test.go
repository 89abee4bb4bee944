package persistent

import (
	"context"
	"testing"
	"time"

	"postboard/pkg/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var feedColumns = []string{"id", "title", "content", "author_id", "created_at", "updated_at", "author_name", "likes_count", "is_liked"}

func TestFeedRepository_SQLite(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	oldest := createPost(t, db, alice.ID, "oldest", base)
	middle := createPost(t, db, bob.ID, "middle", base.Add(time.Minute))
	newest := createPost(t, db, alice.ID, "newest", base.Add(2*time.Minute))

	_, err := NewLikeRepository(db).Toggle(ctx, middle.ID, alice.ID)
	require.NoError(t, err)
	_, err = NewLikeRepository(db).Toggle(ctx, middle.ID, bob.ID)
	require.NoError(t, err)

	sqlxDB, err := NewSQLX(db)
	require.NoError(t, err)
	repo := NewFeedRepository(sqlxDB)

	posts, err := repo.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []string{newest.ID, middle.ID, oldest.ID}, []string{posts[0].ID, posts[1].ID, posts[2].ID})
	assert.Equal(t, "bob", posts[1].AuthorName)
	assert.Equal(t, int64(2), posts[1].LikesCount)
	assert.True(t, posts[1].IsLiked)
	assert.False(t, posts[0].IsLiked)
	assert.True(t, posts[2].CreatedAt.Equal(base))

	anonymous, err := repo.List(ctx, "")
	require.NoError(t, err)
	for _, p := range anonymous {
		assert.False(t, p.IsLiked)
	}

	mine, err := repo.ListByAuthor(ctx, alice.ID, "")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	one, err := repo.Get(ctx, middle.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "middle", one.Title)
	assert.True(t, one.IsLiked)

	_, err = repo.Get(ctx, uuid.New().String(), "")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func newMockFeedRepository(t *testing.T) (FeedRepository, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })
	return NewFeedRepository(sqlx.NewDb(mockDB, "postgres")), mock
}

func TestFeedRepository_PostgresPlaceholders(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("ListByAuthor", func(t *testing.T) {
		repo, mock := newMockFeedRepository(t)
		viewer := uuid.New().String()
		author := uuid.New().String()

		mock.ExpectQuery(`SELECT p\.id, .*AS likes_count, \(EXISTS \(SELECT 1 FROM likes lv WHERE lv\.post_id = p\.id AND lv\.user_id = \$1\)\) AS is_liked FROM posts p JOIN users u ON u\.id = p\.author_id WHERE p\.author_id = \$2 ORDER BY p\.created_at DESC, p\.id DESC`).
			WithArgs(viewer, author).
			WillReturnRows(sqlmock.NewRows(feedColumns).
				AddRow(uuid.New().String(), "t", "c", author, now, now, "alice", 3, true))

		posts, err := repo.ListByAuthor(ctx, author, viewer)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, int64(3), posts[0].LikesCount)
		assert.True(t, posts[0].IsLiked)
		assert.Equal(t, "alice", posts[0].AuthorName)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ListAnonymous", func(t *testing.T) {
		repo, mock := newMockFeedRepository(t)

		mock.ExpectQuery(`SELECT p\.id, .* FALSE AS is_liked FROM posts p JOIN users u ON u\.id = p\.author_id ORDER BY`).
			WithoutArgs().
			WillReturnRows(sqlmock.NewRows(feedColumns))

		posts, err := repo.List(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, posts)
		assert.NotNil(t, posts)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetMissing", func(t *testing.T) {
		repo, mock := newMockFeedRepository(t)
		id := uuid.New().String()

		mock.ExpectQuery(`WHERE p\.id = \$1`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(feedColumns))

		_, err := repo.Get(ctx, id, "")
		assert.True(t, apperror.Is(err, apperror.KindNotFound))

		require.NoError(t, mock.ExpectationsWereMet())
	})
}
