package persistent

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"postboard/internal/entity"
	"postboard/pkg/apperror"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// FeedRepository answers the read side of posts: each post joined with its
// author's name, its like count and whether the viewer liked it. An empty
// viewerID means an anonymous reader.
type FeedRepository interface {
	List(ctx context.Context, viewerID string) ([]entity.PostView, error)
	ListByAuthor(ctx context.Context, authorID, viewerID string) ([]entity.PostView, error)
	Get(ctx context.Context, id, viewerID string) (*entity.PostView, error)
}

type feedRepository struct {
	db      *sqlx.DB
	builder sq.StatementBuilderType
}

func NewFeedRepository(db *sqlx.DB) FeedRepository {
	var placeholder sq.PlaceholderFormat = sq.Question
	if db.DriverName() == "postgres" || db.DriverName() == "pgx" {
		placeholder = sq.Dollar
	}
	return &feedRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholder),
	}
}

type postRow struct {
	ID         string    `db:"id"`
	Title      string    `db:"title"`
	Content    string    `db:"content"`
	AuthorID   string    `db:"author_id"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
	AuthorName string    `db:"author_name"`
	LikesCount int64     `db:"likes_count"`
	IsLiked    bool      `db:"is_liked"`
}

func (row postRow) view() entity.PostView {
	return entity.PostView{
		Post: entity.Post{
			ID:        row.ID,
			Title:     row.Title,
			Content:   row.Content,
			AuthorID:  row.AuthorID,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		},
		AuthorName: row.AuthorName,
		LikesCount: row.LikesCount,
		IsLiked:    row.IsLiked,
	}
}

func (r *feedRepository) selectPosts(viewerID string) sq.SelectBuilder {
	query := r.builder.
		Select(
			"p.id", "p.title", "p.content", "p.author_id", "p.created_at", "p.updated_at",
			"u.username AS author_name",
			"(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS likes_count",
		).
		From("posts p").
		Join("users u ON u.id = p.author_id")

	if viewerID != "" && validID(viewerID) {
		query = query.Column(sq.Alias(
			sq.Expr("EXISTS (SELECT 1 FROM likes lv WHERE lv.post_id = p.id AND lv.user_id = ?)", viewerID),
			"is_liked",
		))
	} else {
		query = query.Column("FALSE AS is_liked")
	}
	return query
}

func (r *feedRepository) list(ctx context.Context, query sq.SelectBuilder) ([]entity.PostView, error) {
	sqlStr, args, err := query.OrderBy("p.created_at DESC", "p.id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build feed query: %w", err)
	}

	var rows []postRow
	if err := r.db.SelectContext(ctx, &rows, sqlStr, args...); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	posts := make([]entity.PostView, 0, len(rows))
	for _, row := range rows {
		posts = append(posts, row.view())
	}
	return posts, nil
}

// List returns every post, newest first.
func (r *feedRepository) List(ctx context.Context, viewerID string) ([]entity.PostView, error) {
	return r.list(ctx, r.selectPosts(viewerID))
}

func (r *feedRepository) ListByAuthor(ctx context.Context, authorID, viewerID string) ([]entity.PostView, error) {
	if !validID(authorID) {
		return []entity.PostView{}, nil
	}
	return r.list(ctx, r.selectPosts(viewerID).Where(sq.Eq{"p.author_id": authorID}))
}

func (r *feedRepository) Get(ctx context.Context, id, viewerID string) (*entity.PostView, error) {
	if !validID(id) {
		return nil, apperror.NotFound("post not found")
	}

	sqlStr, args, err := r.selectPosts(viewerID).Where(sq.Eq{"p.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build post query: %w", err)
	}

	var row postRow
	if err := r.db.GetContext(ctx, &row, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("post not found")
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	post := row.view()
	return &post, nil
}
