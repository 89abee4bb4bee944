package entity

import "time"

type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  string    `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostView is a post as listed to readers: with its author's name, like
// count, and whether the viewer liked it.
type PostView struct {
	Post
	AuthorName string `json:"author_name"`
	LikesCount int64  `json:"likes_count"`
	IsLiked    bool   `json:"is_liked"`
}

// PostUpdate carries a partial update; nil fields are left unchanged.
type PostUpdate struct {
	Title   *string
	Content *string
}

func (u PostUpdate) Empty() bool {
	return u.Title == nil && u.Content == nil
}
