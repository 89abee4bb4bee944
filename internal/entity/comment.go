package entity

import "time"

type Comment struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	PostID     string    `json:"post_id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	ParentID   *string   `json:"parent_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CommentNode is a comment with its direct replies.
type CommentNode struct {
	Comment
	Replies []*CommentNode `json:"replies"`
}

// CommentUpdate carries a partial update. A non-nil ParentID re-parents the
// comment; pointing it at "" moves the comment to the top level.
type CommentUpdate struct {
	Content  *string
	ParentID *string
}
