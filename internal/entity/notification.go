package entity

import "time"

// Notification tells a user that someone liked or commented on their post.
type Notification struct {
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	ActorID   string    `json:"actor_id"`
	PostID    string    `json:"post_id"`
	CommentID string    `json:"comment_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
