package entity

// LikeToggle is the outcome of toggling a like.
type LikeToggle struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}
