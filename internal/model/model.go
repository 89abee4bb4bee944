package model

// All lists every table in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&PostModel{},
		&CommentModel{},
		&LikeModel{},
		&SessionModel{},
	}
}
