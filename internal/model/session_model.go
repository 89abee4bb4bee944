package model

import "time"

type SessionModel struct {
	ID        string     `gorm:"type:uuid;primary_key"`
	UserID    string     `gorm:"type:uuid;not null;index"`
	User      *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Username  string     `gorm:"size:80;not null"`
	ExpiresAt time.Time  `gorm:"not null;index"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
}

func (SessionModel) TableName() string {
	return "sessions"
}
