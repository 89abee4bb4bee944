package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LikeModel struct {
	ID        string     `gorm:"type:uuid;primary_key"`
	PostID    string     `gorm:"type:uuid;not null;uniqueIndex:unique_like"`
	Post      *PostModel `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE"`
	UserID    string     `gorm:"type:uuid;not null;uniqueIndex:unique_like;index"`
	User      *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
}

func (LikeModel) TableName() string {
	return "likes"
}

func (l *LikeModel) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}
