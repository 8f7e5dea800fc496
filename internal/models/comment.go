package models

import (
	"time"
)

// MaxCommentLen caps comment content, enforced before any write.
const MaxCommentLen = 500

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ItemID    uint      `gorm:"not null;index" json:"item_id"`
	Item      Item      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"item"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Content   string    `gorm:"size:500;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	LikeCount int64 `gorm:"-" json:"like_count"`
}
