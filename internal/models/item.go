package models

import (
	"time"
)

// Condition is the seller-declared state of an item.
type Condition string

const (
	ConditionNew       Condition = "new"
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
)

// Conditions in display order, for the item form select.
func Conditions() []Condition {
	return []Condition{ConditionNew, ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor}
}

func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return true
	}
	return false
}

type Item struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	Title     string    `gorm:"size:80;not null" json:"title"`
	Price     int       `gorm:"not null" json:"price"` // positive integer, validated on input
	Condition Condition `gorm:"size:10;not null" json:"condition"`
	Detail    string    `gorm:"type:text" json:"detail"`
	Image1    string    `gorm:"not null" json:"image1"`
	Image2    string    `json:"image2"`
	Image3    string    `json:"image3"`
	Sold      bool      `gorm:"default:false" json:"sold"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Filled in by queries, not stored
	LikeCount    int64 `gorm:"-" json:"like_count"`
	CommentCount int64 `gorm:"-" json:"comment_count"`
}
