package models

import (
	"time"
)

// TargetKind is the closed set of entities that can carry likes. The stored
// value is part of the like row identity, so renaming a kind invalidates
// existing rows — keep these stable.
type TargetKind string

const (
	KindItem    TargetKind = "item"
	KindComment TargetKind = "comment"
)

func (k TargetKind) Valid() bool {
	return k == KindItem || k == KindComment
}

// Like associates a user with one target via a (kind, id) pair instead of a
// dedicated foreign key per target type. The composite unique index is what
// guarantees at most one like per user and target, including under
// concurrent toggles. There is no FK constraint on TargetID; cascade cleanup
// happens in the same transaction that deletes the target.
type Like struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;uniqueIndex:idx_user_target" json:"user_id"`
	TargetKind TargetKind `gorm:"size:16;not null;uniqueIndex:idx_user_target;index:idx_target" json:"target_kind"`
	TargetID   uint       `gorm:"not null;uniqueIndex:idx_user_target;index:idx_target" json:"target_id"`
	CreatedAt  time.Time  `json:"created_at"`
}
