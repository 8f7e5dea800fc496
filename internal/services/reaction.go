package services

import (
	"errors"
	"fleamarket/internal/db"
	"fleamarket/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrUnknownKind means the target kind is outside the closed likeable set.
	ErrUnknownKind = errors.New("unknown target kind")
	// ErrTargetNotFound means the (kind, id) pair resolves to nothing.
	ErrTargetNotFound = errors.New("like target does not exist")
)

// targetProbes maps each likeable kind to its existence lookup. Built once at
// startup; the stored kind strings must stay stable across deployments or
// existing like rows stop resolving.
var targetProbes = map[models.TargetKind]func(tx *gorm.DB, id uint) *gorm.DB{
	models.KindItem: func(tx *gorm.DB, id uint) *gorm.DB {
		return tx.Model(&models.Item{}).Where("id = ?", id)
	},
	models.KindComment: func(tx *gorm.DB, id uint) *gorm.DB {
		return tx.Model(&models.Comment{}).Where("id = ?", id)
	},
}

// ToggleLike flips the caller's like on (kind, targetID): the like is removed
// if present, created otherwise. Returns the resulting state and the total
// like count for the target, read in the same transaction as the mutation.
//
// The delete-then-create order makes the whole toggle a single transaction;
// two concurrent creates by the same user collapse into one row via the
// composite unique index (the loser gets an error, never a duplicate).
func ToggleLike(userID uint, kind models.TargetKind, targetID uint) (liked bool, count int64, err error) {
	probe, ok := targetProbes[kind]
	if !ok {
		return false, 0, ErrUnknownKind
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := probe(tx, targetID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return ErrTargetNotFound
		}

		res := tx.Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, kind, targetID).
			Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			like := models.Like{UserID: userID, TargetKind: kind, TargetID: targetID}
			if err := tx.Create(&like).Error; err != nil {
				return err
			}
			liked = true
		} else {
			liked = false
		}

		return tx.Model(&models.Like{}).
			Where("target_kind = ? AND target_id = ?", kind, targetID).
			Count(&count).Error
	})
	if err != nil {
		return false, 0, err
	}
	return liked, count, nil
}

// LikeCount returns the current number of likes on a target.
func LikeCount(kind models.TargetKind, targetID uint) int64 {
	var count int64
	db.DB.Model(&models.Like{}).
		Where("target_kind = ? AND target_id = ?", kind, targetID).
		Count(&count)
	return count
}

// HasLiked reports whether the user currently likes the target.
func HasLiked(userID uint, kind models.TargetKind, targetID uint) bool {
	var count int64
	db.DB.Model(&models.Like{}).
		Where("user_id = ? AND target_kind = ? AND target_id = ?", userID, kind, targetID).
		Count(&count)
	return count > 0
}

// DeleteLikesFor removes all likes on a target inside the caller's
// transaction. Likes carry no FK on TargetID, so every path that deletes an
// item or comment must call this to keep the cascade.
func DeleteLikesFor(tx *gorm.DB, kind models.TargetKind, targetID uint) error {
	return tx.Where("target_kind = ? AND target_id = ?", kind, targetID).
		Delete(&models.Like{}).Error
}
