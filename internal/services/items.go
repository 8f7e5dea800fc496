package services

import (
	"fleamarket/internal/db"
	"fleamarket/internal/models"

	"gorm.io/gorm"
)

// DeleteItem removes an item together with its comments and every like
// hanging off the item or its comments, all in one transaction.
func DeleteItem(itemID uint) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).
			Where("item_id = ?", itemID).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("target_kind = ? AND target_id IN ?", models.KindComment, commentIDs).
				Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("item_id = ?", itemID).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := DeleteLikesFor(tx, models.KindItem, itemID); err != nil {
			return err
		}
		return tx.Delete(&models.Item{}, itemID).Error
	})
}

// FillItemCounts populates the per-item like and comment counts for a list
// page in two grouped queries instead of one pair per item.
func FillItemCounts(items []models.Item) {
	if len(items) == 0 {
		return
	}
	ids := make([]uint, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	type countRow struct {
		ID    uint
		Count int64
	}

	var likeRows []countRow
	db.DB.Model(&models.Like{}).
		Select("target_id AS id, COUNT(*) AS count").
		Where("target_kind = ? AND target_id IN ?", models.KindItem, ids).
		Group("target_id").
		Scan(&likeRows)

	var commentRows []countRow
	db.DB.Model(&models.Comment{}).
		Select("item_id AS id, COUNT(*) AS count").
		Where("item_id IN ?", ids).
		Group("item_id").
		Scan(&commentRows)

	likes := make(map[uint]int64, len(likeRows))
	for _, r := range likeRows {
		likes[r.ID] = r.Count
	}
	comments := make(map[uint]int64, len(commentRows))
	for _, r := range commentRows {
		comments[r.ID] = r.Count
	}

	for i := range items {
		items[i].LikeCount = likes[items[i].ID]
		items[i].CommentCount = comments[items[i].ID]
	}
}
