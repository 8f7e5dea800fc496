package services

import (
	"fleamarket/internal/db"
	"fleamarket/internal/models"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"
)

// ValidateCommentContent returns a form message when content is empty or
// over the length cap, empty string when valid.
func ValidateCommentContent(content string) string {
	if strings.TrimSpace(content) == "" {
		return "Comment cannot be empty."
	}
	if utf8.RuneCountInString(content) > models.MaxCommentLen {
		return "Comment cannot be longer than 500 characters."
	}
	return ""
}

// CreateComment attaches a new comment to an item. Author and item come from
// the caller, never from client input.
func CreateComment(itemID, userID uint, content string) (*models.Comment, error) {
	comment := models.Comment{
		ItemID:  itemID,
		UserID:  userID,
		Content: content,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateComment replaces the content of an existing comment.
func UpdateComment(commentID uint, content string) (*models.Comment, error) {
	var comment models.Comment
	if err := db.DB.First(&comment, commentID).Error; err != nil {
		return nil, err
	}
	comment.Content = content
	if err := db.DB.Save(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// DeleteComment removes a comment and its likes in one transaction.
func DeleteComment(commentID uint) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		if err := DeleteLikesFor(tx, models.KindComment, commentID); err != nil {
			return err
		}
		return tx.Delete(&models.Comment{}, commentID).Error
	})
}

// ListComments returns an item's comments newest first with authors and like
// counts filled in.
func ListComments(itemID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := db.DB.Preload("User").
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	for i := range comments {
		comments[i].LikeCount = LikeCount(models.KindComment, comments[i].ID)
	}
	return comments, nil
}
