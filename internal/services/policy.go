package services

import (
	"fleamarket/internal/models"
)

// Ownership predicates. Every mutating handler checks the matching predicate
// before touching the row; a false result is a 403, never a silent no-op.
// Read paths (listing, detail) carry no ownership restriction.

func CanEditComment(user *models.User, comment *models.Comment) bool {
	return user != nil && comment != nil && comment.UserID == user.ID
}

func CanDeleteComment(user *models.User, comment *models.Comment) bool {
	return user != nil && comment != nil && comment.UserID == user.ID
}

func CanEditItem(user *models.User, item *models.Item) bool {
	return user != nil && item != nil && item.UserID == user.ID
}

func CanDeleteItem(user *models.User, item *models.Item) bool {
	return user != nil && item != nil && item.UserID == user.ID
}
