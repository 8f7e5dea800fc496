package handlers

import (
	"fleamarket/internal/db"
	"fleamarket/internal/models"
	"fleamarket/internal/services"
	"fleamarket/internal/utils"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct{}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

// Create posts a comment on an item. Author and item are taken from the
// session and the URL, never from the form.
func (h *CommentHandler) Create(c *gin.Context) {
	user := CurrentUser(c)
	itemID := utils.StringToUint(c.Param("id"))

	var item models.Item
	if err := db.DB.Preload("User").First(&item, itemID).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Item not found")
		return
	}

	content := c.PostForm("content")
	if msg := services.ValidateCommentContent(content); msg != "" {
		comments, _ := services.ListComments(item.ID)
		renderDetail(c, http.StatusBadRequest, &item, comments, gin.H{
			"CommentError":   msg,
			"CommentContent": content,
		})
		return
	}

	if _, err := services.CreateComment(item.ID, user.ID, content); err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to post the comment")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/items/%d", item.ID))
}

// RedirectToItem sends GET requests on comment mutation routes back to the
// owning item's detail page; there is no standalone comment edit page.
func (h *CommentHandler) RedirectToItem(c *gin.Context) {
	commentID := utils.StringToUint(c.Param("cid"))

	var comment models.Comment
	if err := db.DB.First(&comment, commentID).Error; err != nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	c.Redirect(http.StatusFound, fmt.Sprintf("/items/%d", comment.ItemID))
}

func (h *CommentHandler) Update(c *gin.Context) {
	user := CurrentUser(c)
	commentID := utils.StringToUint(c.Param("cid"))

	var comment models.Comment
	if err := db.DB.First(&comment, commentID).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Comment not found")
		return
	}
	if !services.CanEditComment(user, &comment) {
		RenderError(c, http.StatusForbidden, "You can only edit your own comments")
		return
	}

	content := c.PostForm("content")
	if msg := services.ValidateCommentContent(content); msg != "" {
		var item models.Item
		if err := db.DB.Preload("User").First(&item, comment.ItemID).Error; err != nil {
			RenderError(c, http.StatusNotFound, "Item not found")
			return
		}
		comments, _ := services.ListComments(item.ID)
		renderDetail(c, http.StatusBadRequest, &item, comments, gin.H{
			"CommentError":   msg,
			"EditingComment": comment.ID,
		})
		return
	}

	if _, err := services.UpdateComment(comment.ID, content); err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to update the comment")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/items/%d", comment.ItemID))
}

func (h *CommentHandler) Delete(c *gin.Context) {
	user := CurrentUser(c)
	commentID := utils.StringToUint(c.Param("cid"))

	var comment models.Comment
	if err := db.DB.First(&comment, commentID).Error; err != nil {
		RenderError(c, http.StatusNotFound, "Comment not found")
		return
	}
	if !services.CanDeleteComment(user, &comment) {
		RenderError(c, http.StatusForbidden, "You can only delete your own comments")
		return
	}

	if err := services.DeleteComment(comment.ID); err != nil {
		RenderError(c, http.StatusInternalServerError, "Failed to delete the comment")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/items/%d", comment.ItemID))
}
