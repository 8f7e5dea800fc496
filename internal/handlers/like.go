package handlers

import (
	"errors"
	"fleamarket/internal/models"
	"fleamarket/internal/services"
	"fleamarket/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type LikeHandler struct{}

func NewLikeHandler() *LikeHandler {
	return &LikeHandler{}
}

// Toggle flips the caller's like on /like/:kind/:id and answers JSON for the
// page script, no full reload.
func (h *LikeHandler) Toggle(c *gin.Context) {
	user := CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	kind := models.TargetKind(c.Param("kind"))
	if !kind.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown target kind"})
		return
	}

	targetID := utils.StringToUint(c.Param("id"))
	if targetID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid target id"})
		return
	}

	liked, count, err := services.ToggleLike(user.ID, kind, targetID)
	if err != nil {
		if errors.Is(err, services.ErrTargetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "target does not exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "toggle failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked, "like_count": count})
}
