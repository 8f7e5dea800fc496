package handlers

import (
	"fleamarket/internal/db"
	"fleamarket/internal/models"
	"fleamarket/internal/services"
	"fleamarket/internal/utils"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Profile shows a user's public page with their listings, newest first.
func (h *UserHandler) Profile(c *gin.Context) {
	userID := utils.StringToUint(c.Param("id"))

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		RenderError(c, http.StatusNotFound, "User not found")
		return
	}

	var items []models.Item
	db.DB.Preload("User").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&items)

	services.FillItemCounts(items)

	Render(c, http.StatusOK, "user/public.html", gin.H{
		"Title":       user.DisplayName(),
		"ProfileUser": user,
		"Items":       items,
	})
}

// ShowProfileSet renders the first-time profile form, the page the
// completeness gate redirects to.
func (h *UserHandler) ShowProfileSet(c *gin.Context) {
	h.showProfileForm(c, "Set up your profile")
}

func (h *UserHandler) ProfileSet(c *gin.Context) {
	h.saveProfile(c, "Set up your profile")
}

// ShowProfileUpdate is the same form for users whose profile is already
// complete.
func (h *UserHandler) ShowProfileUpdate(c *gin.Context) {
	h.showProfileForm(c, "Update your profile")
}

func (h *UserHandler) ProfileUpdate(c *gin.Context) {
	h.saveProfile(c, "Update your profile")
}

func (h *UserHandler) showProfileForm(c *gin.Context, title string) {
	user := CurrentUser(c)
	Render(c, http.StatusOK, "user/profile_form.html", gin.H{
		"Title": title,
		"User":  user,
	})
}

func (h *UserHandler) saveProfile(c *gin.Context, title string) {
	user := CurrentUser(c)

	nickname := strings.TrimSpace(c.PostForm("nickname"))
	address := strings.TrimSpace(c.PostForm("address"))
	city := strings.TrimSpace(c.PostForm("city"))
	bio := strings.TrimSpace(c.PostForm("bio"))

	form := gin.H{"Title": title, "User": user,
		"Nickname": nickname, "Address": address, "City": city, "Bio": bio}

	if nickname == "" || utf8.RuneCountInString(nickname) > 15 {
		form["NicknameError"] = "Nickname is required and must be at most 15 characters."
		Render(c, http.StatusBadRequest, "user/profile_form.html", form)
		return
	}
	if msg := utils.ValidateNoSpecialCharacters(nickname); msg != "" {
		form["NicknameError"] = msg
		Render(c, http.StatusBadRequest, "user/profile_form.html", form)
		return
	}
	if address == "" {
		form["AddressError"] = "Address is required."
		Render(c, http.StatusBadRequest, "user/profile_form.html", form)
		return
	}
	if city == "" {
		form["CityError"] = "City is required."
		Render(c, http.StatusBadRequest, "user/profile_form.html", form)
		return
	}
	if utf8.RuneCountInString(bio) > 200 {
		form["BioError"] = "Bio must be at most 200 characters."
		Render(c, http.StatusBadRequest, "user/profile_form.html", form)
		return
	}

	// Nickname uniqueness, excluding the user's own row
	var taken int64
	db.DB.Model(&models.User{}).
		Where("nickname = ? AND id != ?", nickname, user.ID).
		Count(&taken)
	if taken > 0 {
		form["NicknameError"] = "This nickname is already taken."
		Render(c, http.StatusBadRequest, "user/profile_form.html", form)
		return
	}

	picture := user.Picture
	if header, err := c.FormFile("picture"); err == nil {
		if msg := services.ValidateImage(header); msg != "" {
			form["PictureError"] = msg
			Render(c, http.StatusBadRequest, "user/profile_form.html", form)
			return
		}
		path, err := services.SaveImage(header)
		if err != nil {
			form["PictureError"] = "Failed to store the uploaded picture."
			Render(c, http.StatusInternalServerError, "user/profile_form.html", form)
			return
		}
		picture = path
	}

	updates := map[string]interface{}{
		"nickname": nickname,
		"address":  address,
		"city":     city,
		"bio":      bio,
		"picture":  picture,
	}
	if err := db.DB.Model(user).Updates(updates).Error; err != nil {
		form["Error"] = "Failed to save your profile."
		Render(c, http.StatusInternalServerError, "user/profile_form.html", form)
		return
	}

	c.Redirect(http.StatusFound, "/")
}
