package handlers

import (
	"errors"
	"fleamarket/internal/db"
	"fleamarket/internal/models"
	"fleamarket/internal/services"
	"fleamarket/internal/utils"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// isUniqueViolation reports whether err is a unique-constraint failure, as
// opposed to a transient database error. The email check races with concurrent
// signups, so the constraint is the source of truth.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type AuthHandler struct {
	mailService *services.MailService
}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{
		mailService: services.NewMailService(),
	}
}

func (h *AuthHandler) ShowRegister(c *gin.Context) {
	Render(c, http.StatusOK, "auth/register.html", nil)
}

func (h *AuthHandler) Register(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	nickname := strings.TrimSpace(c.PostForm("nickname"))
	address := strings.TrimSpace(c.PostForm("address"))

	form := gin.H{"Email": email, "Nickname": nickname, "Address": address}

	if !strings.Contains(email, "@") {
		form["Error"] = "Enter a valid email address."
		Render(c, http.StatusBadRequest, "auth/register.html", form)
		return
	}
	if msg := utils.ValidatePassword(password); msg != "" {
		form["PasswordError"] = msg
		Render(c, http.StatusBadRequest, "auth/register.html", form)
		return
	}
	if nickname == "" || utf8.RuneCountInString(nickname) > 15 {
		form["NicknameError"] = "Nickname is required and must be at most 15 characters."
		Render(c, http.StatusBadRequest, "auth/register.html", form)
		return
	}
	if msg := utils.ValidateNoSpecialCharacters(nickname); msg != "" {
		form["NicknameError"] = msg
		Render(c, http.StatusBadRequest, "auth/register.html", form)
		return
	}
	if address == "" {
		form["AddressError"] = "Address is required."
		Render(c, http.StatusBadRequest, "auth/register.html", form)
		return
	}

	var taken int64
	db.DB.Model(&models.User{}).Where("nickname = ?", nickname).Count(&taken)
	if taken > 0 {
		form["NicknameError"] = "This nickname is already taken."
		Render(c, http.StatusBadRequest, "auth/register.html", form)
		return
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		form["Error"] = "Registration failed, please try again."
		Render(c, http.StatusInternalServerError, "auth/register.html", form)
		return
	}

	user := models.User{
		Email:      email,
		Password:   hash,
		Nickname:   &nickname,
		Address:    address,
		VerifyCode: utils.GenerateRandomCode(6),
	}
	if err := db.DB.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			form["Error"] = "This email or nickname is already registered."
			Render(c, http.StatusConflict, "auth/register.html", form)
			return
		}
		form["Error"] = "Registration failed, please try again."
		Render(c, http.StatusInternalServerError, "auth/register.html", form)
		return
	}

	h.mailService.SendVerificationEmail(email, user.VerifyCode)

	Render(c, http.StatusOK, "auth/confirm.html", gin.H{
		"Email":   email,
		"Success": "Account created. A verification code has been sent to your email.",
	})
}

func (h *AuthHandler) ShowConfirm(c *gin.Context) {
	Render(c, http.StatusOK, "auth/confirm.html", gin.H{"Email": c.Query("email")})
}

// Confirm verifies the emailed code and logs the user in. Where they land
// next depends on profile completeness, same rule as login.
func (h *AuthHandler) Confirm(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	code := strings.TrimSpace(c.PostForm("code"))

	var user models.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		Render(c, http.StatusBadRequest, "auth/confirm.html", gin.H{"Error": "Unknown email address.", "Email": email})
		return
	}

	if !user.Verified {
		if code == "" || user.VerifyCode != code {
			Render(c, http.StatusBadRequest, "auth/confirm.html", gin.H{"Error": "Invalid verification code.", "Email": email})
			return
		}
		user.Verified = true
		user.VerifyCode = ""
		db.DB.Save(&user)
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.Redirect(http.StatusFound, profileOrHome(&user))
}

// ResendConfirmation regenerates the code and mails it again.
func (h *AuthHandler) ResendConfirmation(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))

	var user models.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		Render(c, http.StatusBadRequest, "auth/confirm.html", gin.H{"Error": "Unknown email address.", "Email": email})
		return
	}
	if user.Verified {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	user.VerifyCode = utils.GenerateRandomCode(6)
	db.DB.Save(&user)
	h.mailService.SendVerificationEmail(email, user.VerifyCode)

	Render(c, http.StatusOK, "auth/confirm.html", gin.H{
		"Email":   email,
		"Success": "A new verification code has been sent.",
	})
}

func (h *AuthHandler) ShowLogin(c *gin.Context) {
	Render(c, http.StatusOK, "auth/login.html", nil)
}

func (h *AuthHandler) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	var user models.User
	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{"Error": "Wrong email or password."})
		return
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		Render(c, http.StatusUnauthorized, "auth/login.html", gin.H{"Error": "Wrong email or password."})
		return
	}

	if !user.Verified {
		// Fresh code so an old mail can't linger forever
		user.VerifyCode = utils.GenerateRandomCode(6)
		db.DB.Save(&user)
		h.mailService.SendVerificationEmail(email, user.VerifyCode)
		Render(c, http.StatusUnauthorized, "auth/confirm.html", gin.H{
			"Error": "Your email is not verified yet. A verification code has been sent.",
			"Email": email,
		})
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", user.ID)
	session.Save()

	c.Redirect(http.StatusFound, profileOrHome(&user))
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/")
}

// profileOrHome sends freshly signed-in users to profile setup when their
// profile is incomplete, otherwise to the home page.
func profileOrHome(user *models.User) string {
	if !user.ProfileComplete() {
		return "/profile/set"
	}
	return "/"
}
