package router

import (
	"fleamarket/internal/handlers"
	"fleamarket/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	// Handlers
	authHandler := handlers.NewAuthHandler()
	itemHandler := handlers.NewItemHandler()
	commentHandler := handlers.NewCommentHandler()
	likeHandler := handlers.NewLikeHandler()
	userHandler := handlers.NewUserHandler()

	// Public Routes
	r.GET("/", itemHandler.Index)
	r.GET("/items/:id", itemHandler.Detail)
	r.GET("/u/:id", userHandler.Profile)

	r.GET("/signup", authHandler.ShowRegister)
	r.POST("/signup", authHandler.Register)
	r.GET("/login", authHandler.ShowLogin)
	r.POST("/login", authHandler.Login)
	r.GET("/logout", authHandler.Logout)
	r.GET("/confirm-email", authHandler.ShowConfirm)
	r.POST("/confirm-email", authHandler.Confirm)
	r.POST("/confirm-email/resend", authHandler.ResendConfirmation)

	// Protected Routes
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/sell", itemHandler.ShowCreate)
		authorized.POST("/sell", itemHandler.Create)
		authorized.GET("/items/:id/edit", itemHandler.ShowEdit)
		authorized.POST("/items/:id/edit", itemHandler.Update)
		authorized.POST("/items/:id/delete", itemHandler.Delete)
		authorized.POST("/items/:id/sold", itemHandler.ToggleSold)

		authorized.POST("/items/:id/comments", commentHandler.Create)
		// Comment mutation is POST-only; GET lands back on the item page
		authorized.GET("/comments/:cid/edit", commentHandler.RedirectToItem)
		authorized.POST("/comments/:cid/edit", commentHandler.Update)
		authorized.GET("/comments/:cid/delete", commentHandler.RedirectToItem)
		authorized.POST("/comments/:cid/delete", commentHandler.Delete)

		authorized.POST("/like/:kind/:id", likeHandler.Toggle)

		authorized.GET("/profile/set", userHandler.ShowProfileSet)
		authorized.POST("/profile/set", userHandler.ProfileSet)
		authorized.GET("/profile/update", userHandler.ShowProfileUpdate)
		authorized.POST("/profile/update", userHandler.ProfileUpdate)
	}
}
