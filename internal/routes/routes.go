package routes

import (
	"github.com/gin-gonic/gin"

	"sira/internal/handlers"
	"sira/internal/middleware"
	"sira/internal/models"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	taskHandler *handlers.TaskHandler,
	bookingHandler *handlers.BookingHandler,
	reviewHandler *handlers.ReviewHandler,
	taskerAppHandler *handlers.TaskerApplicationHandler,
	chatHandler *handlers.ChatHandler,
) *gin.Engine {

	// ---- public
	auth := r.Group("/auth")
	{
		auth.POST("/send-code", authHandler.SendCode)
		auth.POST("/verify", authHandler.Verify)
		auth.POST("/refresh", authHandler.Refresh)
	}
	r.POST("/admin/login", authHandler.AdminLogin)

	// ---- protected
	r.Use(middleware.AuthMiddleware())

	r.POST("/auth/logout", authHandler.Logout)
	r.GET("/auth/me", authHandler.Me)
	r.POST("/auth/switch-mode", authHandler.SwitchMode)

	// PROFILES
	r.GET("/taskers", profileHandler.ListTaskers)
	profiles := r.Group("/profiles")
	{
		profiles.PUT("/me", profileHandler.UpdateMe)
		profiles.PUT("/me/availability", profileHandler.SetAvailability)
		profiles.GET("/:id", profileHandler.GetByID)
	}

	// TASKS
	r.GET("/categories", taskHandler.Categories)
	tasks := r.Group("/tasks")
	{
		tasks.POST("", taskHandler.Create)
		tasks.GET("", taskHandler.List)
		tasks.GET("/:id", taskHandler.GetByID)
		tasks.POST("/:id/status", taskHandler.UpdateStatus)
		tasks.GET("/:id/applications", taskHandler.ListApplications)
		tasks.POST("/:id/apply", middleware.RequireMode(string(models.ModeTasker)), taskHandler.Apply)

		// per-task chat
		tasks.GET("/:id/messages", chatHandler.ListMessages)
		tasks.POST("/:id/messages", chatHandler.SendMessage)
		tasks.GET("/:id/messages/stream", chatHandler.Stream)
	}

	applications := r.Group("/applications")
	{
		applications.GET("/mine", taskHandler.MyApplications)
		applications.POST("/:id/accept", taskHandler.AcceptApplication)
	}

	// BOOKINGS
	bookings := r.Group("/bookings")
	{
		bookings.POST("", bookingHandler.Create)
		bookings.GET("", bookingHandler.List)
		bookings.GET("/upcoming", bookingHandler.Upcoming)
		bookings.GET("/stats", bookingHandler.Stats)
		bookings.GET("/:id", bookingHandler.GetByID)
		bookings.POST("/:id/status", bookingHandler.UpdateStatus)
		bookings.PUT("/:id/notes", bookingHandler.UpdateNotes)
		bookings.GET("/:id/receipt", bookingHandler.Receipt)
	}

	// REVIEWS
	r.POST("/reviews", reviewHandler.Create)
	r.GET("/users/:id/reviews", reviewHandler.ListForUser)
	r.GET("/users/:id/reviews/stats", reviewHandler.Stats)

	// TASKER APPLICATIONS
	r.POST("/tasker-applications", taskerAppHandler.Submit)
	r.GET("/tasker-applications/mine", taskerAppHandler.Mine)

	// ADMIN
	admin := r.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/tasker-applications", taskerAppHandler.ListPending)
		admin.POST("/tasker-applications/:id/approve", taskerAppHandler.Approve)
		admin.POST("/tasker-applications/:id/reject", taskerAppHandler.Reject)
	}

	// CHATS
	r.GET("/chats", chatHandler.ListChats)

	return r
}
