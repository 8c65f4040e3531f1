package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/mindreminder/mindreminder-api/internal/handlers"
	"github.com/mindreminder/mindreminder-api/internal/middleware"
)

func Setup(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)
	auth.Post("/google", handlers.GoogleLogin)

	protected := api.Group("/", middleware.Protected())

	protected.Get("/me", handlers.GetMe)
	protected.Put("/me", handlers.UpdateProfile)
	protected.Get("/users/:id", handlers.GetUserProfile)

	habits := protected.Group("/habits")
	habits.Get("/", handlers.GetHabits)
	habits.Post("/", handlers.CreateHabit)
	habits.Get("/:id", handlers.GetHabit)
	habits.Put("/:id", handlers.UpdateHabit)
	habits.Delete("/:id", handlers.DeleteHabit)

	habits.Post("/:id/complete", handlers.CompleteHabit)
	habits.Delete("/:id/complete", handlers.UncompleteHabit)
	habits.Get("/:id/streak", handlers.GetHabitStreak)
	habits.Get("/:id/completions", handlers.GetHabitCompletions)

	reminders := protected.Group("/reminders")
	reminders.Get("/", handlers.GetReminders)
	reminders.Post("/", handlers.CreateReminder)
	reminders.Get("/shared", handlers.GetSharedReminders)
	reminders.Get("/:id", handlers.GetReminder)
	reminders.Put("/:id", handlers.UpdateReminder)
	reminders.Delete("/:id", handlers.DeleteReminder)
	reminders.Post("/:id/share", handlers.ShareReminder)
	reminders.Delete("/:id/share/:userId", handlers.RevokeReminderShare)

	friends := protected.Group("/friends")
	friends.Get("/", handlers.GetFriends)
	friends.Get("/requests", handlers.GetFriendRequests)
	friends.Post("/requests", handlers.SendFriendRequest)
	friends.Put("/requests/:id", handlers.RespondFriendRequest)
	friends.Post("/:userId/block", handlers.BlockUser)
	friends.Delete("/:userId", handlers.Unfriend)

	// Notifications
	notifications := protected.Group("/notifications")
	notifications.Get("/", handlers.GetNotifications)
	notifications.Put("/:id/read", handlers.MarkNotificationRead)
	notifications.Post("/read-all", handlers.MarkAllRead)

	// Settings
	protected.Get("/settings", handlers.GetSettings)
	protected.Put("/settings", handlers.UpdateSettings)

	// Quotes
	protected.Get("/quotes/daily", handlers.GetDailyQuote)
	protected.Get("/quotes/random", handlers.GetRandomQuote)

	// Activity feed
	protected.Get("/activity", handlers.GetActivity)

	// Device token for push notifications
	protected.Post("/device-token", handlers.RegisterDeviceToken)

	// Avatar upload
	protected.Post("/upload", handlers.UploadAvatar)

	// WebSocket for live notifications
	app.Use("/ws", handlers.WebSocketUpgrade())
	app.Get("/ws/notifications", websocket.New(handlers.HandleWebSocket))
}
