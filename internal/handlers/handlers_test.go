package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mindreminder/mindreminder-api/internal/database"
	"github.com/mindreminder/mindreminder-api/internal/models"
	"github.com/mindreminder/mindreminder-api/internal/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	database.DB = db
	require.NoError(t, database.Migrate())

	app := fiber.New()
	routes.Setup(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func registerUser(t *testing.T, app *fiber.App, email, name string) (string, models.User) {
	t.Helper()
	resp := doJSON(t, app, "POST", "/api/auth/register", "", models.RegisterRequest{
		Email:    email,
		Password: "password123",
		Name:     name,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var auth models.AuthResponse
	decode(t, resp, &auth)
	require.NotEmpty(t, auth.Token)
	return auth.Token, auth.User
}

func TestRegisterAndLogin(t *testing.T) {
	app := setupApp(t)

	token, user := registerUser(t, app, "mira@example.com", "Mira")
	assert.Equal(t, "mira@example.com", user.Email)

	// Duplicate registration
	resp := doJSON(t, app, "POST", "/api/auth/register", "", models.RegisterRequest{
		Email:    "mira@example.com",
		Password: "password123",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Wrong password
	resp = doJSON(t, app, "POST", "/api/auth/login", "", models.LoginRequest{
		Email:    "mira@example.com",
		Password: "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Valid login
	resp = doJSON(t, app, "POST", "/api/auth/login", "", models.LoginRequest{
		Email:    "mira@example.com",
		Password: "password123",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Authenticated profile read
	resp = doJSON(t, app, "GET", "/api/me", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	var me models.User
	decode(t, resp, &me)
	assert.Equal(t, user.ID, me.ID)

	// No token
	resp = doJSON(t, app, "GET", "/api/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestHabitCompletionFlow(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app, "finn@example.com", "Finn")

	// Create
	resp := doJSON(t, app, "POST", "/api/habits/", token, models.CreateHabitRequest{
		Title:    "Morning stretch",
		Category: "health",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var habit models.Habit
	decode(t, resp, &habit)
	assert.Zero(t, habit.CurrentStreak)

	// Complete today
	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/habits/%s/complete", habit.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var completed models.Habit
	decode(t, resp, &completed)
	assert.Equal(t, 1, completed.CurrentStreak)
	assert.Equal(t, 1, completed.TotalCompletions)

	// Completing again the same day must be a distinguishable conflict
	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/habits/%s/complete", habit.ID), token, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Streak snapshot
	resp = doJSON(t, app, "GET", fmt.Sprintf("/api/habits/%s/streak", habit.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var snap struct {
		CurrentStreak  int  `json:"currentStreak"`
		CompletedToday bool `json:"completedToday"`
	}
	decode(t, resp, &snap)
	assert.Equal(t, 1, snap.CurrentStreak)
	assert.True(t, snap.CompletedToday)

	// Habit list shows today's status
	resp = doJSON(t, app, "GET", "/api/habits/", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var list []struct {
		ID             uuid.UUID `json:"id"`
		CompletedToday bool      `json:"completedToday"`
	}
	decode(t, resp, &list)
	require.Len(t, list, 1)
	assert.True(t, list[0].CompletedToday)

	// Uncomplete today
	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/api/habits/%s/complete", habit.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var reverted models.Habit
	decode(t, resp, &reverted)
	assert.Zero(t, reverted.CurrentStreak)
	assert.Zero(t, reverted.TotalCompletions)

	// Nothing left to uncomplete
	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/api/habits/%s/complete", habit.ID), token, nil)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestHabitOwnership(t *testing.T) {
	app := setupApp(t)
	ownerToken, _ := registerUser(t, app, "owner@example.com", "Owner")
	strangerToken, _ := registerUser(t, app, "stranger@example.com", "Stranger")

	resp := doJSON(t, app, "POST", "/api/habits/", ownerToken, models.CreateHabitRequest{Title: "Read"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var habit models.Habit
	decode(t, resp, &habit)

	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/habits/%s/complete", habit.ID), strangerToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, "GET", fmt.Sprintf("/api/habits/%s/streak", habit.ID), strangerToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Unknown habit is NotFound, not Forbidden
	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/habits/%s/complete", uuid.New()), ownerToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestInactiveHabitCannotBeCompleted(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app, "lena@example.com", "Lena")

	resp := doJSON(t, app, "POST", "/api/habits/", token, models.CreateHabitRequest{Title: "Meditate"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var habit models.Habit
	decode(t, resp, &habit)

	inactive := false
	resp = doJSON(t, app, "PUT", fmt.Sprintf("/api/habits/%s", habit.ID), token,
		models.UpdateHabitRequest{IsActive: &inactive})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/habits/%s/complete", habit.ID), token, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestFriendRequestLifecycle(t *testing.T) {
	app := setupApp(t)
	aliceToken, alice := registerUser(t, app, "alice@example.com", "Alice")
	bobToken, bob := registerUser(t, app, "bob@example.com", "Bob")

	// Alice requests Bob
	resp := doJSON(t, app, "POST", "/api/friends/requests", aliceToken,
		models.FriendRequestRequest{Email: "bob@example.com"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var friendship models.Friendship
	decode(t, resp, &friendship)
	assert.Equal(t, models.FriendshipPending, friendship.Status)

	// Duplicate and reversed requests are rejected
	resp = doJSON(t, app, "POST", "/api/friends/requests", aliceToken,
		models.FriendRequestRequest{Email: "bob@example.com"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	resp = doJSON(t, app, "POST", "/api/friends/requests", bobToken,
		models.FriendRequestRequest{Email: "alice@example.com"})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Self-request rejected
	resp = doJSON(t, app, "POST", "/api/friends/requests", aliceToken,
		models.FriendRequestRequest{Email: "alice@example.com"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Alice cannot accept her own outgoing request
	resp = doJSON(t, app, "PUT", fmt.Sprintf("/api/friends/requests/%s", friendship.ID),
		aliceToken, map[string]string{"action": "accept"})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	// Bob sees it incoming and accepts
	resp = doJSON(t, app, "GET", "/api/friends/requests", bobToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var pending struct {
		Incoming []models.FriendInfo `json:"incoming"`
		Outgoing []models.FriendInfo `json:"outgoing"`
	}
	decode(t, resp, &pending)
	require.Len(t, pending.Incoming, 1)
	assert.Equal(t, alice.ID, pending.Incoming[0].User.ID)

	resp = doJSON(t, app, "PUT", fmt.Sprintf("/api/friends/requests/%s", friendship.ID),
		bobToken, map[string]string{"action": "accept"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Both sides now list each other
	resp = doJSON(t, app, "GET", "/api/friends/", aliceToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var aliceFriends []models.FriendInfo
	decode(t, resp, &aliceFriends)
	require.Len(t, aliceFriends, 1)
	assert.Equal(t, bob.ID, aliceFriends[0].User.ID)

	resp = doJSON(t, app, "GET", "/api/friends/", bobToken, nil)
	var bobFriends []models.FriendInfo
	decode(t, resp, &bobFriends)
	require.Len(t, bobFriends, 1)
	assert.Equal(t, alice.ID, bobFriends[0].User.ID)

	// Bob got a friend_request notification, Alice a friend_accepted one
	resp = doJSON(t, app, "GET", "/api/notifications/", aliceToken, nil)
	var notifs struct {
		Notifications []models.Notification `json:"notifications"`
		Unread        int                   `json:"unread"`
	}
	decode(t, resp, &notifs)
	require.NotEmpty(t, notifs.Notifications)
	assert.Equal(t, "friend_accepted", notifs.Notifications[0].Type)

	// Unfriend
	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/api/friends/%s", bob.ID), aliceToken, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/friends/", aliceToken, nil)
	decode(t, resp, &aliceFriends)
	assert.Empty(t, aliceFriends)
}

func TestBlockPreventsRequests(t *testing.T) {
	app := setupApp(t)
	aliceToken, alice := registerUser(t, app, "alice@example.com", "Alice")
	bobToken, bob := registerUser(t, app, "bob@example.com", "Bob")

	resp := doJSON(t, app, "POST", fmt.Sprintf("/api/friends/%s/block", bob.ID), aliceToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/friends/requests", bobToken,
		models.FriendRequestRequest{Email: "alice@example.com"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// The blocked side cannot lift the block
	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/api/friends/%s", alice.ID), bobToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// The blocker can
	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/api/friends/%s", bob.ID), aliceToken, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/friends/requests", bobToken,
		models.FriendRequestRequest{Email: "alice@example.com"})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestFriendRequestLookupFailure(t *testing.T) {
	app := setupApp(t)
	aliceToken, _ := registerUser(t, app, "alice@example.com", "Alice")
	registerUser(t, app, "bob@example.com", "Bob")

	// Make the duplicate-check lookup fail the way a dropped connection
	// would. The request must not create a row while the check is blind.
	require.NoError(t, database.DB.Callback().Query().Before("gorm:query").
		Register("failing_friendship_lookup", func(tx *gorm.DB) {
			if _, ok := tx.Statement.Dest.(*models.Friendship); ok {
				tx.AddError(errors.New("connection reset"))
			}
		}))
	defer database.DB.Callback().Query().Remove("failing_friendship_lookup")

	resp := doJSON(t, app, "POST", "/api/friends/requests", aliceToken,
		models.FriendRequestRequest{Email: "bob@example.com"})
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var count int64
	require.NoError(t, database.DB.Model(&models.Friendship{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestShareReminderWithFriend(t *testing.T) {
	app := setupApp(t)
	aliceToken, _ := registerUser(t, app, "alice@example.com", "Alice")
	bobToken, bob := registerUser(t, app, "bob@example.com", "Bob")

	resp := doJSON(t, app, "POST", "/api/reminders/", aliceToken, models.CreateReminderRequest{
		Title:      "Water the plants",
		Recurrence: "weekly",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var reminder models.Reminder
	decode(t, resp, &reminder)

	// Not friends yet
	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/reminders/%s/share", reminder.ID),
		aliceToken, models.ShareReminderRequest{UserID: bob.ID})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Become friends
	resp = doJSON(t, app, "POST", "/api/friends/requests", aliceToken,
		models.FriendRequestRequest{Email: "bob@example.com"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var friendship models.Friendship
	decode(t, resp, &friendship)
	resp = doJSON(t, app, "PUT", fmt.Sprintf("/api/friends/requests/%s", friendship.ID),
		bobToken, map[string]string{"action": "accept"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	// Share works now
	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/reminders/%s/share", reminder.ID),
		aliceToken, models.ShareReminderRequest{UserID: bob.ID})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Re-share is a conflict
	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/reminders/%s/share", reminder.ID),
		aliceToken, models.ShareReminderRequest{UserID: bob.ID})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// Bob sees it
	resp = doJSON(t, app, "GET", "/api/reminders/shared", bobToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var shared []struct {
		Reminder models.Reminder      `json:"reminder"`
		Owner    models.PublicProfile `json:"owner"`
	}
	decode(t, resp, &shared)
	require.Len(t, shared, 1)
	assert.Equal(t, "Water the plants", shared[0].Reminder.Title)

	// Revoke
	resp = doJSON(t, app, "DELETE",
		fmt.Sprintf("/api/reminders/%s/share/%s", reminder.ID, bob.ID), aliceToken, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/reminders/shared", bobToken, nil)
	decode(t, resp, &shared)
	assert.Empty(t, shared)
}

func TestSettingsUpsert(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app, "nia@example.com", "Nia")

	// Defaults before any save
	resp := doJSON(t, app, "GET", "/api/settings", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var settings models.Settings
	decode(t, resp, &settings)
	assert.Equal(t, "UTC", settings.Timezone)
	assert.True(t, settings.NotificationsEnabled)

	// Invalid values rejected
	badTime := "25:99"
	resp = doJSON(t, app, "PUT", "/api/settings", token,
		models.UpdateSettingsRequest{DailyReminderTime: &badTime})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	badTZ := "Mars/Olympus_Mons"
	resp = doJSON(t, app, "PUT", "/api/settings", token,
		models.UpdateSettingsRequest{Timezone: &badTZ})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	// Valid upsert
	tz := "Europe/Berlin"
	theme := "dark"
	resp = doJSON(t, app, "PUT", "/api/settings", token,
		models.UpdateSettingsRequest{Timezone: &tz, Theme: &theme})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/settings", token, nil)
	decode(t, resp, &settings)
	assert.Equal(t, "Europe/Berlin", settings.Timezone)
	assert.Equal(t, "dark", settings.Theme)

	// Second update keeps the same row
	enabled := false
	resp = doJSON(t, app, "PUT", "/api/settings", token,
		models.UpdateSettingsRequest{NotificationsEnabled: &enabled})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/settings", token, nil)
	decode(t, resp, &settings)
	assert.False(t, settings.NotificationsEnabled)
	assert.Equal(t, "Europe/Berlin", settings.Timezone)
}

func TestQuotes(t *testing.T) {
	app := setupApp(t)
	require.NoError(t, database.SeedQuotes())
	token, _ := registerUser(t, app, "quin@example.com", "Quin")

	// Daily quote is stable within a day
	resp := doJSON(t, app, "GET", "/api/quotes/daily", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var first models.Quote
	decode(t, resp, &first)
	require.NotEmpty(t, first.Text)

	resp = doJSON(t, app, "GET", "/api/quotes/daily", token, nil)
	var second models.Quote
	decode(t, resp, &second)
	assert.Equal(t, first.ID, second.ID)

	// Category filter
	resp = doJSON(t, app, "GET", "/api/quotes/daily?category=habits", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var habitQuote models.Quote
	decode(t, resp, &habitQuote)
	assert.Equal(t, "habits", habitQuote.Category)

	// Random returns something
	resp = doJSON(t, app, "GET", "/api/quotes/random", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var random models.Quote
	decode(t, resp, &random)
	assert.NotEmpty(t, random.Text)
}

func TestActivityFeed(t *testing.T) {
	app := setupApp(t)
	token, _ := registerUser(t, app, "theo@example.com", "Theo")

	resp := doJSON(t, app, "POST", "/api/habits/", token, models.CreateHabitRequest{Title: "Journal"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var habit models.Habit
	decode(t, resp, &habit)

	resp = doJSON(t, app, "POST", fmt.Sprintf("/api/habits/%s/complete", habit.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/activity", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var feed struct {
		Activities []models.Activity `json:"activities"`
		Total      int               `json:"total"`
	}
	decode(t, resp, &feed)
	require.NotEmpty(t, feed.Activities)
	assert.Equal(t, "habit_completed", feed.Activities[0].ActionType)
}
