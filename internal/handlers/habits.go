package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mindreminder/mindreminder-api/internal/database"
	"github.com/mindreminder/mindreminder-api/internal/middleware"
	"github.com/mindreminder/mindreminder-api/internal/models"
	"github.com/mindreminder/mindreminder-api/internal/tracker"
)

// GetHabits returns the user's active habits with their completion state for
// today. Pass ?all=true to list every habit, including inactive ones.
func GetHabits(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	if c.Query("all") == "true" {
		var habits []models.Habit
		if err := database.DB.Where("user_id = ?", userID).
			Order("created_at ASC").
			Find(&habits).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to fetch habits",
			})
		}
		return c.JSON(habits)
	}

	statuses, err := tracker.New(database.DB).ListActiveWithTodayStatus(c.Context(), userID)
	if err != nil {
		return trackerError(c, err)
	}
	return c.JSON(statuses)
}

func CreateHabit(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateHabitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}

	category := req.Category
	if category == "" {
		category = "general"
	}

	habit := models.Habit{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    category,
		Duration:    req.Duration,
		Frequency:   req.Frequency,
		IsActive:    true,
	}

	if err := database.DB.Create(&habit).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create habit",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(habit)
}

func GetHabit(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	habitID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid habit ID",
		})
	}

	var habit models.Habit
	if err := database.DB.Where("id = ? AND user_id = ?", habitID, userID).First(&habit).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Habit not found",
		})
	}

	return c.JSON(habit)
}

// UpdateHabit edits habit fields. Streak counters are owned by the tracker
// and cannot be written through this path.
func UpdateHabit(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	habitID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid habit ID",
		})
	}

	var habit models.Habit
	if err := database.DB.Where("id = ? AND user_id = ?", habitID, userID).First(&habit).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Habit not found",
		})
	}

	var req models.UpdateHabitRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title != nil {
		if *req.Title == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Title cannot be empty",
			})
		}
		habit.Title = *req.Title
	}
	if req.Description != nil {
		habit.Description = req.Description
	}
	if req.Category != nil {
		habit.Category = *req.Category
	}
	if req.Duration != nil {
		habit.Duration = *req.Duration
	}
	if req.Frequency != nil {
		habit.Frequency = *req.Frequency
	}
	if req.IsActive != nil {
		habit.IsActive = *req.IsActive
	}

	if err := database.DB.Save(&habit).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update habit",
		})
	}

	return c.JSON(habit)
}

// DeleteHabit hard-deletes a habit and its completion log.
func DeleteHabit(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	habitID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid habit ID",
		})
	}

	var habit models.Habit
	if err := database.DB.Where("id = ? AND user_id = ?", habitID, userID).First(&habit).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Habit not found",
		})
	}

	database.DB.Where("habit_id = ?", habitID).Delete(&models.HabitCompletion{})

	if err := database.DB.Unscoped().Delete(&habit).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete habit",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// CompleteHabit marks a habit done for a day (today by default). A repeat
// call for the same day returns 409 so clients can tell "already done" from
// success.
func CompleteHabit(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	habitID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid habit ID",
		})
	}

	var req models.CompleteHabitRequest
	c.BodyParser(&req) // optional body

	habit, err := tracker.New(database.DB).Complete(c.Context(), userID, habitID, req.Day, req.Note)
	if err != nil {
		return trackerError(c, err)
	}

	LogActivity(userID, "habit_completed", &habit.ID, map[string]interface{}{
		"habitTitle":    habit.Title,
		"currentStreak": habit.CurrentStreak,
	})

	return c.JSON(habit)
}

// UncompleteHabit removes today's completion record. Only the current day can
// be reversed.
func UncompleteHabit(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	habitID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid habit ID",
		})
	}

	habit, err := tracker.New(database.DB).Uncomplete(c.Context(), userID, habitID, c.Query("day"))
	if err != nil {
		return trackerError(c, err)
	}

	LogActivity(userID, "habit_uncompleted", &habit.ID, map[string]interface{}{
		"habitTitle": habit.Title,
	})

	return c.JSON(habit)
}

// GetHabitStreak returns the streak snapshot for one habit.
func GetHabitStreak(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	habitID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid habit ID",
		})
	}

	snap, err := tracker.New(database.DB).Snapshot(c.Context(), userID, habitID)
	if err != nil {
		return trackerError(c, err)
	}

	return c.JSON(snap)
}

// GetHabitCompletions returns the paginated completion log for a habit.
func GetHabitCompletions(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	habitID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid habit ID",
		})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "30"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 30
	}
	offset := (page - 1) * limit

	completions, total, err := tracker.New(database.DB).Completions(c.Context(), userID, habitID, limit, offset)
	if err != nil {
		return trackerError(c, err)
	}

	return c.JSON(fiber.Map{
		"completions": completions,
		"total":       total,
		"page":        page,
		"limit":       limit,
	})
}

// trackerError maps the tracker's error taxonomy onto HTTP statuses.
func trackerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, tracker.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Habit not found",
		})
	case errors.Is(err, tracker.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have access to this habit",
		})
	case errors.Is(err, tracker.ErrAlreadyCompleted):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Habit already completed for this day",
		})
	case errors.Is(err, tracker.ErrNotCompletedToday):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "No completion to remove for today",
		})
	case errors.Is(err, tracker.ErrHabitInactive):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Habit is inactive",
		})
	case errors.Is(err, tracker.ErrInvalidDay):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid day, expected YYYY-MM-DD",
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update habit",
		})
	}
}
