package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mindreminder/mindreminder-api/internal/database"
	"github.com/mindreminder/mindreminder-api/internal/middleware"
	"github.com/mindreminder/mindreminder-api/internal/models"
)

var validRecurrences = map[string]bool{"none": true, "daily": true, "weekly": true, "monthly": true}

func GetReminders(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	query := database.DB.Where("user_id = ?", userID)
	if c.Query("active") == "true" {
		query = query.Where("is_active = ?", true)
	}

	var reminders []models.Reminder
	if err := query.Order("remind_at ASC, created_at DESC").Find(&reminders).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch reminders",
		})
	}

	return c.JSON(reminders)
}

func CreateReminder(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateReminderRequest
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

	recurrence := req.Recurrence
	if recurrence == "" {
		recurrence = "none"
	}
	if !validRecurrences[recurrence] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Recurrence must be none, daily, weekly, or monthly",
		})
	}

	reminder := models.Reminder{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		RemindAt:    req.RemindAt,
		Location:    req.Location,
		Recurrence:  recurrence,
		IsActive:    true,
	}

	if err := database.DB.Create(&reminder).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create reminder",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(reminder)
}

func GetReminder(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	reminderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid reminder ID",
		})
	}

	var reminder models.Reminder
	if err := database.DB.Where("id = ? AND user_id = ?", reminderID, userID).First(&reminder).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Reminder not found",
		})
	}

	return c.JSON(reminder)
}

func UpdateReminder(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	reminderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid reminder ID",
		})
	}

	var reminder models.Reminder
	if err := database.DB.Where("id = ? AND user_id = ?", reminderID, userID).First(&reminder).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Reminder not found",
		})
	}

	var req models.UpdateReminderRequest
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
		reminder.Title = *req.Title
	}
	if req.Description != nil {
		reminder.Description = req.Description
	}
	if req.RemindAt != nil {
		reminder.RemindAt = req.RemindAt
	}
	if req.Location != nil {
		reminder.Location = req.Location
	}
	if req.Recurrence != nil {
		if !validRecurrences[*req.Recurrence] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Recurrence must be none, daily, weekly, or monthly",
			})
		}
		reminder.Recurrence = *req.Recurrence
	}
	if req.IsActive != nil {
		reminder.IsActive = *req.IsActive
	}

	if err := database.DB.Save(&reminder).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update reminder",
		})
	}

	return c.JSON(reminder)
}

func DeleteReminder(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	reminderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid reminder ID",
		})
	}

	var reminder models.Reminder
	if err := database.DB.Where("id = ? AND user_id = ?", reminderID, userID).First(&reminder).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Reminder not found",
		})
	}

	database.DB.Where("reminder_id = ?", reminderID).Delete(&models.SharedReminder{})

	if err := database.DB.Unscoped().Delete(&reminder).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete reminder",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// ShareReminder shares an owned reminder with an accepted friend.
func ShareReminder(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	reminderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid reminder ID",
		})
	}

	var req models.ShareReminderRequest
	if err := c.BodyParser(&req); err != nil || req.UserID == uuid.Nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User ID is required",
		})
	}

	var reminder models.Reminder
	if err := database.DB.Where("id = ? AND user_id = ?", reminderID, userID).First(&reminder).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Reminder not found",
		})
	}

	if !areFriends(userID, req.UserID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You can only share reminders with friends",
		})
	}

	var existing models.SharedReminder
	if err := database.DB.Where("reminder_id = ? AND user_id = ?", reminderID, req.UserID).
		First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Reminder already shared with this user",
		})
	}

	share := models.SharedReminder{
		ReminderID: reminderID,
		OwnerID:    userID,
		UserID:     req.UserID,
	}
	if err := database.DB.Create(&share).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to share reminder",
		})
	}

	LogActivity(userID, "reminder_shared", &reminderID, map[string]interface{}{
		"reminderTitle": reminder.Title,
		"sharedWith":    req.UserID.String(),
	})

	var owner models.User
	database.DB.First(&owner, userID)
	name := owner.DisplayName
	if name == "" {
		name = owner.Name
	}
	CreateNotification(req.UserID, "reminder_shared",
		"Reminder shared with you",
		name+" shared \""+reminder.Title+"\" with you",
		map[string]interface{}{"reminderId": reminderID.String()},
	)

	return c.Status(fiber.StatusCreated).JSON(share)
}

// RevokeReminderShare removes a share the caller created.
func RevokeReminderShare(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	reminderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid reminder ID",
		})
	}
	targetID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	result := database.DB.Where("reminder_id = ? AND owner_id = ? AND user_id = ?",
		reminderID, userID, targetID).Delete(&models.SharedReminder{})
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Share not found",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetSharedReminders lists reminders other users shared with the caller.
func GetSharedReminders(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var shares []models.SharedReminder
	database.DB.Where("user_id = ?", userID).
		Preload("Reminder").
		Preload("Owner").
		Order("created_at DESC").
		Find(&shares)

	type sharedReminderView struct {
		ID       uuid.UUID            `json:"id"`
		Reminder models.Reminder      `json:"reminder"`
		Owner    models.PublicProfile `json:"owner"`
	}

	result := make([]sharedReminderView, 0, len(shares))
	for _, s := range shares {
		result = append(result, sharedReminderView{
			ID:       s.ID,
			Reminder: s.Reminder,
			Owner:    s.Owner.Public(),
		})
	}

	return c.JSON(result)
}
