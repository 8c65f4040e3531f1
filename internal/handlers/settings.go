package handlers

import (
	"errors"
	"regexp"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mindreminder/mindreminder-api/internal/database"
	"github.com/mindreminder/mindreminder-api/internal/middleware"
	"github.com/mindreminder/mindreminder-api/internal/models"
	"gorm.io/gorm"
)

var reminderTimeRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

var validThemes = map[string]bool{"light": true, "dark": true, "system": true}

// GetSettings returns the user's settings, or defaults if none saved yet.
func GetSettings(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var settings models.Settings
	err := database.DB.Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(models.DefaultSettings(userID))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch settings",
		})
	}

	return c.JSON(settings)
}

// UpdateSettings upserts the user's settings row.
func UpdateSettings(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.DailyReminderTime != nil && !reminderTimeRe.MatchString(*req.DailyReminderTime) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Reminder time must be HH:MM",
		})
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown timezone",
			})
		}
	}
	if req.Theme != nil && !validThemes[*req.Theme] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Theme must be light, dark, or system",
		})
	}

	var settings models.Settings
	err := database.DB.Where("user_id = ?", userID).First(&settings).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to fetch settings",
			})
		}
		settings = models.DefaultSettings(userID)
	}

	if req.NotificationsEnabled != nil {
		settings.NotificationsEnabled = *req.NotificationsEnabled
	}
	if req.DailyReminderTime != nil {
		settings.DailyReminderTime = *req.DailyReminderTime
	}
	if req.Timezone != nil {
		settings.Timezone = *req.Timezone
	}
	if req.Theme != nil {
		settings.Theme = *req.Theme
	}
	if req.QuoteCategory != nil {
		settings.QuoteCategory = *req.QuoteCategory
	}

	if err := database.DB.Save(&settings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save settings",
		})
	}

	return c.JSON(settings)
}
