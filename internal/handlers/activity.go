package handlers

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mindreminder/mindreminder-api/internal/database"
	"github.com/mindreminder/mindreminder-api/internal/middleware"
	"github.com/mindreminder/mindreminder-api/internal/models"
)

// GetActivity returns the user's paginated activity feed
func GetActivity(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	// Pagination
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}
	offset := (page - 1) * limit

	var activities []models.Activity
	database.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&activities)

	var total int64
	database.DB.Model(&models.Activity{}).Where("user_id = ?", userID).Count(&total)

	return c.JSON(fiber.Map{
		"activities": activities,
		"total":      total,
		"page":       page,
		"limit":      limit,
	})
}

// LogActivity is a helper to create activity entries from other handlers
func LogActivity(userID uuid.UUID, actionType string, targetID *uuid.UUID, metadata map[string]interface{}) {
	activity := models.Activity{
		UserID:     userID,
		ActionType: actionType,
		TargetID:   targetID,
	}

	if metadata != nil {
		data, err := json.Marshal(metadata)
		if err == nil {
			s := string(data)
			activity.Metadata = &s
		}
	}

	database.DB.Create(&activity)
}
