package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mindreminder/mindreminder-api/internal/database"
	"github.com/mindreminder/mindreminder-api/internal/middleware"
	"github.com/mindreminder/mindreminder-api/internal/models"
)

// quoteNow is the clock behind the daily rotation, swapped out by tests.
var quoteNow = time.Now

// GetDailyQuote returns a deterministic quote for the current UTC day. The
// pick rotates through the category's quotes so every client sees the same
// quote on the same day.
func GetDailyQuote(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	category := c.Query("category")
	if category == "" {
		var settings models.Settings
		if err := database.DB.Where("user_id = ?", userID).First(&settings).Error; err == nil {
			category = settings.QuoteCategory
		}
	}

	filtered := category != "" && category != "general"

	var count int64
	countQuery := database.DB.Model(&models.Quote{})
	if filtered {
		countQuery = countQuery.Where("category = ?", category)
	}
	if err := countQuery.Count(&count).Error; err != nil || count == 0 {
		// Fall back to the full pool when the category is empty
		filtered = false
		if err := database.DB.Model(&models.Quote{}).Count(&count).Error; err != nil || count == 0 {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No quotes available",
			})
		}
	}

	dayNumber := quoteNow().UTC().Unix() / 86400
	offset := int(dayNumber % count)

	fetch := database.DB.Order("text ASC").Offset(offset)
	if filtered {
		fetch = fetch.Where("category = ?", category)
	}

	var quote models.Quote
	if err := fetch.First(&quote).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch quote",
		})
	}

	return c.JSON(quote)
}

// GetRandomQuote returns a random quote, optionally filtered by category.
func GetRandomQuote(c *fiber.Ctx) error {
	query := database.DB
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var quote models.Quote
	// RANDOM() is understood by both SQLite and PostgreSQL
	if err := query.Order("RANDOM()").First(&quote).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No quotes available",
		})
	}

	return c.JSON(quote)
}
