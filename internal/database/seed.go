package database

import "github.com/mindreminder/mindreminder-api/internal/models"

var starterQuotes = []models.Quote{
	{Text: "We are what we repeatedly do. Excellence, then, is not an act, but a habit.", Author: "Will Durant", Category: "habits"},
	{Text: "Small daily improvements over time lead to stunning results.", Author: "Robin Sharma", Category: "habits"},
	{Text: "Motivation is what gets you started. Habit is what keeps you going.", Author: "Jim Ryun", Category: "habits"},
	{Text: "Success is the sum of small efforts, repeated day in and day out.", Author: "Robert Collier", Category: "habits"},
	{Text: "The secret of getting ahead is getting started.", Author: "Mark Twain", Category: "motivation"},
	{Text: "It does not matter how slowly you go as long as you do not stop.", Author: "Confucius", Category: "motivation"},
	{Text: "Well done is better than well said.", Author: "Benjamin Franklin", Category: "motivation"},
	{Text: "You don't have to be great to start, but you have to start to be great.", Author: "Zig Ziglar", Category: "motivation"},
	{Text: "The best time to plant a tree was twenty years ago. The second best time is now.", Author: "", Category: "general"},
	{Text: "A journey of a thousand miles begins with a single step.", Author: "Lao Tzu", Category: "general"},
	{Text: "What you do every day matters more than what you do once in a while.", Author: "Gretchen Rubin", Category: "general"},
	{Text: "Lost time is never found again.", Author: "Benjamin Franklin", Category: "focus"},
	{Text: "Concentrate all your thoughts upon the work in hand.", Author: "Alexander Graham Bell", Category: "focus"},
	{Text: "The mind is everything. What you think you become.", Author: "Buddha", Category: "mindfulness"},
	{Text: "Be where you are; otherwise you will miss your life.", Author: "Buddha", Category: "mindfulness"},
}

// SeedQuotes inserts the starter quote set. Safe to call on every boot: the
// unique index on quote text makes repeats no-ops.
func SeedQuotes() error {
	for _, q := range starterQuotes {
		var count int64
		if err := DB.Model(&models.Quote{}).Where("text = ?", q.Text).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		quote := q
		if err := DB.Create(&quote).Error; err != nil {
			return err
		}
	}
	return nil
}
