package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mindreminder/mindreminder-api/internal/database"
	"github.com/mindreminder/mindreminder-api/internal/middleware"
	"github.com/mindreminder/mindreminder-api/internal/models"
	"gorm.io/gorm"
)

// SendFriendRequest creates a pending friendship row addressed to the user
// with the given email.
func SendFriendRequest(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.FriendRequestRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email is required",
		})
	}

	var target models.User
	if err := database.DB.Where("email = ?", req.Email).First(&target).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No user with that email",
		})
	}

	if target.ID == userID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "You cannot befriend yourself",
		})
	}

	// Any existing row in either direction blocks a new request. The unique
	// index only covers one direction, so the lookup must not be skipped on
	// a store error.
	var existing models.Friendship
	err := database.DB.Where(
		"(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
		userID, target.ID, target.ID, userID,
	).First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to send friend request",
		})
	}
	if err == nil {
		switch existing.Status {
		case models.FriendshipBlocked:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Cannot send a friend request to this user",
			})
		case models.FriendshipAccepted:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "You are already friends",
			})
		default:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "A friend request is already pending",
			})
		}
	}

	friendship := models.Friendship{
		RequesterID: userID,
		AddresseeID: target.ID,
		Status:      models.FriendshipPending,
	}
	if err := database.DB.Create(&friendship).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to send friend request",
		})
	}

	var requester models.User
	database.DB.First(&requester, userID)
	name := requester.DisplayName
	if name == "" {
		name = requester.Name
	}
	CreateNotification(target.ID, "friend_request",
		"New friend request",
		name+" wants to be your friend",
		map[string]interface{}{"friendshipId": friendship.ID.String()},
	)

	return c.Status(fiber.StatusCreated).JSON(friendship)
}

// RespondFriendRequest accepts or declines a pending request (addressee only)
func RespondFriendRequest(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	friendshipID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid friendship ID",
		})
	}

	var req struct {
		Action string `json:"action"` // accept or decline
	}
	if err := c.BodyParser(&req); err != nil || (req.Action != "accept" && req.Action != "decline") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Action must be accept or decline",
		})
	}

	var friendship models.Friendship
	if err := database.DB.Where("id = ? AND addressee_id = ? AND status = ?",
		friendshipID, userID, models.FriendshipPending).First(&friendship).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Friend request not found",
		})
	}

	if req.Action == "decline" {
		database.DB.Unscoped().Delete(&friendship)
		return c.SendStatus(fiber.StatusNoContent)
	}

	friendship.Status = models.FriendshipAccepted
	if err := database.DB.Save(&friendship).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to accept friend request",
		})
	}

	LogActivity(userID, "friend_accepted", &friendship.RequesterID, nil)

	var accepter models.User
	database.DB.First(&accepter, userID)
	name := accepter.DisplayName
	if name == "" {
		name = accepter.Name
	}
	CreateNotification(friendship.RequesterID, "friend_accepted",
		"Friend request accepted",
		name+" accepted your friend request",
		map[string]interface{}{"userId": userID.String()},
	)

	return c.JSON(friendship)
}

// GetFriends lists accepted friendships from either direction.
func GetFriends(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var friendships []models.Friendship
	database.DB.Where("(requester_id = ? OR addressee_id = ?) AND status = ?",
		userID, userID, models.FriendshipAccepted).
		Preload("Requester").
		Preload("Addressee").
		Find(&friendships)

	result := make([]models.FriendInfo, 0, len(friendships))
	for _, f := range friendships {
		other := f.Requester
		if f.RequesterID == userID {
			other = f.Addressee
		}
		result = append(result, models.FriendInfo{
			FriendshipID: f.ID,
			Status:       f.Status,
			Since:        f.UpdatedAt,
			User:         other.Public(),
		})
	}

	return c.JSON(result)
}

// GetFriendRequests lists the user's pending requests, incoming and outgoing.
func GetFriendRequests(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var incoming []models.Friendship
	database.DB.Where("addressee_id = ? AND status = ?", userID, models.FriendshipPending).
		Preload("Requester").
		Find(&incoming)

	var outgoing []models.Friendship
	database.DB.Where("requester_id = ? AND status = ?", userID, models.FriendshipPending).
		Preload("Addressee").
		Find(&outgoing)

	in := make([]models.FriendInfo, 0, len(incoming))
	for _, f := range incoming {
		in = append(in, models.FriendInfo{
			FriendshipID: f.ID,
			Status:       f.Status,
			Since:        f.CreatedAt,
			User:         f.Requester.Public(),
		})
	}
	out := make([]models.FriendInfo, 0, len(outgoing))
	for _, f := range outgoing {
		out = append(out, models.FriendInfo{
			FriendshipID: f.ID,
			Status:       f.Status,
			Since:        f.CreatedAt,
			User:         f.Addressee.Public(),
		})
	}

	return c.JSON(fiber.Map{
		"incoming": in,
		"outgoing": out,
	})
}

// BlockUser blocks another user. An existing friendship row in either
// direction is taken over; otherwise a new blocked row is created with the
// blocker as requester.
func BlockUser(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	targetID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	if targetID == userID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "You cannot block yourself",
		})
	}

	var target models.User
	if err := database.DB.First(&target, targetID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	var friendship models.Friendship
	err = database.DB.Where(
		"(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
		userID, targetID, targetID, userID,
	).First(&friendship).Error
	if err != nil {
		friendship = models.Friendship{
			RequesterID: userID,
			AddresseeID: targetID,
			Status:      models.FriendshipBlocked,
		}
		if err := database.DB.Create(&friendship).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to block user",
			})
		}
		return c.JSON(friendship)
	}

	// Keep the blocker as requester so unblock authority is unambiguous
	friendship.RequesterID = userID
	friendship.AddresseeID = targetID
	friendship.Status = models.FriendshipBlocked
	if err := database.DB.Save(&friendship).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to block user",
		})
	}

	return c.JSON(friendship)
}

// Unfriend removes an accepted friendship, or lifts a block the caller owns.
func Unfriend(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	targetID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user ID",
		})
	}

	var friendship models.Friendship
	err = database.DB.Where(
		"(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
		userID, targetID, targetID, userID,
	).First(&friendship).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Friendship not found",
		})
	}

	// Only the blocker can remove a block
	if friendship.Status == models.FriendshipBlocked && friendship.RequesterID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Friendship not found",
		})
	}

	if err := database.DB.Unscoped().Delete(&friendship).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to remove friend",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// areFriends reports whether two users have an accepted friendship.
func areFriends(a, b uuid.UUID) bool {
	var friendship models.Friendship
	return database.DB.Where(
		"((requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)) AND status = ?",
		a, b, b, a, models.FriendshipAccepted,
	).First(&friendship).Error == nil
}
