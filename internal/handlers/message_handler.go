package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/zluffi/zluffi-backend/internal/dto"
	"github.com/zluffi/zluffi-backend/internal/middleware"
	"github.com/zluffi/zluffi-backend/internal/services"
)

type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(messageService *services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// Conversations handles GET /messages - the user's inbox.
func (h *MessageHandler) Conversations(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	conversations, err := h.messageService.Conversations(userID)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch conversations")
	}
	return c.JSON(dto.ConversationsResponse{Conversations: conversations})
}

// Send handles POST /messages.
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	id, err := h.messageService.Send(userID, &req)
	if err != nil {
		if handled, werr := validationError(c, err); handled {
			return werr
		}
		switch {
		case errors.Is(err, services.ErrListingNotFound):
			return errorJSON(c, fiber.StatusNotFound, "Listing not found")
		case errors.Is(err, services.ErrReceiverNotFound):
			return errorJSON(c, fiber.StatusNotFound, "Receiver not found")
		case errors.Is(err, services.ErrBlockedPair):
			return errorJSON(c, fiber.StatusForbidden, err.Error())
		default:
			return errorJSON(c, fiber.StatusInternalServerError, "Failed to send message")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(dto.SendMessageResponse{
		Message: "Message sent successfully",
		ID:      id,
	})
}

// Thread handles GET /messages/:id where :id is `otherUserId_listingId`.
// Fetching a thread marks the caller's incoming messages in it as read.
func (h *MessageHandler) Thread(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	otherUserID, listingID, err := services.ParseConversationKey(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid conversation ID")
	}

	resp, err := h.messageService.Thread(userID, otherUserID, listingID)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch messages")
	}
	return c.JSON(resp)
}
