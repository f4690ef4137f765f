package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/zluffi/zluffi-backend/internal/dto"
	"github.com/zluffi/zluffi-backend/internal/middleware"
	"github.com/zluffi/zluffi-backend/internal/services"
)

type ModerationHandler struct {
	moderationService *services.ModerationService
}

func NewModerationHandler(moderationService *services.ModerationService) *ModerationHandler {
	return &ModerationHandler{moderationService: moderationService}
}

func (h *ModerationHandler) CreateReport(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateReportRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	report, err := h.moderationService.CreateReport(userID, &req)
	if err != nil {
		if handled, werr := validationError(c, err); handled {
			return werr
		}
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create report")
	}
	return c.Status(fiber.StatusCreated).JSON(report)
}

func (h *ModerationHandler) BlockUser(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.BlockUserRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	block, err := h.moderationService.BlockUser(userID, req.BlockedID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfBlock):
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			return errorJSON(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrAlreadyBlocked):
			return errorJSON(c, fiber.StatusConflict, err.Error())
		default:
			return errorJSON(c, fiber.StatusInternalServerError, "Failed to block user")
		}
	}
	return c.Status(fiber.StatusCreated).JSON(dto.BlockResponse{ID: block.ID, BlockedID: block.BlockedID})
}

func (h *ModerationHandler) UnblockUser(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	blockID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid block ID")
	}

	if err := h.moderationService.UnblockUser(userID, blockID); err != nil {
		if errors.Is(err, services.ErrBlockNotFound) {
			return errorJSON(c, fiber.StatusNotFound, err.Error())
		}
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to unblock user")
	}
	return c.JSON(dto.MessageResponse{Message: "User unblocked"})
}

func (h *ModerationHandler) ListReports(c *fiber.Ctx) error {
	reports, err := h.moderationService.ListReports(c.Query("status"))
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to list reports")
	}
	return c.JSON(fiber.Map{"reports": reports})
}

func (h *ModerationHandler) ActionReport(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid report ID")
	}

	var req dto.ActionReportRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	report, err := h.moderationService.ActionReport(id, &req)
	if err != nil {
		if handled, werr := validationError(c, err); handled {
			return werr
		}
		if errors.Is(err, services.ErrReportNotFound) {
			return errorJSON(c, fiber.StatusNotFound, err.Error())
		}
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to update report")
	}
	return c.JSON(report)
}
