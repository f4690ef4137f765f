package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/zluffi/zluffi-backend/internal/dto"
	"github.com/zluffi/zluffi-backend/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		if handled, werr := validationError(c, err); handled {
			return werr
		}
		if errors.Is(err, services.ErrEmailTaken) {
			return errorJSON(c, fiber.StatusConflict, err.Error())
		}
		return errorJSON(c, fiber.StatusInternalServerError, "Registration failed")
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return errorJSON(c, fiber.StatusUnauthorized, err.Error())
		}
		return errorJSON(c, fiber.StatusInternalServerError, "Login failed")
	}

	return c.JSON(resp)
}

// RequestOTP handles POST /otp - issues and delivers a one-time code.
func (h *AuthHandler) RequestOTP(c *fiber.Ctx) error {
	var req dto.RequestOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	if err := h.authService.RequestCode(c.Context(), req.PhoneNumber); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPhone):
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrCooldownActive):
			return errorJSON(c, fiber.StatusTooManyRequests, err.Error())
		case errors.Is(err, services.ErrDeliveryFailed):
			return errorJSON(c, fiber.StatusInternalServerError, err.Error())
		default:
			return errorJSON(c, fiber.StatusInternalServerError, "Failed to send OTP")
		}
	}

	return c.JSON(dto.MessageResponse{Message: "OTP sent successfully"})
}

// VerifyOTP handles PUT /otp - validates the code and opens a session.
func (h *AuthHandler) VerifyOTP(c *fiber.Ctx) error {
	var req dto.VerifyOTPRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.PhoneNumber == "" || req.OTP == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Phone number and OTP are required")
	}

	resp, err := h.authService.VerifyCode(c.Context(), req.PhoneNumber, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			return errorJSON(c, fiber.StatusNotFound, err.Error())
		case errors.Is(err, services.ErrInvalidCode), errors.Is(err, services.ErrCodeExpired):
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		default:
			return errorJSON(c, fiber.StatusInternalServerError, "Failed to verify OTP")
		}
	}

	return c.JSON(resp)
}

func (h *AuthHandler) GoogleSignIn(c *fiber.Ctx) error {
	var req dto.GoogleSignInRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	resp, err := h.authService.GoogleSignIn(&req)
	if err != nil {
		if errors.Is(err, services.ErrOAuthDenied) {
			return errorJSON(c, fiber.StatusUnauthorized, err.Error())
		}
		return errorJSON(c, fiber.StatusInternalServerError, "Sign-in failed")
	}

	return c.JSON(resp)
}
