package handlers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/zluffi/zluffi-backend/internal/config"
	"github.com/zluffi/zluffi-backend/internal/dto"
	"github.com/zluffi/zluffi-backend/internal/middleware"
)

type UploadHandler struct {
	cfg *config.Config
}

func NewUploadHandler(cfg *config.Config) *UploadHandler {
	return &UploadHandler{cfg: cfg}
}

// Upload handles POST /upload - multipart listing image upload, served
// back under /uploads.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "No file provided")
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return errorJSON(c, fiber.StatusBadRequest, "Only image files are allowed")
	}
	if file.Size > h.cfg.MaxUploadSize {
		return errorJSON(c, fiber.StatusBadRequest, "File size should not exceed 5MB")
	}

	fileExt := filepath.Ext(file.Filename)
	if fileExt == "" {
		fileExt = ".jpg"
	}
	filename := fmt.Sprintf("%s_%s%s", userID.String()[:8], uuid.New().String()[:8], fileExt)

	savePath := filepath.Join(h.cfg.UploadDir, filename)
	if err := c.SaveFile(file, savePath); err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to upload image")
	}

	return c.JSON(dto.UploadResponse{
		URL:      "/uploads/" + filename,
		PublicID: filename,
	})
}
