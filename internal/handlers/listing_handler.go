package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/zluffi/zluffi-backend/internal/dto"
	"github.com/zluffi/zluffi-backend/internal/middleware"
	"github.com/zluffi/zluffi-backend/internal/services"
)

type ListingHandler struct {
	listingService *services.ListingService
}

func NewListingHandler(listingService *services.ListingService) *ListingHandler {
	return &ListingHandler{listingService: listingService}
}

// List handles GET /listings - paginated active listings, newest first.
func (h *ListingHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	resp, err := h.listingService.List(page, limit)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch listings")
	}
	return c.JSON(resp)
}

// Create handles POST /listings.
func (h *ListingHandler) Create(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateListingRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid request body")
	}

	id, err := h.listingService.Create(userID, &req)
	if err != nil {
		if handled, werr := validationError(c, err); handled {
			return werr
		}
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to create listing")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.CreateListingResponse{
		Message: "Listing created successfully",
		ID:      id,
	})
}

// Get handles GET /listings/:id.
func (h *ListingHandler) Get(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid listing ID")
	}

	detail, err := h.listingService.Get(id)
	if err != nil {
		if errors.Is(err, services.ErrListingNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Listing not found")
		}
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch listing")
	}
	return c.JSON(detail)
}

// ToggleFavorite handles POST /listings/:id/favorite.
func (h *ListingHandler) ToggleFavorite(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Invalid listing ID")
	}

	added, err := h.listingService.ToggleFavorite(userID, id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrListingNotFound):
			return errorJSON(c, fiber.StatusNotFound, "Listing not found")
		case errors.Is(err, services.ErrFavoriteConflict):
			return errorJSON(c, fiber.StatusConflict, err.Error())
		default:
			return errorJSON(c, fiber.StatusInternalServerError, "Failed to update favorites")
		}
	}

	if added {
		return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "Added to favorites"})
	}
	return c.JSON(dto.MessageResponse{Message: "Removed from favorites"})
}

// Search handles GET /search with free-text and attribute filters.
func (h *ListingHandler) Search(c *fiber.Ctx) error {
	minPrice, _ := strconv.ParseFloat(c.Query("minPrice", "0"), 64)
	maxPrice, _ := strconv.ParseFloat(c.Query("maxPrice", "0"), 64)

	q := dto.SearchQuery{
		Query:     c.Query("q"),
		Category:  c.Query("category"),
		Location:  c.Query("location"),
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		Condition: c.Query("condition"),
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 20),
	}

	resp, err := h.listingService.Search(&q)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to search listings")
	}
	return c.JSON(resp)
}

// Categories handles GET /categories.
func (h *ListingHandler) Categories(c *fiber.Ctx) error {
	parentOnly := c.Query("parentOnly") == "true"

	categories, err := h.listingService.Categories(parentOnly)
	if err != nil {
		return errorJSON(c, fiber.StatusInternalServerError, "Failed to fetch categories")
	}
	return c.JSON(fiber.Map{"categories": categories})
}
