package services

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/zluffi/zluffi-backend/internal/dto"
	"github.com/zluffi/zluffi-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrFavoriteConflict = errors.New("favorite was changed by a concurrent request")
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
	maxPriceCap  = 1000000
)

type ListingService struct {
	db *gorm.DB
}

func NewListingService(db *gorm.DB) *ListingService {
	return &ListingService{db: db}
}

// Create validates and inserts a listing with its images in one
// transaction, preserving the client-supplied image order.
func (s *ListingService) Create(userID uuid.UUID, req *dto.CreateListingRequest) (uint64, error) {
	v := &ValidationError{}
	if n := utf8.RuneCountInString(req.Title); n < 5 || n > 100 {
		v.add("title", "title must be between 5 and 100 characters")
	}
	if n := utf8.RuneCountInString(req.Description); n < 20 || n > 2000 {
		v.add("description", "description must be between 20 and 2000 characters")
	}
	if req.Price <= 0 {
		v.add("price", "price must be positive")
	}
	if !models.ValidCondition(req.Condition) {
		v.add("condition", "condition must be one of: new, like-new, good, fair, poor")
	}
	if utf8.RuneCountInString(req.Location) < 3 {
		v.add("location", "location must be at least 3 characters")
	}
	if req.CategoryID == 0 {
		v.add("categoryId", "category is required")
	}
	if len(req.Images) < 1 || len(req.Images) > 5 {
		v.add("images", "between 1 and 5 images are required")
	} else {
		for _, img := range req.Images {
			u, err := url.Parse(img)
			if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
				v.add("images", "each image must be a valid URL")
				break
			}
		}
	}
	if req.CategoryID != 0 {
		var cat models.Category
		if err := s.db.First(&cat, "id = ?", req.CategoryID).Error; err != nil {
			v.add("categoryId", "category not found")
		}
	}
	if err := v.orNil(); err != nil {
		return 0, err
	}

	listing := models.Listing{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Condition:   req.Condition,
		Location:    req.Location,
		CategoryID:  req.CategoryID,
		UserID:      userID,
		Status:      models.ListingStatusActive,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&listing).Error; err != nil {
			return err
		}
		images := make([]models.ListingImage, 0, len(req.Images))
		for i, imageURL := range req.Images {
			images = append(images, models.ListingImage{
				ListingID:  listing.ID,
				ImageURL:   imageURL,
				OrderIndex: i,
			})
		}
		return tx.Create(&images).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create listing: %w", err)
	}
	return listing.ID, nil
}

// List returns active listings, newest first.
func (s *ListingService) List(page, limit int) (*dto.ListingsResponse, error) {
	return s.query(s.db.Model(&models.Listing{}).Where("status = ?", models.ListingStatusActive), page, limit)
}

// Search applies the free-text and attribute filters on top of the
// active-listing query. Zero-valued filters are skipped.
func (s *ListingService) Search(q *dto.SearchQuery) (*dto.ListingsResponse, error) {
	minPrice := q.MinPrice
	maxPrice := q.MaxPrice
	if maxPrice <= 0 {
		maxPrice = maxPriceCap
	}

	tx := s.db.Model(&models.Listing{}).
		Where("listings.status = ?", models.ListingStatusActive).
		Where("listings.price >= ? AND listings.price <= ?", minPrice, maxPrice)

	if q.Query != "" {
		// LOWER on both sides keeps matching case-insensitive on
		// Postgres, where plain LIKE is exact-case.
		pattern := "%" + strings.ToLower(q.Query) + "%"
		tx = tx.Where("LOWER(listings.title) LIKE ? OR LOWER(listings.description) LIKE ?", pattern, pattern)
	}
	if q.Category != "" {
		tx = tx.Joins("JOIN categories ON categories.id = listings.category_id").
			Where("categories.slug = ?", q.Category)
	}
	if q.Location != "" {
		tx = tx.Where("LOWER(listings.location) LIKE ?", "%"+strings.ToLower(q.Location)+"%")
	}
	if q.Condition != "" {
		tx = tx.Where("listings.condition = ?", q.Condition)
	}

	return s.query(tx, q.Page, q.Limit)
}

func (s *ListingService) query(tx *gorm.DB, page, limit int) (*dto.ListingsResponse, error) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count listings: %w", err)
	}

	var listings []models.Listing
	err := tx.
		Preload("User").
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("order_index") }).
		Order("listings.created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}

	cards := make([]dto.ListingCard, 0, len(listings))
	for _, l := range listings {
		card := dto.ListingCard{
			ID:           l.ID,
			Title:        l.Title,
			Price:        l.Price,
			Condition:    l.Condition,
			Location:     l.Location,
			CreatedAt:    l.CreatedAt,
			CategoryName: l.Category.Name,
		}
		if l.User.Name != nil {
			card.SellerName = *l.User.Name
		}
		if len(l.Images) > 0 {
			card.ImageURL = l.Images[0].ImageURL
		}
		cards = append(cards, card)
	}

	return &dto.ListingsResponse{
		Listings:   cards,
		Pagination: dto.NewPagination(page, limit, total),
	}, nil
}

// Get returns an active listing with ordered images and bumps its view
// counter. The returned view count includes the increment.
func (s *ListingService) Get(id uint64) (*dto.ListingDetail, error) {
	var listing models.Listing
	err := s.db.
		Preload("User").
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("order_index") }).
		Where("id = ? AND status = ?", id, models.ListingStatusActive).
		First(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrListingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}

	if err := s.db.Model(&models.Listing{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
		return nil, fmt.Errorf("failed to increment views: %w", err)
	}

	images := make([]string, 0, len(listing.Images))
	for _, img := range listing.Images {
		images = append(images, img.ImageURL)
	}

	detail := &dto.ListingDetail{
		ID:           listing.ID,
		Title:        listing.Title,
		Description:  listing.Description,
		Price:        listing.Price,
		Condition:    listing.Condition,
		Location:     listing.Location,
		CategoryName: listing.Category.Name,
		SellerID:     listing.UserID.String(),
		CreatedAt:    listing.CreatedAt,
		Views:        listing.Views + 1,
		Images:       images,
	}
	if listing.User.Name != nil {
		detail.SellerName = *listing.User.Name
	}
	return detail, nil
}

// ToggleFavorite flips the (user, listing) favorite: present rows are
// removed, absent rows are added. Returns true when the listing ended
// up favorited. The check-then-act pair is not transactional; the
// unique index turns a lost race into ErrFavoriteConflict.
func (s *ListingService) ToggleFavorite(userID uuid.UUID, listingID uint64) (bool, error) {
	var listing models.Listing
	if err := s.db.Select("id").First(&listing, "id = ?", listingID).Error; err != nil {
		return false, ErrListingNotFound
	}

	var fav models.Favorite
	err := s.db.Where("user_id = ? AND listing_id = ?", userID, listingID).First(&fav).Error
	if err == nil {
		if err := s.db.Delete(&fav).Error; err != nil {
			return false, fmt.Errorf("failed to remove favorite: %w", err)
		}
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, fmt.Errorf("failed to look up favorite: %w", err)
	}

	fav = models.Favorite{ID: uuid.New(), UserID: userID, ListingID: listingID}
	if err := s.db.Create(&fav).Error; err != nil {
		if isDuplicateErr(err) {
			return false, ErrFavoriteConflict
		}
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}
	return true, nil
}

// Categories returns all categories ordered by id; parentOnly filters
// to top-level ones.
func (s *ListingService) Categories(parentOnly bool) ([]models.Category, error) {
	tx := s.db.Order("id")
	if parentOnly {
		tx = tx.Where("parent_id IS NULL")
	}
	var categories []models.Category
	if err := tx.Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}
