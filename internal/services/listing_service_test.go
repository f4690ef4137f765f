package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zluffi/zluffi-backend/internal/database"
	"github.com/zluffi/zluffi-backend/internal/dto"
	"github.com/zluffi/zluffi-backend/internal/models"
)

func validListingRequest(categoryID uint64) *dto.CreateListingRequest {
	return &dto.CreateListingRequest{
		Title:       "Vintage road bike",
		Description: "Well maintained steel frame road bike from the early nineties.",
		Price:       250,
		Condition:   "good",
		Location:    "Springfield",
		CategoryID:  categoryID,
		Images:      []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
	}
}

func TestCreateListingValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(db)
	user := createTestUser(t, db, "Seller")

	_, err := svc.Create(user.ID, &dto.CreateListingRequest{
		Title:       "abc",
		Description: "too short",
		Price:       0,
		Condition:   "mint",
		Location:    "ab",
		CategoryID:  0,
		Images:      nil,
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	fields := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"title", "description", "price", "condition", "location", "categoryId", "images"}, fields)
}

func TestCreateListingRejectsBadImages(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(db)
	user := createTestUser(t, db, "Seller")
	cat := createTestCategory(t, db, "Bikes", "bikes")

	req := validListingRequest(cat.ID)
	req.Images = []string{"not-a-url"}
	_, err := svc.Create(user.ID, req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "images", verr.Fields[0].Field)

	req.Images = []string{"https://a.jpg", "https://b.jpg", "https://c.jpg", "https://d.jpg", "https://e.jpg", "https://f.jpg"}
	_, err = svc.Create(user.ID, req)
	require.ErrorAs(t, err, &verr)
}

func TestCreateListingCountsCharactersNotBytes(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(db)
	user := createTestUser(t, db, "Seller")
	cat := createTestCategory(t, db, "Bikes", "bikes")

	// Within the character bounds even though the byte counts are
	// double (Cyrillic is 2 bytes per rune).
	req := validListingRequest(cat.ID)
	req.Title = strings.Repeat("ж", 90)
	req.Description = strings.Repeat("ж", 1500)
	req.Location = "Уфа"

	_, err := svc.Create(user.ID, req)
	require.NoError(t, err)

	req.Description = strings.Repeat("ж", 2001)
	_, err = svc.Create(user.ID, req)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "description", verr.Fields[0].Field)
}

func TestCreateListingUnknownCategory(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(db)
	user := createTestUser(t, db, "Seller")

	_, err := svc.Create(user.ID, validListingRequest(9999))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "categoryId", verr.Fields[0].Field)
}

func TestCreateAndGetListing(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(db)
	user := createTestUser(t, db, "Seller")
	cat := createTestCategory(t, db, "Bikes", "bikes")

	id, err := svc.Create(user.ID, validListingRequest(cat.ID))
	require.NoError(t, err)
	require.NotZero(t, id)

	detail, err := svc.Get(id)
	require.NoError(t, err)
	assert.Equal(t, "Vintage road bike", detail.Title)
	assert.Equal(t, "Bikes", detail.CategoryName)
	assert.Equal(t, "Seller", detail.SellerName)
	assert.Equal(t, user.ID.String(), detail.SellerID)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}, detail.Images)
	assert.Equal(t, 1, detail.Views)

	// Every fetch counts as a view.
	detail, err = svc.Get(id)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.Views)
}

func TestGetHidesInactiveListings(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(db)
	user := createTestUser(t, db, "Seller")
	cat := createTestCategory(t, db, "Bikes", "bikes")
	listing := createTestListing(t, db, user.ID, cat.ID, "Sold bike")

	_, err := svc.Get(listing.ID)
	require.NoError(t, err)

	require.NoError(t, db.Model(listing).Update("status", models.ListingStatusSold).Error)
	_, err = svc.Get(listing.ID)
	assert.ErrorIs(t, err, ErrListingNotFound)

	_, err = svc.Get(123456)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestListPagination(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(db)
	user := createTestUser(t, db, "Seller")
	cat := createTestCategory(t, db, "Bikes", "bikes")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 45; i++ {
		listing := createTestListing(t, db, user.ID, cat.ID, fmt.Sprintf("Listing %02d", i))
		require.NoError(t, db.Model(listing).UpdateColumn("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	page1, err := svc.List(1, 20)
	require.NoError(t, err)
	assert.Len(t, page1.Listings, 20)
	assert.EqualValues(t, 45, page1.Pagination.TotalCount)
	assert.Equal(t, 3, page1.Pagination.TotalPages)
	assert.True(t, page1.Pagination.HasNextPage)
	assert.False(t, page1.Pagination.HasPrevPage)
	// Newest first.
	assert.Equal(t, "Listing 44", page1.Listings[0].Title)

	page3, err := svc.List(3, 20)
	require.NoError(t, err)
	assert.Len(t, page3.Listings, 5)
	assert.False(t, page3.Pagination.HasNextPage)
	assert.True(t, page3.Pagination.HasPrevPage)
	assert.Equal(t, "Listing 00", page3.Listings[4].Title)
}

func TestListDefaultsAndLimitCap(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(db)

	resp, err := svc.List(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Pagination.Page)
	assert.Equal(t, 20, resp.Pagination.Limit)

	resp, err = svc.List(1, 500)
	require.NoError(t, err)
	assert.Equal(t, 100, resp.Pagination.Limit)
}

func TestSearchFilters(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(db)
	user := createTestUser(t, db, "Seller")
	bikes := createTestCategory(t, db, "Bikes", "bikes")
	books := createTestCategory(t, db, "Books", "books")

	bike := createTestListing(t, db, user.ID, bikes.ID, "Fast road bike")
	require.NoError(t, db.Model(bike).Updates(map[string]interface{}{"price": 500, "condition": "like-new", "location": "Portland"}).Error)

	book := createTestListing(t, db, user.ID, books.ID, "Cookbook collection")
	require.NoError(t, db.Model(book).Updates(map[string]interface{}{"price": 30, "condition": "fair"}).Error)

	sold := createTestListing(t, db, user.ID, bikes.ID, "Sold bike")
	require.NoError(t, db.Model(sold).Update("status", models.ListingStatusSold).Error)

	// Free text matches title or description regardless of case.
	resp, err := svc.Search(&dto.SearchQuery{Query: "bike"})
	require.NoError(t, err)
	require.Len(t, resp.Listings, 1)
	assert.Equal(t, "Fast road bike", resp.Listings[0].Title)

	resp, err = svc.Search(&dto.SearchQuery{Query: "BIKE"})
	require.NoError(t, err)
	require.Len(t, resp.Listings, 1)

	resp, err = svc.Search(&dto.SearchQuery{Query: "Cookbook"})
	require.NoError(t, err)
	require.Len(t, resp.Listings, 1)
	assert.Equal(t, "Cookbook collection", resp.Listings[0].Title)

	// Category slug.
	resp, err = svc.Search(&dto.SearchQuery{Category: "books"})
	require.NoError(t, err)
	require.Len(t, resp.Listings, 1)
	assert.Equal(t, "Cookbook collection", resp.Listings[0].Title)

	// Price range.
	resp, err = svc.Search(&dto.SearchQuery{MinPrice: 100, MaxPrice: 1000})
	require.NoError(t, err)
	require.Len(t, resp.Listings, 1)
	assert.Equal(t, "Fast road bike", resp.Listings[0].Title)

	// Condition.
	resp, err = svc.Search(&dto.SearchQuery{Condition: "fair"})
	require.NoError(t, err)
	require.Len(t, resp.Listings, 1)

	// Location substring, case-insensitive.
	resp, err = svc.Search(&dto.SearchQuery{Location: "portl"})
	require.NoError(t, err)
	require.Len(t, resp.Listings, 1)

	// No filters returns everything active.
	resp, err = svc.Search(&dto.SearchQuery{})
	require.NoError(t, err)
	assert.Len(t, resp.Listings, 2)
}

func TestToggleFavorite(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(db)
	user := createTestUser(t, db, "Buyer")
	seller := createTestUser(t, db, "Seller")
	cat := createTestCategory(t, db, "Bikes", "bikes")
	listing := createTestListing(t, db, seller.ID, cat.ID, "Bike")

	favorited, err := svc.ToggleFavorite(user.ID, listing.ID)
	require.NoError(t, err)
	assert.True(t, favorited)

	var count int64
	require.NoError(t, db.Model(&models.Favorite{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	favorited, err = svc.ToggleFavorite(user.ID, listing.ID)
	require.NoError(t, err)
	assert.False(t, favorited)

	require.NoError(t, db.Model(&models.Favorite{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)

	_, err = svc.ToggleFavorite(user.ID, 123456)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestCategories(t *testing.T) {
	db := newTestDB(t)
	svc := NewListingService(db)
	require.NoError(t, database.SeedCategories(db))

	all, err := svc.Categories(false)
	require.NoError(t, err)
	require.NotEmpty(t, all)

	// Seeding is idempotent.
	require.NoError(t, database.SeedCategories(db))
	again, err := svc.Categories(false)
	require.NoError(t, err)
	assert.Len(t, again, len(all))

	child := models.Category{Name: "Road Bikes", Slug: "road-bikes", ParentID: &all[0].ID}
	require.NoError(t, db.Create(&child).Error)

	parents, err := svc.Categories(true)
	require.NoError(t, err)
	assert.Len(t, parents, len(all))
	for _, c := range parents {
		assert.Nil(t, c.ParentID, "category %s should be top-level", c.Slug)
	}
}
