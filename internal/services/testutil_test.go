package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/zluffi/zluffi-backend/internal/config"
	"github.com/zluffi/zluffi-backend/internal/database"
	"github.com/zluffi/zluffi-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A second pooled connection would see a different empty
	// in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		SessionExpiry: 720 * time.Hour,
	}
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	email := fmt.Sprintf("%s@example.com", uuid.NewString()[:8])
	user := models.User{
		ID:           uuid.New(),
		Name:         &name,
		Email:        &email,
		AuthProvider: "email",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestCategory(t *testing.T, db *gorm.DB, name, slug string) *models.Category {
	t.Helper()
	cat := models.Category{Name: name, Slug: slug}
	require.NoError(t, db.Create(&cat).Error)
	return &cat
}

func createTestListing(t *testing.T, db *gorm.DB, userID uuid.UUID, categoryID uint64, title string) *models.Listing {
	t.Helper()
	listing := models.Listing{
		Title:       title,
		Description: "A perfectly serviceable item looking for a new home.",
		Price:       100,
		Condition:   "good",
		Location:    "Springfield",
		CategoryID:  categoryID,
		UserID:      userID,
		Status:      models.ListingStatusActive,
	}
	require.NoError(t, db.Create(&listing).Error)
	return &listing
}

// recordingSender captures codes instead of delivering them.
type recordingSender struct {
	phones []string
	codes  []string
}

func (r *recordingSender) SendVerificationCode(_ context.Context, phone, code string) error {
	r.phones = append(r.phones, phone)
	r.codes = append(r.codes, code)
	return nil
}

func (r *recordingSender) lastCode() string {
	if len(r.codes) == 0 {
		return ""
	}
	return r.codes[len(r.codes)-1]
}

// failingSender simulates a provider outage.
type failingSender struct{}

func (failingSender) SendVerificationCode(context.Context, string, string) error {
	return errors.New("provider unreachable")
}

// fakeVerifier returns canned Google claims keyed by token string.
type fakeVerifier struct {
	claims map[string]*GoogleClaims
}

func (f *fakeVerifier) VerifyIDToken(idToken string) (*GoogleClaims, error) {
	if c, ok := f.claims[idToken]; ok {
		return c, nil
	}
	return nil, errors.New("invalid token")
}
