package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/zluffi/zluffi-backend/internal/config"
	"github.com/zluffi/zluffi-backend/internal/database"
	"github.com/zluffi/zluffi-backend/internal/middleware"
	"github.com/zluffi/zluffi-backend/internal/models"
	"github.com/zluffi/zluffi-backend/internal/services"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
	sms *recordingSender
}

type recordingSender struct {
	codes map[string]string
}

func (r *recordingSender) SendVerificationCode(_ context.Context, phone, code string) error {
	if r.codes == nil {
		r.codes = map[string]string{}
	}
	r.codes[phone] = code
	return nil
}

type fakeVerifier struct{}

func (fakeVerifier) VerifyIDToken(string) (*services.GoogleClaims, error) {
	return nil, errors.New("invalid token")
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		SessionExpiry: time.Hour,
		MaxUploadSize: 5 * 1024 * 1024,
	}

	sender := &recordingSender{}
	authService := services.NewAuthService(db, cfg, fakeVerifier{}, sender, nil)
	listingService := services.NewListingService(db)
	messageService := services.NewMessageService(db)

	authHandler := NewAuthHandler(authService)
	listingHandler := NewListingHandler(listingService)
	messageHandler := NewMessageHandler(messageService)

	app := fiber.New()
	jwt := middleware.JWTProtected(cfg)

	auth := app.Group("/api/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/google", authHandler.GoogleSignIn)
	auth.Post("/otp", authHandler.RequestOTP)
	auth.Put("/otp", authHandler.VerifyOTP)

	app.Get("/api/listings", listingHandler.List)
	app.Get("/api/listings/:id", listingHandler.Get)
	app.Get("/api/search", listingHandler.Search)
	app.Post("/api/listings", jwt, listingHandler.Create)
	app.Post("/api/listings/:id/favorite", jwt, listingHandler.ToggleFavorite)
	app.Get("/api/categories", listingHandler.Categories)

	app.Get("/api/messages", jwt, messageHandler.Conversations)
	app.Post("/api/messages", jwt, messageHandler.Send)
	app.Get("/api/messages/:id", jwt, messageHandler.Thread)

	return &testEnv{app: app, db: db, sms: sender}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func (e *testEnv) registerUser(t *testing.T, name, email string) (uuid.UUID, string) {
	t.Helper()
	resp := e.request(t, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     name,
		"email":    email,
		"password": "correct-horse",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID uuid.UUID `json:"id"`
		} `json:"user"`
	}
	decodeJSON(t, resp, &body)
	require.NotEmpty(t, body.Token)
	return body.User.ID, body.Token
}

func (e *testEnv) seedCategory(t *testing.T, name, slug string) uint64 {
	t.Helper()
	cat := models.Category{Name: name, Slug: slug}
	require.NoError(t, e.db.Create(&cat).Error)
	return cat.ID
}
