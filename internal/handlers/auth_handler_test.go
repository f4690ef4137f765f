package handlers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterEndpoint(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "correct-horse",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
		User  struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"user"`
	}
	decodeJSON(t, resp, &body)
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "Alice", body.User.Name)

	// Same email again conflicts.
	resp = env.request(t, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     "Alice Again",
		"email":    "alice@example.com",
		"password": "correct-horse",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestRegisterEndpointValidation(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"name":     "A",
		"email":    "nope",
		"password": "short",
	})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body struct {
		Errors []struct {
			Field string `json:"field"`
		} `json:"errors"`
	}
	decodeJSON(t, resp, &body)
	assert.Len(t, body.Errors, 3)
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.registerUser(t, "Alice", "alice@example.com")

	resp := env.request(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "correct-horse",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.request(t, fiber.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestOTPEndpoints(t *testing.T) {
	env := newTestEnv(t)
	phone := "+15551234567"

	resp := env.request(t, fiber.MethodPost, "/api/auth/otp", "", fiber.Map{"phoneNumber": phone})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	code := env.sms.codes[phone]
	require.Len(t, code, 6)

	// Missing fields short-circuit before any lookup.
	resp = env.request(t, fiber.MethodPut, "/api/auth/otp", "", fiber.Map{"phoneNumber": phone})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, fiber.MethodPut, "/api/auth/otp", "", fiber.Map{
		"phoneNumber": phone,
		"otp":         code,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	decodeJSON(t, resp, &body)
	assert.Equal(t, "OTP verified successfully", body.Message)
	assert.NotEmpty(t, body.Token)

	// The token works against a protected route.
	resp = env.request(t, fiber.MethodGet, "/api/messages", body.Token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestOTPEndpointRejectsBadPhone(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, fiber.MethodPost, "/api/auth/otp", "", fiber.Map{"phoneNumber": "555-1234"})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.request(t, fiber.MethodPut, "/api/auth/otp", "", fiber.Map{
		"phoneNumber": "+19998887766",
		"otp":         "123456",
	})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGoogleEndpointRejectsBadToken(t *testing.T) {
	env := newTestEnv(t)

	resp := env.request(t, fiber.MethodPost, "/api/auth/google", "", fiber.Map{"id_token": "garbage"})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	for _, route := range []struct {
		method string
		path   string
	}{
		{fiber.MethodPost, "/api/listings"},
		{fiber.MethodGet, "/api/messages"},
		{fiber.MethodPost, "/api/messages"},
	} {
		resp := env.request(t, route.method, route.path, "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, "%s %s", route.method, route.path)
	}
}
