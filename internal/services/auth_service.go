package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/zluffi/zluffi-backend/internal/config"
	"github.com/zluffi/zluffi-backend/internal/dto"
	"github.com/zluffi/zluffi-backend/internal/models"
	"github.com/zluffi/zluffi-backend/internal/sms"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidPhone       = errors.New("invalid phone number format, use international format (e.g., +1234567890)")
	ErrDeliveryFailed     = errors.New("failed to send OTP via SMS")
	ErrInvalidCode        = errors.New("invalid OTP")
	ErrCodeExpired        = errors.New("OTP has expired")
	ErrCooldownActive     = errors.New("OTP recently requested, try again shortly")
	ErrOAuthDenied        = errors.New("sign-in could not be completed")
)

const otpTTL = 10 * time.Minute

var (
	phonePattern = regexp.MustCompile(`^\+\d{10,15}$`)
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

// TokenVerifier checks a Google ID token signature and returns its
// claims. Satisfied by GoogleJWKSClient; faked in tests.
type TokenVerifier interface {
	VerifyIDToken(idToken string) (*GoogleClaims, error)
}

type AuthService struct {
	db     *gorm.DB
	cfg    *config.Config
	google TokenVerifier
	sms    sms.Sender
	rdb    *redis.Client
}

func NewAuthService(db *gorm.DB, cfg *config.Config, verifier TokenVerifier, sender sms.Sender, rdb *redis.Client) *AuthService {
	return &AuthService{db: db, cfg: cfg, google: verifier, sms: sender, rdb: rdb}
}

func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	v := &ValidationError{}
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if utf8.RuneCountInString(name) < 2 {
		v.add("name", "name must be at least 2 characters")
	}
	if !emailPattern.MatchString(email) {
		v.add("email", "please enter a valid email address")
	}
	if utf8.RuneCountInString(req.Password) < 8 {
		v.add("password", "password must be at least 8 characters")
	}
	if err := v.orNil(); err != nil {
		return nil, err
	}

	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.New(),
		Name:         &name,
		Email:        &email,
		PasswordHash: string(hash),
		AuthProvider: "email",
	}
	if err := s.db.Create(&user).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.sessionResponse(&user, "")
}

func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.sessionResponse(&user, "")
}

// RequestCode issues a fresh 6-digit code for the phone, creating the
// user row if this phone has never been seen. The code is persisted
// before delivery is attempted, so a provider failure still leaves a
// verifiable code behind and a retry simply overwrites it.
func (s *AuthService) RequestCode(ctx context.Context, phone string) error {
	phone = strings.TrimSpace(phone)
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhone
	}

	if err := s.checkCooldown(ctx, phone); err != nil {
		return err
	}

	code, err := generateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}
	expiresAt := time.Now().Add(otpTTL)

	var user models.User
	err = s.db.Where("phone = ?", phone).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{
			ID:           uuid.New(),
			Phone:        &phone,
			AuthProvider: "phone",
			OTP:          &code,
			OTPExpiresAt: &expiresAt,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
	case err != nil:
		return fmt.Errorf("failed to look up user: %w", err)
	default:
		updates := map[string]interface{}{
			"otp":            code,
			"otp_expires_at": expiresAt,
		}
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to store OTP: %w", err)
		}
	}

	if err := s.sms.SendVerificationCode(ctx, phone, code); err != nil {
		slog.Error("otp delivery failed", "error", err)
		return ErrDeliveryFailed
	}
	return nil
}

// VerifyCode validates the code for the phone and consumes it. A code
// verifies successfully exactly once: the stored otp columns are
// cleared on success, so a replay fails the string comparison.
func (s *AuthService) VerifyCode(ctx context.Context, phone, code string) (*dto.VerifyOTPResponse, error) {
	phone = strings.TrimSpace(phone)

	var user models.User
	if err := s.db.Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, ErrUserNotFound
	}

	if user.OTP == nil || *user.OTP != code {
		return nil, ErrInvalidCode
	}
	now := time.Now().Truncate(time.Second)
	if user.OTPExpiresAt == nil || user.OTPExpiresAt.Before(now) {
		return nil, ErrCodeExpired
	}

	updates := map[string]interface{}{
		"otp":            nil,
		"otp_expires_at": nil,
	}
	if user.Name == nil {
		name := placeholderName()
		updates["name"] = name
		user.Name = &name
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to clear OTP: %w", err)
	}

	token, err := s.issueSession(&user, phone)
	if err != nil {
		return nil, err
	}
	return &dto.VerifyOTPResponse{
		Message: "OTP verified successfully",
		UserID:  user.ID,
		Token:   token,
	}, nil
}

// GoogleSignIn reconciles a verified Google identity with the user
// directory: match by Google subject, else link by email, else create.
func (s *AuthService) GoogleSignIn(req *dto.GoogleSignInRequest) (*dto.AuthResponse, error) {
	if req.IDToken == "" {
		return nil, ErrOAuthDenied
	}

	claims, err := s.google.VerifyIDToken(req.IDToken)
	if err != nil {
		slog.Error("google token verification failed", "error", err)
		return nil, ErrOAuthDenied
	}

	var user models.User
	err = s.db.Where("google_user_id = ?", claims.Sub).First(&user).Error
	if err == nil {
		return s.sessionResponse(&user, "")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(claims.Email))
	if email != "" {
		err = s.db.Where("email = ?", email).First(&user).Error
		if err == nil {
			// Account merge: attach the Google identity but keep the
			// existing name and avatar.
			if err := s.db.Model(&user).Update("google_user_id", claims.Sub).Error; err != nil {
				return nil, fmt.Errorf("failed to link google account: %w", err)
			}
			sub := claims.Sub
			user.GoogleUserID = &sub
			return s.sessionResponse(&user, "")
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
	}

	sub := claims.Sub
	user = models.User{
		ID:           uuid.New(),
		GoogleUserID: &sub,
		AvatarURL:    claims.Picture,
		AuthProvider: "google",
	}
	if claims.Name != "" {
		name := claims.Name
		user.Name = &name
	}
	if email != "" {
		user.Email = &email
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create google user: %w", err)
	}
	return s.sessionResponse(&user, "")
}

func (s *AuthService) checkCooldown(ctx context.Context, phone string) error {
	if s.rdb == nil || s.cfg.OTPCooldown <= 0 {
		return nil
	}
	ok, err := s.rdb.SetNX(ctx, "otp:cooldown:"+phone, 1, s.cfg.OTPCooldown).Result()
	if err != nil {
		// Redis being down never blocks sign-in.
		slog.Error("otp cooldown check failed", "error", err)
		return nil
	}
	if !ok {
		return ErrCooldownActive
	}
	return nil
}

func (s *AuthService) sessionResponse(user *models.User, phoneClaim string) (*dto.AuthResponse, error) {
	token, err := s.issueSession(user, phoneClaim)
	if err != nil {
		return nil, err
	}

	resp := &dto.AuthResponse{
		Token: token,
		User:  dto.UserResponse{ID: user.ID, AvatarURL: user.AvatarURL},
	}
	if user.Name != nil {
		resp.User.Name = *user.Name
	}
	if user.Email != nil {
		resp.User.Email = *user.Email
	}
	if user.Phone != nil {
		resp.User.Phone = *user.Phone
	}
	return resp, nil
}

// issueSession signs a 30-day session token. The phone claim is only
// present when the authenticating path was phone/OTP.
func (s *AuthService) issueSession(user *models.User, phoneClaim string) (string, error) {
	claims := jwt.MapClaims{
		"sub": user.ID.String(),
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(s.cfg.SessionExpiry).Unix(),
	}
	if user.Email != nil {
		claims["email"] = *user.Email
	}
	if phoneClaim != "" {
		claims["phone"] = phoneClaim
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func placeholderName() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "User0"
	}
	return fmt.Sprintf("User%d", n.Int64())
}

func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}
