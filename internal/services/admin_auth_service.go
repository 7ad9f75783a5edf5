package services

import (
	"context"
	"log"
	"strings"

	"shop-backend/internal/auth"
	"shop-backend/internal/cache"
	"shop-backend/internal/models"
)

// AdminCredentials is the single shared back-office login.
type AdminCredentials struct {
	Email        string
	Password     string
	PasswordHash string
	TOTPSecret   string
	MaxAttempts  int
}

type TokenIssuer interface {
	GenerateToken(email string) (string, error)
}

type AdminAuthService struct {
	creds  AdminCredentials
	tokens TokenIssuer
}

func NewAdminAuthService(creds AdminCredentials, tokens TokenIssuer) *AdminAuthService {
	return &AdminAuthService{creds: creds, tokens: tokens}
}

// Login checks the shared credential and returns a signed admin token.
// clientKey identifies the caller for failed-attempt throttling.
func (s *AdminAuthService) Login(ctx context.Context, req models.LoginRequest, clientKey string) (*models.LoginResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, models.NewValidationError("", "Email and password are required")
	}

	if s.creds.MaxAttempts > 0 && cache.FailedLogins(ctx, clientKey) >= int64(s.creds.MaxAttempts) {
		log.Printf("[Auth] Login blocked for %s after %d failed attempts", clientKey, s.creds.MaxAttempts)
		return nil, models.ErrTooManyAttempts
	}

	if !s.valid(email, req.Password, req.OTP) {
		n := cache.RegisterFailedLogin(ctx, clientKey)
		log.Printf("[Auth] Failed admin login for %q from %s (attempt %d)", email, clientKey, n)
		return nil, models.ErrInvalidCredentials
	}
	cache.ClearFailedLogins(ctx, clientKey)

	token, err := s.tokens.GenerateToken(s.creds.Email)
	if err != nil {
		return nil, err
	}
	log.Printf("[Auth] Admin %s logged in", s.creds.Email)
	return &models.LoginResponse{Token: token, Email: s.creds.Email}, nil
}

func (s *AdminAuthService) valid(email, password, otp string) bool {
	if s.creds.Email == "" || !strings.EqualFold(email, s.creds.Email) {
		return false
	}
	switch {
	case s.creds.PasswordHash != "":
		if !auth.VerifyPassword(s.creds.PasswordHash, password) {
			return false
		}
	case s.creds.Password != "":
		if !auth.EqualSecret(s.creds.Password, password) {
			return false
		}
	default:
		return false
	}
	if s.creds.TOTPSecret != "" {
		return auth.ValidateTOTP(otp, s.creds.TOTPSecret)
	}
	return true
}
