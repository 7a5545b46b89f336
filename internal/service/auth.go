package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrAdminAuthDisabled = errors.New("admin authentication is not configured")
	ErrInvalidToken      = errors.New("invalid token")
)

const adminRole = "admin"

// AuthService mints and checks HS256 tokens for the admin API
type AuthService struct {
	jwtSecret string
	jwtExpiry time.Duration
}

func NewAuthService(jwtSecret string, jwtExpiry time.Duration) *AuthService {
	return &AuthService{
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
	}
}

// Enabled reports whether admin routes require a token
func (s *AuthService) Enabled() bool {
	return s.jwtSecret != ""
}

func (s *AuthService) GenerateAdminToken(subject string) (string, time.Time, error) {
	if !s.Enabled() {
		return "", time.Time{}, ErrAdminAuthDisabled
	}

	now := time.Now()
	expiry := now.Add(s.jwtExpiry)
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": adminRole,
		"exp":  expiry.Unix(),
		"iat":  now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, expiry, nil
}

// ValidateAdminToken returns the subject of a valid admin token
func (s *AuthService) ValidateAdminToken(tokenString string) (string, error) {
	if !s.Enabled() {
		return "", ErrAdminAuthDisabled
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid || claims["role"] != adminRole {
		return "", ErrInvalidToken
	}

	subject, _ := claims.GetSubject()
	return subject, nil
}
