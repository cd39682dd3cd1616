// Package auth provides API-client authentication: an API key is exchanged
// for a short-lived JWT that protects the chat and catalog endpoints.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"erpchat/internal/core/apperror"
	appctx "erpchat/internal/core/context"
)

// Config holds auth configuration.
type Config struct {
	Secret         string
	Issuer         string
	AccessTokenTTL time.Duration

	// APIKeyHash is the bcrypt hash of the accepted API key.
	// The plaintext key never lives in configuration.
	APIKeyHash string
}

// DefaultConfig returns default auth configuration.
func DefaultConfig(secret, apiKeyHash string) Config {
	return Config{
		Secret:         secret,
		Issuer:         "erpchat",
		AccessTokenTTL: 15 * time.Minute,
		APIKeyHash:     apiKeyHash,
	}
}

// Claims represents JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	ClientID string `json:"cid"`
}

// Service handles API-key verification and JWT issuing/validation.
type Service struct {
	config Config
}

// NewService creates a new auth service.
func NewService(config Config) *Service {
	return &Service{config: config}
}

// ExchangeAPIKey verifies the API key against the configured bcrypt hash and
// issues an access token for the named client.
func (s *Service) ExchangeAPIKey(clientID, apiKey string) (string, time.Time, error) {
	if s.config.APIKeyHash == "" {
		return "", time.Time{}, apperror.NewUnauthorized("api key auth not configured")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.config.APIKeyHash), []byte(apiKey)); err != nil {
		return "", time.Time{}, apperror.NewUnauthorized("invalid api key")
	}
	return s.generateToken(clientID)
}

func (s *Service) generateToken(clientID string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(s.config.AccessTokenTTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   clientID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		ClientID: clientID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateToken validates a JWT and returns the client context.
func (s *Service) ValidateToken(tokenString string) (*appctx.ClientContext, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})

	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	return &appctx.ClientContext{ClientID: claims.ClientID}, nil
}
