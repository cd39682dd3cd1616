package dto

import "time"

// TokenRequest exchanges an API key for an access token.
type TokenRequest struct {
	ClientID string `json:"clientId" binding:"required"`
	APIKey   string `json:"apiKey" binding:"required"`
}

// TokenResponse carries the issued access token.
type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}
