package handlers

import (
	"github.com/gin-gonic/gin"

	"erpchat/internal/domain/auth"
	"erpchat/internal/infrastructure/http/v1/dto"
)

// AuthHandler serves token issuance.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates an auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{BaseHandler: base, service: service}
}

// Token exchanges an API key for a short-lived access token.
// POST /api/v1/auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if !h.BindJSON(c, &req) {
		return
	}

	token, expiresAt, err := h.service.ExchangeAPIKey(req.ClientID, req.APIKey)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.TokenResponse{AccessToken: token, ExpiresAt: expiresAt})
}
