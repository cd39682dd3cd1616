package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"erpchat/internal/core/apperror"
	appctx "erpchat/internal/core/context"
)

// TokenValidator interface for token validation.
type TokenValidator interface {
	ValidateToken(tokenString string) (*appctx.ClientContext, error)
}

// Auth middleware validates bearer tokens and populates client context.
func Auth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Extract token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		// Check Bearer prefix
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		// Validate token
		client, err := validator.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		// Add client to context
		ctx := appctx.WithClient(c.Request.Context(), client)
		c.Request = c.Request.WithContext(ctx)

		// Store in gin context for easy access
		c.Set("client_id", client.ClientID)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
