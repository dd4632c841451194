package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys for user data
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyAuthType = "auth_type" // "bearer", "internal" or "none"
)

// AuthType indicates how the request was authenticated
type AuthType string

const (
	AuthTypeNone     AuthType = "none"
	AuthTypeBearer   AuthType = "bearer"
	AuthTypeInternal AuthType = "internal"
)

// Middleware authenticates client requests with a bearer JWT.
type Middleware struct {
	verifier *Verifier
	logger   *zap.Logger
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(verifier *Verifier, logger *zap.Logger) *Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Middleware{verifier: verifier, logger: logger}
}

// Handler returns a Gin middleware handler that rejects requests without a
// valid bearer token.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.verifier.Verify(bearerToken(c))
		if err != nil {
			message := "invalid token"
			if errors.Is(err, ErrMissingToken) {
				message = "authentication required"
			} else {
				m.logger.Debug("rejected bearer token", zap.String("path", c.Request.URL.Path), zap.Error(err))
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": message,
				"code":  "unauthorized",
			})
			return
		}

		c.Set(ContextKeyUserID, claims.Subject)
		c.Set(ContextKeyAuthType, AuthTypeBearer)
		c.Next()
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Helper functions to extract auth data from Gin context

// GetUserID retrieves the authenticated user's ID from the context.
// Returns an empty string if the request is not authenticated.
func GetUserID(c *gin.Context) string {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(string); ok {
			return userID
		}
	}
	return ""
}

// GetAuthType retrieves the authentication method used.
func GetAuthType(c *gin.Context) AuthType {
	if t, exists := c.Get(ContextKeyAuthType); exists {
		if authType, ok := t.(AuthType); ok {
			return authType
		}
	}
	return AuthTypeNone
}

// IsAuthenticated returns true if the request carries a verified user.
func IsAuthenticated(c *gin.Context) bool {
	return GetUserID(c) != ""
}
