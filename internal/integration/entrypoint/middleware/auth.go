// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/expense-tracker/backend/internal/application/adapter"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/dto"
)

// ContextKey is a type for context keys.
type ContextKey string

const (
	// SubjectKey is the context key for the authenticated principal.
	SubjectKey ContextKey = "subject"
	// EmailKey is the context key for the authenticated principal's email.
	EmailKey ContextKey = "email"
)

// AuthMiddleware provides bearer token authentication middleware.
type AuthMiddleware struct {
	verifier adapter.TokenVerifier
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(verifier adapter.TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// Authenticate returns a Gin middleware handler that enforces bearer authentication.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, domainerror.ErrCodeMissingToken, "Authorization header is required")
			return
		}

		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			unauthorized(c, domainerror.ErrCodeInvalidToken, "Invalid authorization header format")
			return
		}
		if strings.TrimSpace(token) == "" {
			unauthorized(c, domainerror.ErrCodeMissingToken, "Token is required")
			return
		}

		claims, err := m.verifier.Verify(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domainerror.ErrExpiredToken) {
				unauthorized(c, domainerror.ErrCodeExpiredToken, "Token has expired")
				return
			}
			unauthorized(c, domainerror.ErrCodeInvalidToken, "Invalid or expired token")
			return
		}

		c.Set(string(SubjectKey), claims.Subject)
		c.Set(string(EmailKey), claims.Email)

		c.Next()
	}
}

func unauthorized(c *gin.Context, code domainerror.AuthErrorCode, message string) {
	c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
		Error: message,
		Code:  string(code),
	})
	c.Abort()
}

// GetSubjectFromContext extracts the authenticated subject from the Gin context.
func GetSubjectFromContext(c *gin.Context) (string, bool) {
	subject, exists := c.Get(string(SubjectKey))
	if !exists {
		return "", false
	}
	s, ok := subject.(string)
	return s, ok
}
