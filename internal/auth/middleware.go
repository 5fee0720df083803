package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/inkwell/inkwell/internal/models"
)

const identityKey = "inkwell.identity"

// UserResolver resolves a verified subject claim to an active user.
// Returns (nil, nil) when no active user matches.
type UserResolver interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// Identity resolves the Authorization header into an authenticated user
// and stores it in the request context. Every failure mode (missing
// header, malformed token, bad signature, expired, unknown or inactive
// user) leaves the request anonymous; it never aborts. Route handlers
// decide whether anonymous is acceptable via RequireUser.
func Identity(tokens *TokenService, users UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		parts := strings.Fields(header)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.Next()
			return
		}

		email, err := tokens.Verify(parts[1])
		if err != nil {
			c.Next()
			return
		}

		user, err := users.GetByEmail(c.Request.Context(), email)
		if err != nil || user == nil {
			c.Next()
			return
		}

		c.Set(identityKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or (nil, false) when the
// request is anonymous.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// RequireUser is the guard for authenticated routes: it returns the
// caller or writes 401 and aborts.
func RequireUser(c *gin.Context) (*models.User, bool) {
	user, ok := CurrentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return nil, false
	}
	return user, true
}
