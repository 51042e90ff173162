package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"

	"github.com/healthyfootprints/reminder-api/internal/handler"
	authhandler "github.com/healthyfootprints/reminder-api/internal/handler/auth"
	"github.com/healthyfootprints/reminder-api/internal/service/auth"
	pkgauth "github.com/healthyfootprints/reminder-api/pkg/auth"
)

// Context keys set after successful authentication.
const (
	ContextStaffID    = "staffID"
	ContextStaffEmail = "staffEmail"
)

type AuthMiddleware struct {
	authService auth.Service
	claimsCache *gocache.Cache
}

func NewAuthMiddleware(authService auth.Service) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
		claimsCache: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// Authenticate verifies the session cookie and sets staff info in context.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(authhandler.SessionCookie)
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing session cookie"))
			c.Abort()
			return
		}

		claims, err := m.lookupClaims(c, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid session"))
			c.Abort()
			return
		}

		c.Set(ContextStaffID, claims.StaffID)
		c.Set(ContextStaffEmail, claims.Email)
		c.Next()
	}
}

// lookupClaims keeps validated claims in a short-lived cache so repeat
// requests within the TTL skip signature verification.
func (m *AuthMiddleware) lookupClaims(c *gin.Context, token string) (*pkgauth.SessionClaims, error) {
	if cached, ok := m.claimsCache.Get(token); ok {
		return cached.(*pkgauth.SessionClaims), nil
	}

	claims, err := m.authService.ValidateToken(c.Request.Context(), token)
	if err != nil {
		return nil, err
	}

	m.claimsCache.Set(token, claims, gocache.DefaultExpiration)
	return claims, nil
}
