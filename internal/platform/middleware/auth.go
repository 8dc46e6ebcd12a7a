package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Seascape-Charters/service-booking/internal/platform/auth"
	"github.com/Seascape-Charters/service-booking/internal/platform/response"
)

const sessionKey = "session"

// AuthMiddleware verifies the bearer token and stores the Session on the
// request context.
func AuthMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			response.Unauthorized(c, "missing bearer token")
			return
		}

		claims, err := jwtManager.ValidateToken(token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			return
		}

		c.Set(sessionKey, auth.NewSession(claims))
		c.Next()
	}
}

// RequireRole rejects sessions that hold none of roles.
func RequireRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := GetSession(c)
		if !ok {
			response.Unauthorized(c, "unauthorized")
			return
		}
		if !session.HasRole(roles...) {
			response.Forbidden(c, "insufficient role")
			return
		}
		c.Next()
	}
}

// GetSession returns the Session stored by AuthMiddleware.
func GetSession(c *gin.Context) (auth.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return auth.Session{}, false
	}
	s, ok := v.(auth.Session)
	return s, ok && s.IsAuthenticated()
}

// SetSession stores s on the context. Used by tests and by trusted internal
// routes.
func SetSession(c *gin.Context, s auth.Session) {
	c.Set(sessionKey, s)
}
