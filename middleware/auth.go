package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const userIDKey = "auth.user_id"

// TokenVerifier resolves a bearer token to a user ID. Implemented by the
// logic layer's token issuer.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequireAuth gates protected routes. It extracts the bearer token from the
// Authorization header, verifies signature and expiry, and binds the
// resolved user ID into the request context. Every failure mode — missing
// header, malformed header, bad signature, expired token — gets the same
// generic 401 so the response does not leak which check failed.
func RequireAuth(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		const bearerPrefix = "Bearer "

		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			reject(c)
			return
		}

		token := strings.TrimSpace(header[len(bearerPrefix):])
		if token == "" {
			reject(c)
			return
		}

		userID, err := verifier.Verify(token)
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("Token verification failed")
			reject(c)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func reject(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": "Invalid or expired token",
	})
}

// UserID returns the authenticated user ID bound by RequireAuth. This is
// the only sanctioned way handlers learn the caller's identity.
func UserID(c *gin.Context) string {
	v, ok := c.Get(userIDKey)
	if !ok {
		return ""
	}
	id, _ := v.(string)
	return id
}
