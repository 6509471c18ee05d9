// Package middleware holds the gin middleware shared by every route group.
package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/emilythestrangee/blogicum/backend/internal/auth"
)

const (
	UserIDKey   = "user_id"
	UsernameKey = "username"

	// TokenCookie carries the JWT for clients that follow redirects.
	TokenCookie = "token"
)

// Authenticate resolves the requester from a bearer token or the token
// cookie. Requests without a valid token continue anonymously.
func Authenticate(tokens *auth.TokenManager, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			raw, _ = c.Cookie(TokenCookie)
		}
		if raw == "" {
			c.Next()
			return
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			log.WithField("request_id", c.GetString(RequestIDKey)).WithError(err).Debug("ignoring invalid token")
			c.Next()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(UsernameKey, claims.Username)
		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth sends anonymous requesters to the login page, remembering
// where they were going.
func RequireAuth(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := UserID(c); ok {
			c.Next()
			return
		}
		target := loginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
		c.Redirect(http.StatusSeeOther, target)
		c.Abort()
	}
}

// UserID returns the authenticated user's id.
func UserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := raw.(int)
	return id, ok && id != 0
}
