package middleware

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/zoomwifi/admin-console/pkg/errors"
	"github.com/zoomwifi/admin-console/pkg/response"
)

// TokenSource reports whether an operator token is held.
type TokenSource interface {
	Token() (string, bool)
}

// RequireSession rejects requests with NOT_LOGGED_IN while no operator token
// is held.
func RequireSession(tokens TokenSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := tokens.Token(); !ok {
			response.Error(c, appErrors.ErrNotLoggedIn)
			return
		}
		c.Next()
	}
}
