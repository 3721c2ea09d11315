package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"model-platform-sdk/internal/api"
	"model-platform-sdk/internal/core/domain"
)

// Authenticator validates bearer tokens issued at login.
type Authenticator interface {
	Authenticate(token string) bool
}

const contextKeyToken = "token"

// Auth rejects requests without a valid "Authorization: Bearer <token>" header.
func Auth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" || !a.Authenticate(token) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: domain.ErrUnauthorized.Error()})
			return
		}

		c.Set(contextKeyToken, token)
		c.Next()
	}
}
