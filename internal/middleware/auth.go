package middleware

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"campusmarket/internal/services"
)

// Context keys set by AuthMiddleware.
const (
	CtxUser  = "auth_user"
	CtxToken = "auth_token"
)

// AuthMiddleware resolves the bearer token against the token store. Unknown
// or revoked tokens never pass.
func AuthMiddleware(tokens services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		parts := strings.SplitN(header, " ", 2)
		if header == "" || len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c)
			return
		}
		token := strings.TrimSpace(parts[1])

		user, err := tokens.Validate(token)
		if err != nil {
			if errors.Is(err, services.ErrUnauthorized) {
				abortUnauthorized(c)
				return
			}
			log.Printf("[auth][middleware] token lookup failed: err=%v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Internal server error",
			})
			return
		}

		c.Set(CtxUser, user)
		c.Set(CtxToken, token)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": "Unauthorized",
	})
}
