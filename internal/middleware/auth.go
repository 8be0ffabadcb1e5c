package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	jwtsvc "epool/internal/pkg/jwt"
	"epool/internal/pkg/response"
)

const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
)

// RequireAuth validates the bearer access token and stores the subject on
// the request context. Deactivated accounts are rejected at the boundary.
func RequireAuth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c, jwt)
		if !ok {
			return
		}
		if claims.IsDeactivated {
			response.AbortError(c, http.StatusForbidden, "Account is deactivated")
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// OptionalAuth populates the user id when a valid bearer token is present
// and otherwise lets the request through anonymously. Used by the anonymous
// pool-folder creation flow.
func OptionalAuth(jwt *jwtsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if tokenStr == "" || tokenStr == header {
			c.Next()
			return
		}

		if claims, err := jwt.ValidateAccessToken(tokenStr); err == nil && !claims.IsDeactivated {
			c.Set(ContextUserID, claims.Subject)
			c.Set(ContextEmail, claims.Email)
		}
		c.Next()
	}
}

func bearerClaims(c *gin.Context, jwt *jwtsvc.Service) (*jwtsvc.AccessClaims, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		response.AbortError(c, http.StatusUnauthorized, "Missing Authorization header")
		return nil, false
	}
	if !strings.HasPrefix(header, "Bearer ") {
		response.AbortError(c, http.StatusUnauthorized, "Invalid Authorization header")
		return nil, false
	}

	tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if tokenStr == "" {
		response.AbortError(c, http.StatusUnauthorized, "Empty token")
		return nil, false
	}

	claims, err := jwt.ValidateAccessToken(tokenStr)
	if err != nil {
		response.AbortError(c, http.StatusUnauthorized, "Invalid token")
		return nil, false
	}
	return claims, true
}
