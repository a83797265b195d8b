package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/imcoolthanyou/Event-Hive/pkg/config"
)

const (
	// ContextKeyUserID is the gin context key for the authenticated user ID
	ContextKeyUserID = "user_id"
	// ContextKeyDisplayName is the gin context key for the user display name
	ContextKeyDisplayName = "display_name"
)

// Claims are the JWT claims carried by access tokens
type Claims struct {
	UserID      string `json:"uid"`
	DisplayName string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// JWTMiddleware validates the Authorization bearer token and stores the
// authenticated identity in the gin context.
func JWTMiddleware(cfg *config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header is required")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortWithError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Authorization header must be a bearer token")
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		}, jwt.WithIssuer(cfg.Issuer), jwt.WithExpirationRequired())
		if err != nil || !token.Valid {
			abortWithError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired")
			return
		}

		if claims.UserID == "" {
			claims.UserID = claims.Subject
		}
		if claims.UserID == "" {
			abortWithError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Token carries no user identity")
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		if claims.DisplayName != "" {
			c.Set(ContextKeyDisplayName, claims.DisplayName)
		}
		c.Next()
	}
}

// GetUserID extracts the authenticated user ID from gin context
func GetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ContextKeyUserID)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

// GetDisplayName extracts the authenticated display name from gin context
func GetDisplayName(c *gin.Context) (string, bool) {
	v, exists := c.Get(ContextKeyDisplayName)
	if !exists {
		return "", false
	}
	name, ok := v.(string)
	return name, ok
}
