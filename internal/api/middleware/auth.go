package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware issues and validates the bearer tokens used by the authority
// review surface.
type AuthMiddleware struct {
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthMiddleware(secret string, tokenTTL time.Duration) *AuthMiddleware {
	return &AuthMiddleware{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

// IssueToken creates a signed token carrying the authority id.
func (am *AuthMiddleware) IssueToken(authorityID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": authorityID,
		"iat": now.Unix(),
		"exp": now.Add(am.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(am.secret)
}

// RequireAuthority validates the Authorization header and stores the caller's
// authority id on the context.
func (am *AuthMiddleware) RequireAuthority() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return am.secret, nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}
		authorityID, _ := claims["sub"].(string)
		if authorityID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token subject"})
			return
		}

		c.Set("authorityID", authorityID)
		c.Next()
	}
}
