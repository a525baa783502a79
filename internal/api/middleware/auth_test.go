package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestRouter(am *AuthMiddleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", am.RequireAuthority(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"authority_id": c.GetString("authorityID")})
	})
	return router
}

func TestIssueAndValidateToken(t *testing.T) {
	am := NewAuthMiddleware("test-secret", time.Hour)
	router := newAuthTestRouter(am)

	token, err := am.IssueToken("authority-42")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "authority-42")
}

func TestRequireAuthorityRejections(t *testing.T) {
	am := NewAuthMiddleware("test-secret", time.Hour)
	router := newAuthTestRouter(am)

	serve := func(header string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		router.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve(""))
	})

	t.Run("malformed header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve("Token abc"))
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, serve("Bearer not-a-jwt"))
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := NewAuthMiddleware("different-secret", time.Hour)
		token, err := other.IssueToken("authority-42")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, serve("Bearer "+token))
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewAuthMiddleware("test-secret", -time.Minute)
		token, err := expired.IssueToken("authority-42")
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, serve("Bearer "+token))
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := jwt.MapClaims{
			"iat": time.Now().Unix(),
			"exp": time.Now().Add(time.Hour).Unix(),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, serve("Bearer "+token))
	})
}
