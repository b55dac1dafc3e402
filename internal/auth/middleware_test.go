package auth

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

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	admin := router.Group("/admin")
	admin.Use(RequireAdmin(testSecret))
	admin.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": AdminEmail(c)})
	})

	return router
}

func request(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	router := newAuthRouter()

	token := signToken(t, jwt.MapClaims{
		"role":  "admin",
		"email": "admin@b0ase.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	w := request(router, token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "admin@b0ase.com")
}

func TestRequireAdminRejectsMissingToken(t *testing.T) {
	router := newAuthRouter()

	w := request(router, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminRejectsBadSignature(t *testing.T) {
	router := newAuthRouter()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "admin"})
	signed, err := token.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	w := request(router, signed)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdminRejectsNonAdminRole(t *testing.T) {
	router := newAuthRouter()

	token := signToken(t, jwt.MapClaims{
		"role":  "client",
		"email": "user@x.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	w := request(router, token)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdminRejectsExpiredToken(t *testing.T) {
	router := newAuthRouter()

	token := signToken(t, jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})

	w := request(router, token)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
