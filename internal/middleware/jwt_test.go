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
	"go.uber.org/zap"

	"github.com/noah-isme/academy-adp-api/internal/models"
	"github.com/noah-isme/academy-adp-api/internal/service"
)

const jwtTestSecret = "mw-secret"

func newTokenAuth() *service.AuthService {
	return service.NewAuthService(nil, nil, zap.NewNop(), service.AuthConfig{
		AccessTokenSecret: jwtTestSecret,
		AccessTokenExpiry: time.Hour,
		Issuer:            "academy-test",
	})
}

func signClaims(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	claims := &models.JWTClaims{
		UserID: "u1",
		Role:   models.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtTestSecret))
	require.NoError(t, err)
	return signed
}

func runJWT(t *testing.T, authorization string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	var reached bool
	r := gin.New()
	r.GET("/protected", JWT(newTokenAuth()), func(c *gin.Context) {
		reached = true
		_, exists := c.Get(ContextUserKey)
		assert.True(t, exists)
		c.Status(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(rec, req)
	return rec, reached
}

func TestJWTAllowsValidToken(t *testing.T) {
	rec, reached := runJWT(t, "Bearer "+signClaims(t, time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, reached)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	rec, reached := runJWT(t, "Bearer "+signClaims(t, time.Now().Add(-time.Hour)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestJWTRejectsMissingHeader(t *testing.T) {
	rec, reached := runJWT(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}

func TestJWTRejectsMalformedHeader(t *testing.T) {
	rec, reached := runJWT(t, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, reached)
}
