package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tubely/upload-api/internal/config"
)

const testSecret = "test-secret"

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	cfg := &config.Config{JWTSecret: testSecret, AuthIssuer: "tubely-access"}
	v, err := NewValidator(t.Context(), cfg, zerolog.Nop())
	require.NoError(t, err)
	return v
}

func headerWith(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}

func TestAuthenticate(t *testing.T) {
	v := newTestValidator(t)
	userID := uuid.New()

	valid, err := IssueToken(testSecret, "tubely-access", userID, time.Hour)
	require.NoError(t, err)

	got, err := v.Authenticate(headerWith(valid))
	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.True(t, v.Ready())
}

func TestAuthenticate_Rejects(t *testing.T) {
	v := newTestValidator(t)
	userID := uuid.New()

	wrongSecret, _ := IssueToken("other-secret", "tubely-access", userID, time.Hour)
	wrongIssuer, _ := IssueToken(testSecret, "someone-else", userID, time.Hour)
	expired, _ := IssueToken(testSecret, "tubely-access", userID, -time.Minute)
	badSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    "tubely-access",
		Subject:   "not-a-uuid",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	noneAlg, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Issuer:    "tubely-access",
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := []struct {
		name   string
		header http.Header
		want   error
	}{
		{"no header", http.Header{}, ErrMissingToken},
		{"basic scheme", http.Header{"Authorization": []string{"Basic dXNlcjpwYXNz"}}, ErrMissingToken},
		{"wrong secret", headerWith(wrongSecret), ErrInvalidToken},
		{"wrong issuer", headerWith(wrongIssuer), ErrInvalidToken},
		{"expired", headerWith(expired), ErrInvalidToken},
		{"subject not a uuid", headerWith(badSubject), ErrInvalidToken},
		{"unsigned", headerWith(noneAlg), ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Authenticate(tt.header)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	v := newTestValidator(t)
	userID := uuid.New()

	router := gin.New()
	router.GET("/me", v.Middleware(), func(c *gin.Context) {
		id, ok := UserID(c)
		require.True(t, ok)
		c.String(http.StatusOK, id.String())
	})

	t.Run("authenticated", func(t *testing.T) {
		token, err := IssueToken(testSecret, "tubely-access", userID, time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, userID.String(), w.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "missing bearer token")
	})
}
