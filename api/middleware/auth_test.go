package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopquill/shopquill-backend/pkg/config"
)

const (
	testAPIKey    = "test-api-key"
	testAPISecret = "test-api-secret"
)

func testShopifyConfig() config.ShopifyConfig {
	return config.ShopifyConfig{APIKey: testAPIKey, APISecret: testAPISecret}
}

func signSessionToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func sessionClaims(dest string) jwt.MapClaims {
	return jwt.MapClaims{
		"dest": dest,
		"aud":  testAPIKey,
		"exp":  time.Now().Add(time.Minute).Unix(),
	}
}

func authedRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/generations", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestSessionAuthSeedsShopDomain(t *testing.T) {
	var gotDomain string
	handler := SessionAuth(testShopifyConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDomain = ShopDomainFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	token := signSessionToken(t, testAPISecret, sessionClaims("https://Demo.myshopify.com"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(token))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "demo.myshopify.com", gotDomain)
}

func TestSessionAuthMissingHeader(t *testing.T) {
	handler := SessionAuth(testShopifyConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(""))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionAuthWrongSecret(t *testing.T) {
	handler := SessionAuth(testShopifyConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	token := signSessionToken(t, "other-secret", sessionClaims("https://demo.myshopify.com"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(token))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionAuthExpiredToken(t *testing.T) {
	handler := SessionAuth(testShopifyConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	claims := sessionClaims("https://demo.myshopify.com")
	claims["exp"] = time.Now().Add(-time.Minute).Unix()
	token := signSessionToken(t, testAPISecret, claims)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(token))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionAuthWrongAudience(t *testing.T) {
	handler := SessionAuth(testShopifyConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	claims := sessionClaims("https://demo.myshopify.com")
	claims["aud"] = "someone-else"
	token := signSessionToken(t, testAPISecret, claims)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(token))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionAuthInvalidDest(t *testing.T) {
	handler := SessionAuth(testShopifyConfig(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	token := signSessionToken(t, testAPISecret, sessionClaims("https://example.com"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(token))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionAuthUnconfiguredSecret(t *testing.T) {
	handler := SessionAuth(config.ShopifyConfig{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	token := signSessionToken(t, testAPISecret, sessionClaims("https://demo.myshopify.com"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, authedRequest(token))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
