package testutils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rongwang/pokerclub-server/internal/api"
	"github.com/rongwang/pokerclub-server/internal/repository"
	"github.com/rongwang/pokerclub-server/internal/service"
	"github.com/rongwang/pokerclub-server/internal/utils"
	"github.com/stretchr/testify/require"
)

const (
	TestJWTSecret     = "test-secret-key"
	TestAdminUsername = "testadmin"
	TestAdminPassword = "testpassword"
)

// TestContext holds all dependencies for tests
type TestContext struct {
	Router     *gin.Engine
	Repository *repository.MemoryRepository
	Service    service.Service
	AdminJWT   string
}

// SetupTestContext wires the full HTTP stack over a fresh in-memory repository with one
// admin account
func SetupTestContext(t *testing.T) *TestContext {
	t.Helper()

	repo := repository.NewMemoryRepository()
	log := utils.DiscardLogger()
	svc := service.NewDefaultService(repo, nil, log, TestJWTSecret, 24*time.Hour)

	require.NoError(t, svc.EnsureAdmin(context.Background(), TestAdminUsername, TestAdminPassword),
		"Failed to create test admin")

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(log), api.JWTSecret(TestJWTSecret))

	handler := api.NewHandler(svc, log)
	handler.SetupRoutes(router)

	return &TestContext{
		Router:     router,
		Repository: repo,
		Service:    svc,
		AdminJWT:   SignToken(t, TestAdminUsername, TestJWTSecret, time.Hour),
	}
}

// SignToken issues an HS256 token for subject
func SignToken(t *testing.T, subject, secret string, ttl time.Duration) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject,
		"exp": time.Now().Add(ttl).Unix(),
		"iat": time.Now().Unix(),
	})

	tokenString, err := token.SignedString([]byte(secret))
	require.NoError(t, err, "Failed to generate JWT token")

	return tokenString
}

// PerformRequest executes an HTTP request against the router
func PerformRequest(r http.Handler, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer

	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		jsonBody, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, _ := http.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// AuthHeaders returns headers with Authorization token
func AuthHeaders(token string) map[string]string {
	return map[string]string{
		"Authorization": fmt.Sprintf("Bearer %s", token),
	}
}

// DecodeJSON unmarshals the recorded response body into v
func DecodeJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "body: %s", w.Body.String())
}
