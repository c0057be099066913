package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
	"mediagate/internal/core/services"
	"mediagate/internal/infrastructure/entitlement"
	"mediagate/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type denyAllChecker struct{}

func (denyAllChecker) Entitled(ctx context.Context, userID domain.UserID, contentID domain.ContentID) (bool, error) {
	return false, nil
}

func newTokenRouter(t *testing.T, entitlements ports.EntitlementChecker) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if entitlements == nil {
		entitlements = entitlement.NewAllowAllChecker(nil)
	}
	handler := NewTokenHandler(services.NewTokenService("handler-test-secret", time.Hour), entitlements, nil)

	router := gin.New()
	router.Use(middleware.ErrorHandlerMiddleware(zap.NewNop().Sugar()))
	router.POST("/api/v1/tokens", handler.IssueToken)
	return router
}

func issueRequest(t *testing.T, router *gin.Engine, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/tokens", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestIssueToken_Success(t *testing.T) {
	router := newTokenRouter(t, nil)

	w := issueRequest(t, router, gin.H{
		"user_id":     "user-1",
		"content_id":  "movie-1",
		"permissions": []string{"view"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		AccessToken string    `json:"access_token"`
		ExpiresAt   time.Time `json:"expires_at"`
		Watermark   string    `json:"watermark"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.Watermark)
	assert.True(t, resp.ExpiresAt.After(time.Now()))
}

func TestIssueToken_RejectsBadRequests(t *testing.T) {
	router := newTokenRouter(t, nil)

	cases := []struct {
		name string
		body gin.H
	}{
		{"missing user_id", gin.H{"content_id": "movie-1", "permissions": []string{"view"}}},
		{"missing content_id", gin.H{"user_id": "user-1", "permissions": []string{"view"}}},
		{"empty permissions", gin.H{"user_id": "user-1", "content_id": "movie-1", "permissions": []string{}}},
		{"unknown permission", gin.H{"user_id": "user-1", "content_id": "movie-1", "permissions": []string{"admin"}}},
		{"bad identifier characters", gin.H{"user_id": "user 1;drop", "content_id": "movie-1", "permissions": []string{"view"}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := issueRequest(t, router, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestIssueToken_NotEntitled(t *testing.T) {
	router := newTokenRouter(t, denyAllChecker{})

	w := issueRequest(t, router, gin.H{
		"user_id":     "user-1",
		"content_id":  "movie-1",
		"permissions": []string{"view"},
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	var resp struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "NOT_ENTITLED", resp.Error)
}
