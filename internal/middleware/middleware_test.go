package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/javajoker/chemist-backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, utils.GetRequestID(c))
	})

	t.Run("generates id", func(t *testing.T) {
		w := serve(r, httptest.NewRequest("GET", "/ping", nil))
		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("reuses valid header", func(t *testing.T) {
		incoming := uuid.New().String()
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set(RequestIDHeader, incoming)

		w := serve(r, req)
		assert.Equal(t, incoming, w.Header().Get(RequestIDHeader))
	})

	t.Run("replaces malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ping", nil)
		req.Header.Set(RequestIDHeader, "<script>")

		w := serve(r, req)
		assert.NotEqual(t, "<script>", w.Header().Get(RequestIDHeader))
	})
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(rate.Every(time.Hour), 2)
	defer limiter.Stop()

	r := gin.New()
	r.Use(limiter.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 2; i++ {
		w := serve(r, httptest.NewRequest("GET", "/ping", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}

	w := serve(r, httptest.NewRequest("GET", "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var body utils.ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "RATE_LIMITED", body.Code)

	// A different client has its own bucket.
	req := httptest.NewRequest("GET", "/ping", nil)
	req.RemoteAddr = "10.0.0.7:4321"
	assert.Equal(t, http.StatusNoContent, serve(r, req).Code)

	limiter.evictIdle(0)
	limiter.mtx.Lock()
	assert.Empty(t, limiter.visitors)
	limiter.mtx.Unlock()
}

func TestRateLimiterStop(t *testing.T) {
	limiter := NewRateLimiter(rate.Limit(10), 5)

	limiter.Stop()
	limiter.Stop()

	select {
	case <-limiter.done:
	case <-time.After(time.Second):
		t.Fatal("done channel not closed after Stop")
	}
}

func TestAuthRequired(t *testing.T) {
	manager := utils.NewJWTManager("middleware-secret")

	r := gin.New()
	r.Use(AuthRequired(manager))
	r.POST("/medicines", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"subject": c.GetString(ContextSubjectKey),
			"role":    c.GetString(ContextRoleKey),
		})
	})

	valid, err := manager.GenerateJWT("pharmacist-7", "staff", time.Hour)
	require.NoError(t, err)
	foreign, err := utils.NewJWTManager("other-secret").GenerateJWT("pharmacist-7", "staff", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"no token", "Bearer", http.StatusUnauthorized},
		{"foreign signature", "Bearer " + foreign, http.StatusUnauthorized},
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"lowercase scheme", "bearer " + valid, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/medicines", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := serve(r, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"subject":"pharmacist-7","role":"staff"}`, w.Body.String())
			}
		})
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:3000"}))
	r.GET("/api/medicines", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("OPTIONS", "/api/medicines", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "PATCH")

	w := serve(r, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestExtractResource(t *testing.T) {
	tests := []struct {
		path         string
		resourceType string
		resourceID   string
	}{
		{"/api/medicines/42/quantity", "medicines", "42"},
		{"/api/categories", "categories", ""},
		{"/health", "health", ""},
		{"/", "unknown", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.resourceType, extractResourceType(tt.path))
			assert.Equal(t, tt.resourceID, extractResourceID(tt.path))
		})
	}
}
