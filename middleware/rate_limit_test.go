package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RainParade/rain-parade-backend/logger"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
	logger.IsTest = true
}

func TestAPIRateLimiter(t *testing.T) {
	window := 60 * time.Second

	t.Run("allows requests under limit", func(t *testing.T) {
		client, mock := redismock.NewClientMock()

		mock.ExpectTxPipeline()
		mock.ExpectIncr("ratelimit:api:192.168.1.1").SetVal(1)
		mock.ExpectExpire("ratelimit:api:192.168.1.1", window).SetVal(true)
		mock.ExpectTxPipelineExec()

		router := gin.New()
		router.Use(ErrorHandler())
		router.Use(APIRateLimiter(client, 5, window))
		router.GET("/test", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "success"})
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "192.168.1.1:1234"
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("blocks requests over limit", func(t *testing.T) {
		client, mock := redismock.NewClientMock()

		mock.ExpectTxPipeline()
		mock.ExpectIncr("ratelimit:api:192.168.1.2").SetVal(4)
		mock.ExpectExpire("ratelimit:api:192.168.1.2", window).SetVal(true)
		mock.ExpectTxPipelineExec()
		mock.ExpectTTL("ratelimit:api:192.168.1.2").SetVal(42 * time.Second)

		router := gin.New()
		router.Use(ErrorHandler())
		router.Use(APIRateLimiter(client, 3, window))
		router.GET("/test", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "success"})
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "192.168.1.2:1234"
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
		assert.Equal(t, "42", w.Header().Get("Retry-After"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("handles Redis failure gracefully", func(t *testing.T) {
		// No expectations set, so the pipeline exec fails and the
		// limiter must let the request through.
		client, _ := redismock.NewClientMock()

		router := gin.New()
		router.Use(APIRateLimiter(client, 5, window))
		router.GET("/test", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "success"})
		})

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "192.168.1.3:1234"
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name          string
		remoteAddr    string
		xForwardedFor string
		xRealIP       string
		expectedIP    string
	}{
		{
			name:          "uses X-Forwarded-For first IP",
			remoteAddr:    "192.168.1.1:1234",
			xForwardedFor: "10.0.0.1, 10.0.0.2, 10.0.0.3",
			expectedIP:    "10.0.0.1",
		},
		{
			name:       "uses X-Real-IP when X-Forwarded-For is empty",
			remoteAddr: "192.168.1.1:1234",
			xRealIP:    "10.0.0.1",
			expectedIP: "10.0.0.1",
		},
		{
			name:       "falls back to RemoteAddr",
			remoteAddr: "192.168.1.1:1234",
			expectedIP: "192.168.1.1",
		},
		{
			name:          "prefers X-Forwarded-For over X-Real-IP",
			remoteAddr:    "192.168.1.1:1234",
			xForwardedFor: "10.0.0.1",
			xRealIP:       "10.0.0.2",
			expectedIP:    "10.0.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			req, _ := http.NewRequest("GET", "/test", nil)
			req.RemoteAddr = tt.remoteAddr

			if tt.xForwardedFor != "" {
				req.Header.Set("X-Forwarded-For", tt.xForwardedFor)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}

			c.Request = req

			assert.Equal(t, tt.expectedIP, getClientIP(c))
		})
	}
}
