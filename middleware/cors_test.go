package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RainParade/rain-parade-backend/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func corsTestRouter(cfg *config.ServerConfig) *gin.Engine {
	router := gin.New()
	router.Use(CORSMiddleware(cfg))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return router
}

func TestCORSMiddleware_AllowAll(t *testing.T) {
	router := corsTestRouter(&config.ServerConfig{AllowedOrigins: []string{"*"}})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Origin", "https://example.com")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_SpecificOrigin(t *testing.T) {
	router := corsTestRouter(&config.ServerConfig{
		AllowedOrigins: []string{"https://app.rainparade.dev"},
	})

	t.Run("allowed origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		req.Header.Set("Origin", "https://app.rainparade.dev")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://app.rainparade.dev", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("disallowed origin", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		router.ServeHTTP(w, req)

		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestCORSMiddleware_WildcardSubdomain(t *testing.T) {
	router := corsTestRouter(&config.ServerConfig{
		AllowedOrigins: []string{"*.rainparade.dev"},
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Origin", "https://staging.rainparade.dev")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://staging.rainparade.dev", w.Header().Get("Access-Control-Allow-Origin"))
}
