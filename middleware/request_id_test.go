package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/RainParade/rain-parade-backend/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestIDRouter() *gin.Engine {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": RequestID(c)})
	})
	return router
}

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	router := requestIDRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)

	header := w.Header().Get("X-Request-ID")
	require.NotEmpty(t, header)
	_, err := uuid.Parse(header)
	assert.NoError(t, err)
}

func TestRequestIDMiddleware_ReusesValidID(t *testing.T) {
	router := requestIDRouter()
	inbound := uuid.New().String()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", inbound)
	router.ServeHTTP(w, req)

	assert.Equal(t, inbound, w.Header().Get("X-Request-ID"))
}

func TestRequestIDMiddleware_ReplacesMalformedID(t *testing.T) {
	router := requestIDRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", "not-a-uuid\r\ninjected")
	router.ServeHTTP(w, req)

	header := w.Header().Get("X-Request-ID")
	assert.NotEqual(t, "not-a-uuid\r\ninjected", header)
	_, err := uuid.Parse(header)
	assert.NoError(t, err)
}

func TestErrorResponseCarriesRequestID(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(ErrorHandler())
	router.GET("/test", func(c *gin.Context) {
		_ = c.Error(apperrors.NotFound("Event", "evt-1"))
		c.Abort()
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	body := decodeErrorBody(t, w)
	assert.Equal(t, w.Header().Get("X-Request-ID"), body["request_id"])
}
