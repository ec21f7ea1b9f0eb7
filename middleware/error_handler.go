package middleware

import (
	"fmt"
	"runtime/debug"
	"strconv"

	"github.com/RainParade/rain-parade-backend/errors"
	"github.com/RainParade/rain-parade-backend/logger"
	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Code    string `json:"code,omitempty"`
}

// ErrorHandler converts errors attached to the gin context into JSON
// responses. Every external-call failure reaching this point becomes a
// user-visible, non-fatal message; nothing propagates as a crash.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Capture stack trace before Next() to preserve the full call stack
		stackTrace := debug.Stack()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err

		metadata := map[string]interface{}{
			"path":        c.Request.URL.Path,
			"method":      c.Request.Method,
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
			"stack_trace": string(stackTrace),
		}

		// Handle AppError
		if appError, ok := err.(*errors.AppError); ok {
			statusCode := appError.GetHTTPStatus()

			metadata["error_type"] = string(appError.Type)
			metadata["error_message"] = appError.Message
			if appError.Detail != "" {
				metadata["error_detail"] = appError.Detail
			}

			logger.LogHTTPError(c, err, statusCode, fmt.Sprintf("%s error", appError.Type))

			response := map[string]interface{}{
				"type":    string(appError.Type),
				"message": appError.Message,
				"code":    strconv.Itoa(statusCode),
			}
			if rid := RequestID(c); rid != "" {
				response["request_id"] = rid
			}

			// Only include details for validation and not-found errors or in debug mode
			if appError.Detail != "" && (gin.IsDebugging() ||
				appError.Type == errors.ValidationError ||
				appError.Type == errors.NotFoundError) {
				response["details"] = appError.Detail
			}

			c.JSON(statusCode, response)
			return
		}

		// Handle Gin binding errors, which come as public errors
		if c.Errors.Last().Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, err, 400, "Request binding error")

			response := map[string]interface{}{
				"type":    string(errors.ValidationError),
				"message": "Failed to bind request",
				"code":    "400",
			}
			if gin.IsDebugging() {
				response["details"] = err.Error()
			}

			c.JSON(400, response)
			return
		}

		// Handle Gin public errors
		if c.Errors.Last().Type == gin.ErrorTypePublic {
			logger.LogHTTPError(c, err, 400, "Public error")

			c.JSON(400, map[string]interface{}{
				"type":    string(errors.ValidationError),
				"message": err.Error(),
				"code":    "400",
			})
			return
		}

		// Handle unknown errors
		logger.LogError(c.Request.Context(), err, "Unexpected server error", metadata)
		logger.LogHTTPError(c, err, 500, "Unexpected server error")

		response := map[string]interface{}{
			"type":    string(errors.ServerError),
			"message": "Internal Server Error",
			"code":    "500",
		}
		if rid := RequestID(c); rid != "" {
			response["request_id"] = rid
		}
		if gin.IsDebugging() {
			response["details"] = err.Error()
		}

		c.JSON(500, response)
	}
}
