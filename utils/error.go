package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of generic error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler recovers panics, and renders the last error a handler
// attached with c.Error if nothing was written yet.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				GetLogger().Error("Unhandled panic", zap.Any("panic", r), zap.String("path", c.FullPath()))
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error:   "internal",
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
		if len(c.Errors) > 0 && !c.Writer.Written() {
			RespondError(c, c.Errors.Last().Err)
		}
	}
}

// JSONError logs and writes a generic error response.
func JSONError(c *gin.Context, status int, message string, details string) {
	GetLogger().Warn(message, zap.Int("status", status), zap.String("details", details))
	c.JSON(status, ErrorResponse{Error: http.StatusText(status), Message: message, Details: details})
}
