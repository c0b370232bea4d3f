package handlers

import (
	"nutrilog/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger returns the request logger set by utils.RequestLogger, tagged
// with the caller.
func getLogger(c *gin.Context) *zap.Logger {
	logger := utils.GetLogger()
	if l, exists := c.Get("logger"); exists {
		if reqLogger, ok := l.(*zap.Logger); ok {
			logger = reqLogger
		}
	}
	if userID := c.GetString("userID"); userID != "" {
		logger = logger.With(zap.String("userId", userID))
	}
	return logger
}
