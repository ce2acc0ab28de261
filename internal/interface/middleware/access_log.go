package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AccessLog logs one line per request once the handler chain has finished.
// 5xx are logged at error level, 4xx at warn, everything else at info.
func AccessLog(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"route":      normalizePath(c),
			"status":     status,
			"dur":        time.Since(start).String(),
			"from":       ipFromCtx(c),
			"ua":         c.Request.UserAgent(),
			"request_id": c.GetString("request_id"),
		})
		msg := c.Request.Method + " " + c.Request.URL.Path
		switch status / 100 {
		case 5: //nolint: mnd // 5XX HTTP Status Codes
			entry.Error(msg)
		case 4: //nolint: mnd // 4XX HTTP Status Codes
			entry.Warn(msg)
		default:
			entry.Info(msg)
		}
	}
}
