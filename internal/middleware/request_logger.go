package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/dealership-api/pkg/logger"
)

// quietPrefixes are polled or static paths that would drown the request log.
var quietPrefixes = []string{"/api/v1/health", "/swagger/", "/uploads/"}

// RequestLogger logs every request with its route, status and latency
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		statusCode := c.Writer.Status()
		if statusCode < 400 && quiet(path) {
			return
		}

		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("route", c.FullPath()),
			slog.Int("status", statusCode),
			slog.String("ip", c.ClientIP()),
			slog.Duration("latency", time.Since(start)),
			slog.Int("bytes", c.Writer.Size()),
		}
		if errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String(); errorMessage != "" {
			attrs = append(attrs, slog.String("error", errorMessage))
		}
		if userID := GetUserID(c); userID != 0 {
			attrs = append(attrs, slog.Uint64("user_id", uint64(userID)), slog.String("role", GetUserRole(c)))
		}

		switch {
		case statusCode >= 500:
			logger.Log.Error("Request failed", attrs...)
		case statusCode >= 400:
			logger.Log.Warn("Request rejected", attrs...)
		default:
			logger.Log.Info("Request served", attrs...)
		}
	}
}

func quiet(path string) bool {
	for _, p := range quietPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
