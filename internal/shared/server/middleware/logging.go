package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"neeklo-backend/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log line.
const (
	LogProductKey = "productSlug"
	LogLeadKey    = "leadId"
	LogSessionKey = "sessionId"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"visitor_id":  VisitorIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"product":     c.GetString(LogProductKey),
			"lead_id":     c.GetString(LogLeadKey),
			"session_id":  c.GetString(LogSessionKey),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		})
	}
}
