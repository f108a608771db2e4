package middleware

import (
	"io"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"neeklo-backend/internal/shared/server/respond"
	"neeklo-backend/internal/shared/telemetry"
)

// Recovery turns panics into the standard 500 envelope and logs the stack
// together with the request, visitor and product being handled.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		fields := map[string]any{
			"request_id": RequestIDFromContext(c),
			"visitor_id": VisitorIDFromContext(c),
			"error":      rec,
			"stack":      string(debug.Stack()),
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
		}
		if slug := c.GetString(LogProductKey); slug != "" {
			fields["product"] = slug
		}
		telemetry.Error("http.panic", fields)
		respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error", nil)
	})
}
