package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	visitorIDKey  = "visitorId"
	visitorHeader = "X-Visitor-Id"
	maxVisitorLen = 64
)

// Visitor identifies the anonymous site visitor. A well-formed X-Visitor-Id header is
// accepted as is, anything else is replaced with a fresh ID echoed back in the response.
func Visitor() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(visitorHeader))
		if !validToken(id, maxVisitorLen) {
			id = uuid.NewString()
		}
		c.Set(visitorIDKey, id)
		c.Writer.Header().Set(visitorHeader, id)
		c.Next()
	}
}

// VisitorIDFromContext returns the visitor ID stored by Visitor middleware.
func VisitorIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(visitorIDKey)
}

// validToken accepts [A-Za-z0-9_-] identifiers of at most maxLen bytes.
func validToken(id string, maxLen int) bool {
	if id == "" || len(id) > maxLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
