package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"neeklo-backend/internal/shared/telemetry"
)

func TestRequestIDKeepsUpstreamToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	var seen string
	r.GET("/x", func(c *gin.Context) {
		seen = RequestIDFromContext(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "gw-123_abc")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if seen != "gw-123_abc" || resp.Header().Get("X-Request-Id") != "gw-123_abc" {
		t.Fatalf("expected upstream id kept, got %q / %q", seen, resp.Header().Get("X-Request-Id"))
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "bad id\r\n")
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if seen == "" || strings.ContainsAny(seen, " \r\n") {
		t.Fatalf("expected generated id, got %q", seen)
	}
}

func TestRecoveryWritesEnvelope(t *testing.T) {
	var logs bytes.Buffer
	restore := telemetry.SetOutput(&logs)
	defer restore()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/boom", func(c *gin.Context) {
		c.Set(LogProductKey, "website")
		panic("kaboom")
	})

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/boom", nil))
	telemetry.Sync()

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"code":"internal"`) {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
	if !strings.Contains(logs.String(), "http.panic") || !strings.Contains(logs.String(), `"product":"website"`) {
		t.Fatalf("expected panic log with product, got %s", logs.String())
	}
}
