package respond

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"neeklo-backend/internal/shared/telemetry"
)

func TestErrorEnvelope(t *testing.T) {
	restore := telemetry.SetOutput(&bytes.Buffer{})
	defer restore()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/products/:slug", func(c *gin.Context) {
		Error(c, http.StatusUnprocessableEntity, CodeValidation, "bad", []string{"name"})
	})
	r.GET("/missing", func(c *gin.Context) { NotFound(c, "no such product") })

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/products/x", nil))
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v (%s)", err, resp.Body.String())
	}
	if body.Error.Code != CodeValidation || body.Error.Message != "bad" {
		t.Fatalf("unexpected body %+v", body)
	}

	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if resp.Code != http.StatusNotFound || !bytes.Contains(resp.Body.Bytes(), []byte(`"not_found"`)) {
		t.Fatalf("unexpected 404 response %d %s", resp.Code, resp.Body.String())
	}
}
