package quiz

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"neeklo-backend/internal/shared/session"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(DefaultTable(), session.NewStore[Session](time.Minute, nil)).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestRecommendEndpoint(t *testing.T) {
	r := newTestRouter()
	resp := do(r, http.MethodPost, "/api/v1/quiz/recommend", Answers{What: "site", Why: "leads", When: "asap"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var res Result
	if err := json.Unmarshal(resp.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Slug != "website" || res.ContactLink == "" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestSessionEndpointsFlow(t *testing.T) {
	r := newTestRouter()

	resp := do(r, http.MethodPost, "/api/v1/quiz/sessions", nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
	var view sessionResponse
	_ = json.Unmarshal(resp.Body.Bytes(), &view)
	if view.ID == "" || view.Step != StepWhat || len(view.Options) != 4 {
		t.Fatalf("unexpected create view: %+v", view)
	}
	base := "/api/v1/quiz/sessions/" + view.ID

	for _, v := range []string{"video", "image", "month"} {
		resp = do(r, http.MethodPost, base+"/answer", answerRequest{Value: v})
		if resp.Code != http.StatusOK {
			t.Fatalf("answer %s: expected 200, got %d", v, resp.Code)
		}
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &view)
	if view.Step != StepResult || view.Result == nil || view.Result.Slug != "ai-video" {
		t.Fatalf("unexpected final view: %+v", view)
	}

	resp = do(r, http.MethodPost, base+"/answer", answerRequest{Value: "x"})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 after result, got %d", resp.Code)
	}

	resp = do(r, http.MethodPost, base+"/reset", nil)
	_ = json.Unmarshal(resp.Body.Bytes(), &view)
	if resp.Code != http.StatusOK || view.Step != StepWhat {
		t.Fatalf("unexpected reset: %d %+v", resp.Code, view)
	}

	resp = do(r, http.MethodPost, base+"/back", nil)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 on back at start, got %d", resp.Code)
	}

	resp = do(r, http.MethodDelete, base, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
	resp = do(r, http.MethodGet, base, nil)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", resp.Code)
	}
}
