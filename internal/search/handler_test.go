package search

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	idx, err := Default()
	require.NoError(t, err)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(idx, nil).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestSearchEndpoint(t *testing.T) {
	r := newTestRouter(t)
	resp := get(r, "/api/v1/search?q="+url.QueryEscape("AI видео"))
	require.Equal(t, http.StatusOK, resp.Code)

	var body searchResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.NotEmpty(t, body.Results)
	assert.Equal(t, "product-ai-video", body.Results[0].ID)
	assert.Empty(t, body.Suggestions)
}

func TestSearchEndpointEmptyQueryShowsSuggestions(t *testing.T) {
	r := newTestRouter(t)
	resp := get(r, "/api/v1/search")
	require.Equal(t, http.StatusOK, resp.Code)

	var body searchResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Empty(t, body.Results)
	assert.NotEmpty(t, body.Suggestions)
}

func TestSearchEndpointRejectsLongQuery(t *testing.T) {
	r := newTestRouter(t)
	resp := get(r, "/api/v1/search?q="+strings.Repeat("a", maxQueryLen+1))
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSuggestionsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	resp := get(r, "/api/v1/search/suggestions")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Telegram-бот")
}

func TestLiveRouteDisabledWithoutLive(t *testing.T) {
	r := newTestRouter(t)
	assert.Equal(t, http.StatusNotFound, get(r, "/api/v1/search/live").Code)
}
