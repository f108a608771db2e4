package search

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"neeklo-backend/internal/shared/server/respond"
	"neeklo-backend/internal/shared/telemetry"
)

const maxQueryLen = 200

// Handler exposes search over HTTP and websockets.
type Handler struct {
	Index *Index
	Live  *Live
}

// NewHandler constructs a Handler. live may be nil to disable the websocket route.
func NewHandler(idx *Index, live *Live) *Handler {
	return &Handler{Index: idx, Live: live}
}

// RegisterRoutes attaches search routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.search)
	rg.GET("/search/suggestions", h.suggestions)
	if h.Live != nil {
		rg.GET("/search/live", h.live)
	}
}

type searchResponse struct {
	Query       string   `json:"query"`
	Results     []Hit    `json:"results"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (h *Handler) search(c *gin.Context) {
	q := c.Query("q")
	if len([]rune(q)) > maxQueryLen {
		respond.Error(c, http.StatusBadRequest, "validation_error", "query is too long", nil)
		return
	}
	resp := searchResponse{Query: q, Results: h.Index.Search(q)}
	if len(resp.Results) == 0 {
		resp.Suggestions = h.Index.Suggestions()
	}
	respond.OK(c, resp)
}

func (h *Handler) suggestions(c *gin.Context) {
	respond.OK(c, gin.H{"items": h.Index.Suggestions()})
}

func (h *Handler) live(c *gin.Context) {
	if err := h.Live.M.HandleRequest(c.Writer, c.Request); err != nil {
		telemetry.Warn("search.live_upgrade_failed", map[string]any{"error": err})
	}
}
