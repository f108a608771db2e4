package quiz

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"neeklo-backend/internal/shared/metrics"
	"neeklo-backend/internal/shared/server/middleware"
	"neeklo-backend/internal/shared/server/respond"
	"neeklo-backend/internal/shared/session"
)

// Handler serves the recommendation quiz.
type Handler struct {
	Table    *Table
	Sessions *session.Store[Session]
}

// NewHandler constructs a Handler.
func NewHandler(t *Table, store *session.Store[Session]) *Handler {
	return &Handler{Table: t, Sessions: store}
}

// RegisterRoutes attaches quiz routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/quiz/recommend", h.recommend)
	rg.POST("/quiz/sessions", h.create)
	rg.GET("/quiz/sessions/:id", h.get)
	rg.POST("/quiz/sessions/:id/answer", h.answer)
	rg.POST("/quiz/sessions/:id/back", h.back)
	rg.POST("/quiz/sessions/:id/reset", h.reset)
	rg.DELETE("/quiz/sessions/:id", h.remove)
}

type sessionResponse struct {
	ID      string   `json:"id"`
	Step    Step     `json:"step"`
	Answers Answers  `json:"answers"`
	Options []Choice `json:"options"`
	Result  *Result  `json:"result,omitempty"`
}

func (h *Handler) view(id string, s Session) sessionResponse {
	opts := h.Table.Options(s.Step)
	if opts == nil {
		opts = []Choice{}
	}
	return sessionResponse{ID: id, Step: s.Step, Answers: s.Answers, Options: opts, Result: s.Result}
}

func (h *Handler) recommend(c *gin.Context) {
	var req Answers
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	res := h.Table.Recommend(req)
	c.Set(middleware.LogProductKey, res.Slug)
	metrics.IncRecommendation(res.Slug)
	respond.OK(c, res)
}

func (h *Handler) create(c *gin.Context) {
	s := Start()
	id := h.Sessions.Create(s)
	c.Set(middleware.LogSessionKey, id)
	respond.JSON(c, http.StatusCreated, h.view(id, s))
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.LogSessionKey, id)
	s, err := h.Sessions.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, h.view(id, s))
}

type answerRequest struct {
	Value string `json:"value"`
}

func (h *Handler) answer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	s, ok := h.update(c, func(s Session) (Session, error) {
		return s.Answer(h.Table, strings.TrimSpace(req.Value))
	})
	if ok && s.Done() {
		metrics.IncRecommendation(s.Result.Slug)
	}
}

func (h *Handler) back(c *gin.Context) {
	_, _ = h.update(c, Session.Back)
}

func (h *Handler) reset(c *gin.Context) {
	_, _ = h.update(c, func(s Session) (Session, error) { return s.Reset(), nil })
}

func (h *Handler) update(c *gin.Context, fn func(Session) (Session, error)) (Session, bool) {
	id := c.Param("id")
	c.Set(middleware.LogSessionKey, id)
	s, err := h.Sessions.Update(id, fn)
	if err != nil {
		writeError(c, err)
		return s, false
	}
	if s.Result != nil {
		c.Set(middleware.LogProductKey, s.Result.Slug)
	}
	respond.OK(c, h.view(id, s))
	return s, true
}

func (h *Handler) remove(c *gin.Context) {
	h.Sessions.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "quiz session not found", nil)
	case errors.Is(err, ErrFinished):
		respond.Error(c, http.StatusConflict, "quiz_finished", "quiz already has a result, reset to start over", nil)
	case errors.Is(err, ErrAtStart):
		respond.Error(c, http.StatusConflict, "quiz_at_start", "already at the first step", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal", "unexpected error", nil)
	}
}
