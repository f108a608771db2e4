package wizard

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"neeklo-backend/internal/catalog"
	"neeklo-backend/internal/estimate"
	"neeklo-backend/internal/leads"
	"neeklo-backend/internal/shared/server/middleware"
	"neeklo-backend/internal/shared/server/respond"
	"neeklo-backend/internal/shared/session"
)

// Handler serves the product brief wizard.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches wizard routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/wizard/sessions", h.create)
	rg.GET("/wizard/sessions/:id", h.get)
	rg.PUT("/wizard/sessions/:id/package", h.selectPackage)
	rg.PUT("/wizard/sessions/:id/answers/:question", h.setAnswer)
	rg.POST("/wizard/sessions/:id/next", h.next)
	rg.POST("/wizard/sessions/:id/back", h.back)
	rg.POST("/wizard/sessions/:id/submit", h.submit)
	rg.DELETE("/wizard/sessions/:id", h.remove)
}

type estimateView struct {
	estimate.Estimate
	TotalLabel string `json:"totalLabel"`
	DaysLabel  string `json:"daysLabel"`
}

type sessionResponse struct {
	ID        string             `json:"id"`
	Product   string             `json:"product"`
	Package   string             `json:"package,omitempty"`
	Step      Step               `json:"step"`
	Position  int                `json:"position"`
	Steps     []Step             `json:"steps"`
	Question  *catalog.Question  `json:"question,omitempty"`
	Packages  []catalog.Package  `json:"packages,omitempty"`
	Answers   estimate.AnswerSet `json:"answers"`
	Estimate  *estimateView      `json:"estimate,omitempty"`
	Summary   string             `json:"summary,omitempty"`
	LeadID    string             `json:"leadId,omitempty"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func view(id string, s Session) sessionResponse {
	resp := sessionResponse{
		ID:        id,
		Product:   s.Product.Slug,
		Package:   s.Package,
		Step:      s.Current(),
		Position:  s.Position,
		Steps:     s.Steps(),
		Answers:   s.Answers,
		LeadID:    s.LeadID,
		UpdatedAt: s.UpdatedAt,
	}
	switch resp.Step.Kind {
	case StepPackage:
		resp.Packages = s.Product.Packages
	case StepQuestion:
		if q, ok := s.Product.Question(resp.Step.QuestionID); ok {
			resp.Question = &q
		}
	case StepContact, StepDone:
		resp.Summary = s.Summary()
	}
	if est, ok := s.Estimate(); ok {
		resp.Estimate = &estimateView{Estimate: est, TotalLabel: est.TotalLabel(), DaysLabel: est.DaysLabel()}
	}
	return resp
}

type createRequest struct {
	Product string `json:"product"`
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	slug := strings.TrimSpace(req.Product)
	if slug == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "product is required", nil)
		return
	}
	c.Set(middleware.LogProductKey, slug)
	id, s, err := h.Svc.Start(slug)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.LogSessionKey, id)
	respond.JSON(c, http.StatusCreated, view(id, s))
}

func (h *Handler) get(c *gin.Context) {
	id := c.Param("id")
	c.Set(middleware.LogSessionKey, id)
	s, err := h.Svc.Get(id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, view(id, s))
}

type packageRequest struct {
	Package string `json:"package"`
}

func (h *Handler) selectPackage(c *gin.Context) {
	var req packageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	h.update(c, func(id string) (Session, error) { return h.Svc.SelectPackage(id, req.Package) })
}

type answerRequest struct {
	Value estimate.Selection `json:"value"`
}

func (h *Handler) setAnswer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	question := c.Param("question")
	h.update(c, func(id string) (Session, error) { return h.Svc.SetAnswer(id, question, req.Value) })
}

func (h *Handler) next(c *gin.Context) {
	h.update(c, h.Svc.Next)
}

func (h *Handler) back(c *gin.Context) {
	h.update(c, h.Svc.Back)
}

func (h *Handler) update(c *gin.Context, fn func(id string) (Session, error)) {
	id := c.Param("id")
	c.Set(middleware.LogSessionKey, id)
	s, err := fn(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.LogProductKey, s.Product.Slug)
	respond.OK(c, view(id, s))
}

type submitResponse struct {
	leads.Result
	Session sessionResponse `json:"session"`
}

func (h *Handler) submit(c *gin.Context) {
	var contact leads.Contact
	if err := c.ShouldBindJSON(&contact); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	id := c.Param("id")
	c.Set(middleware.LogSessionKey, id)
	s, res, err := h.Svc.Submit(c.Request.Context(), id, SubmitRequest{
		Contact:   contact,
		VisitorID: middleware.VisitorIDFromContext(c),
		RequestID: middleware.RequestIDFromContext(c),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(middleware.LogProductKey, s.Product.Slug)
	if res.LeadID != "" {
		c.Set(middleware.LogLeadKey, res.LeadID)
	}
	status := http.StatusCreated
	if !res.Success {
		status = http.StatusBadGateway
	}
	respond.JSON(c, status, submitResponse{Result: res, Session: view(id, s)})
}

func (h *Handler) remove(c *gin.Context) {
	h.Svc.Close(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func writeError(c *gin.Context, err error) {
	var verr *ValidationError
	var lerrs leads.ValidationErrors
	switch {
	case errors.As(err, &verr):
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", verr.Message, []*ValidationError{verr})
	case errors.As(err, &lerrs):
		leads.WriteValidationError(c, lerrs)
	case errors.Is(err, session.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "wizard session not found", nil)
	case errors.Is(err, catalog.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "product not found", nil)
	case errors.Is(err, ErrUnknownQuestion):
		respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, ErrAtStart):
		respond.Error(c, http.StatusConflict, "wizard_at_start", "already at the first step", nil)
	case errors.Is(err, ErrLastStep):
		respond.Error(c, http.StatusConflict, "wizard_last_step", "submit contact details to finish", nil)
	case errors.Is(err, ErrSubmitting):
		respond.Error(c, http.StatusConflict, "wizard_submitting", "brief submission in progress", nil)
	case errors.Is(err, ErrSubmitted):
		respond.Error(c, http.StatusConflict, "wizard_submitted", "brief already submitted", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "unexpected error", nil)
	}
}
