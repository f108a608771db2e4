package leads

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"neeklo-backend/internal/shared/server/middleware"
	"neeklo-backend/internal/shared/server/respond"
)

// Handler exposes the contact form endpoint.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches lead routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/leads", h.submit)
}

type submitRequest struct {
	Source  Source `json:"source"`
	Product string `json:"product"`
	Summary string `json:"summary"`
	Contact
}

func (h *Handler) submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.Product != "" {
		c.Set(middleware.LogProductKey, req.Product)
	}
	res, err := h.Svc.Submit(c.Request.Context(), Submission{
		VisitorID:   middleware.VisitorIDFromContext(c),
		RequestID:   middleware.RequestIDFromContext(c),
		Source:      req.Source,
		ProductSlug: req.Product,
		Contact:     req.Contact,
		Summary:     req.Summary,
	})
	if err != nil {
		WriteValidationError(c, err)
		return
	}
	if res.LeadID != "" {
		c.Set(middleware.LogLeadKey, res.LeadID)
	}
	if !res.Success {
		respond.JSON(c, http.StatusBadGateway, res)
		return
	}
	respond.JSON(c, http.StatusCreated, res)
}

// WriteValidationError renders contact validation failures as a 422 with per-field details.
func WriteValidationError(c *gin.Context, err error) {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", "contact details are invalid", verrs)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to submit lead", nil)
}
