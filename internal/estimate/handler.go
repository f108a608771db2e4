package estimate

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"neeklo-backend/internal/catalog"
	"neeklo-backend/internal/shared/server/middleware"
	"neeklo-backend/internal/shared/server/respond"
)

// Handler exposes the estimate endpoint.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches estimate routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/estimates", h.create)
}

type estimateRequest struct {
	Product string    `json:"product"`
	Package string    `json:"package"`
	Answers AnswerSet `json:"answers"`
}

type estimateResponse struct {
	Estimate
	TotalLabel string `json:"totalLabel"`
	DaysLabel  string `json:"daysLabel"`
}

func (h *Handler) create(c *gin.Context) {
	var req estimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	req.Product = strings.TrimSpace(req.Product)
	req.Package = strings.TrimSpace(req.Package)
	if req.Product == "" || req.Package == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "product and package are required", nil)
		return
	}
	c.Set(middleware.LogProductKey, req.Product)

	est, err := h.Svc.Estimate(req.Product, req.Package, req.Answers)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "failed to compute estimate", nil)
		return
	}
	respond.OK(c, estimateResponse{Estimate: est, TotalLabel: est.TotalLabel(), DaysLabel: est.DaysLabel()})
}
