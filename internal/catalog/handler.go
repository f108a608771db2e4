package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"neeklo-backend/internal/shared/server/middleware"
	"neeklo-backend/internal/shared/server/respond"
)

// Handler serves read-only catalog routes.
type Handler struct {
	Catalog *Catalog
}

// NewHandler constructs a Handler.
func NewHandler(c *Catalog) *Handler {
	return &Handler{Catalog: c}
}

// RegisterRoutes attaches catalog routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/catalog/products", h.list)
	rg.GET("/catalog/products/:slug", h.get)
}

type productSummary struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags,omitempty"`
	PriceFrom   Money    `json:"priceFrom"`
	Packages    int      `json:"packages"`
}

func (h *Handler) list(c *gin.Context) {
	products := h.Catalog.Products()
	items := make([]productSummary, 0, len(products))
	for _, p := range products {
		items = append(items, productSummary{
			Slug:        p.Slug,
			Name:        p.Name,
			Description: p.Description,
			Category:    p.Category,
			Tags:        p.Tags,
			PriceFrom:   p.StartingPrice(),
			Packages:    len(p.Packages),
		})
	}
	respond.OK(c, gin.H{"items": items})
}

func (h *Handler) get(c *gin.Context) {
	slug := c.Param("slug")
	c.Set(middleware.LogProductKey, slug)
	p, ok := h.Catalog.Product(slug)
	if !ok {
		respond.Error(c, http.StatusNotFound, "not_found", "product not found", nil)
		return
	}
	respond.OK(c, p)
}
