package estimate

import (
	"fmt"

	"neeklo-backend/internal/catalog"
	"neeklo-backend/internal/shared/metrics"
)

// Service resolves catalog references and computes estimates.
type Service struct {
	Catalog *catalog.Catalog
}

// NewService constructs a Service.
func NewService(c *catalog.Catalog) *Service {
	return &Service{Catalog: c}
}

// Estimate computes the estimate for product/package with the given answers.
func (s *Service) Estimate(productSlug, packageID string, answers AnswerSet) (Estimate, error) {
	p, ok := s.Catalog.Product(productSlug)
	if !ok {
		return Estimate{}, fmt.Errorf("product %q: %w", productSlug, catalog.ErrNotFound)
	}
	pkg, ok := p.Package(packageID)
	if !ok {
		return Estimate{}, fmt.Errorf("package %q of %s: %w", packageID, productSlug, catalog.ErrNotFound)
	}
	metrics.IncEstimate()
	return Compute(pkg, p.Questions, answers), nil
}
