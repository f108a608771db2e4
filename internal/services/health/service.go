package health

import (
	"context"
	"database/sql"
	"time"
)

const pingTimeout = 2 * time.Second

// Report is the health payload.
type Report struct {
	OK       bool              `json:"ok"`
	Checks   map[string]string `json:"checks"`
	Products int               `json:"products"`
}

// Service encapsulates health-related checks.
type Service struct {
	DB       *sql.DB
	Products int
}

// NewService constructs a new health service. db may be nil when running on in-memory repositories.
func NewService(db *sql.DB, products int) *Service {
	return &Service{DB: db, Products: products}
}

// Status pings dependencies and reports the result.
func (s *Service) Status(ctx context.Context) Report {
	r := Report{OK: true, Checks: map[string]string{}, Products: s.Products}
	if s.DB == nil {
		r.Checks["database"] = "memory"
		return r
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		r.OK = false
		r.Checks["database"] = "unreachable"
		return r
	}
	r.Checks["database"] = "ok"
	return r
}
