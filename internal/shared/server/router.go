package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"neeklo-backend/internal/catalog"
	"neeklo-backend/internal/estimate"
	"neeklo-backend/internal/leads"
	"neeklo-backend/internal/quiz"
	"neeklo-backend/internal/search"
	"neeklo-backend/internal/services/health"
	"neeklo-backend/internal/shared/config"
	"neeklo-backend/internal/shared/metrics"
	"neeklo-backend/internal/shared/server/middleware"
	"neeklo-backend/internal/shared/server/respond"
	"neeklo-backend/internal/wizard"
)

// Rate limit groups.
const (
	GroupDefault = "DEFAULT"
	GroupSearch  = "SEARCH"
	GroupLeads   = "LEADS"
)

// RouterDeps lists the handlers mounted by NewRouter. Nil handlers are skipped.
type RouterDeps struct {
	Config          config.Config
	Health          *health.Service
	CatalogHandler  *catalog.Handler
	QuizHandler     *quiz.Handler
	EstimateHandler *estimate.Handler
	WizardHandler   *wizard.Handler
	SearchHandler   *search.Handler
	LeadsHandler    *leads.Handler
	RateLimiter     *middleware.RateLimiter
}

// DefaultRateLimits are tokens per second and burst per visitor.
var DefaultRateLimits = map[string]middleware.RateLimitRule{
	GroupDefault: {Rate: 10, Burst: 40},
	GroupSearch:  {Rate: 20, Burst: 60},
	GroupLeads:   {Rate: 1.0 / 60, Burst: 5},
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if !deps.Config.IsDevLike() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Visitor(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:        DefaultRateLimits,
			DefaultGroup: GroupDefault,
			GroupFor:     rateLimitGroup,
			Limiter:      deps.RateLimiter,
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		report := deps.Health.Status(c.Request.Context())
		status := http.StatusOK
		if !report.OK {
			status = http.StatusServiceUnavailable
		}
		respond.JSON(c, status, report)
	})
	registerVisitorRoutes(api)

	if deps.CatalogHandler != nil {
		deps.CatalogHandler.RegisterRoutes(api)
	}
	if deps.QuizHandler != nil {
		deps.QuizHandler.RegisterRoutes(api)
	}
	if deps.EstimateHandler != nil {
		deps.EstimateHandler.RegisterRoutes(api)
	}
	if deps.WizardHandler != nil {
		deps.WizardHandler.RegisterRoutes(api)
	}
	if deps.SearchHandler != nil {
		deps.SearchHandler.RegisterRoutes(api)
	}
	if deps.LeadsHandler != nil {
		deps.LeadsHandler.RegisterRoutes(api)
	}

	return r
}

func rateLimitGroup(c *gin.Context) string {
	path := c.FullPath()
	switch {
	case path == "/api/v1/leads", strings.HasSuffix(path, "/submit"):
		return GroupLeads
	case strings.HasPrefix(path, "/api/v1/search"):
		return GroupSearch
	case path == "/metrics", path == "/api/v1/health":
		return "NONE"
	default:
		return GroupDefault
	}
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
