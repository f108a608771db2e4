package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"neeklo-backend/internal/catalog"
	"neeklo-backend/internal/estimate"
	"neeklo-backend/internal/leads"
	"neeklo-backend/internal/notify"
	"neeklo-backend/internal/queue"
	"neeklo-backend/internal/quiz"
	"neeklo-backend/internal/search"
	"neeklo-backend/internal/services/health"
	"neeklo-backend/internal/shared/config"
	"neeklo-backend/internal/shared/server"
	"neeklo-backend/internal/shared/server/middleware"
	"neeklo-backend/internal/shared/session"
	"neeklo-backend/internal/shared/storage/db"
	"neeklo-backend/internal/shared/storage/object"
	localstore "neeklo-backend/internal/shared/storage/object/local"
	s3store "neeklo-backend/internal/shared/storage/object/s3"
	"neeklo-backend/internal/shared/telemetry"
	"neeklo-backend/internal/wizard"
)

// App holds shared dependencies and the HTTP router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client

	Catalog     *catalog.Catalog
	QuizTable   *quiz.Table
	SearchIndex *search.Index
	SearchLive  *search.Live

	LeadsRepo       leads.Repo
	LeadsService    *leads.Service
	EstimateService *estimate.Service
	WizardService   *wizard.Service
	QuizSessions    *session.Store[quiz.Session]
	WizardSessions  *session.Store[wizard.Session]
}

// Deliverer exposes lead delivery to the queue workers.
func (a *App) Deliverer() leads.Deliverer {
	return a.LeadsService
}

// Close releases long-lived resources.
func (a *App) Close() error {
	if a.SearchLive != nil {
		_ = a.SearchLive.Close()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	telemetry.SetLevel(cfg.LogLevel)
	ctx := context.Background()

	cat, err := buildCatalog(cfg)
	if err != nil {
		return nil, err
	}
	table := quiz.DefaultTable()
	if err := table.Validate(cat); err != nil {
		return nil, fmt.Errorf("quiz table: %w", err)
	}
	idx, err := buildSearchIndex(cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := openDatabase(ctx, cfg)
	if err != nil {
		return nil, err
	}
	fail := func(err error) (*App, error) {
		// The Lambda pool is a process singleton reused by the next init attempt.
		if sqlDB != nil && !db.IsLambdaRuntime() {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	store, err := BuildStore(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	notifier, err := buildNotifier(cfg)
	if err != nil {
		return fail(err)
	}

	app := &App{
		Config:      cfg,
		DB:          sqlDB,
		Store:       store,
		Queue:       queueClient,
		Catalog:     cat,
		QuizTable:   table,
		SearchIndex: idx,
	}
	buildServices(app, notifier)

	app.SearchLive = search.NewLive(idx, cfg.SearchDebounce)
	app.SearchLive.AllowOrigins(cfg.CORSAllowOrigin)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		Health:          health.NewService(sqlDB, len(cat.Products())),
		CatalogHandler:  catalog.NewHandler(cat),
		QuizHandler:     quiz.NewHandler(table, app.QuizSessions),
		EstimateHandler: estimate.NewHandler(app.EstimateService),
		WizardHandler:   wizard.NewHandler(app.WizardService),
		SearchHandler:   search.NewHandler(idx, app.SearchLive),
		LeadsHandler:    leads.NewHandler(app.LeadsService),
		RateLimiter:     middleware.NewRateLimiter(time.Now),
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":      cfg.Env,
		"products": len(cat.Products()),
		"notifier": cfg.Notifier,
		"store":    cfg.ObjectStoreType,
		"database": sqlDB != nil,
	})
	return app, nil
}

func buildCatalog(cfg config.Config) (*catalog.Catalog, error) {
	mode := catalog.ModeFor(cfg.IsDevLike())
	if strings.TrimSpace(cfg.CatalogPath) == "" {
		return catalog.Default(mode)
	}
	return catalog.LoadFile(cfg.CatalogPath, mode)
}

func buildSearchIndex(cfg config.Config) (*search.Index, error) {
	if strings.TrimSpace(cfg.SearchCorpusPath) == "" {
		return search.Default()
	}
	return search.LoadFile(cfg.SearchCorpusPath)
}

// openDatabase is replaced in tests.
var openDatabase = buildDB

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.database_url_empty", map[string]any{"fallback": "memory"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultLambdaOptions()))
	} else {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	}
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.database_connect_failed", map[string]any{"fallback": "memory", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

// BuildStore returns the configured brief archive, or nil when OBJECT_STORE=none.
func BuildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	case "none":
		return nil, nil
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if cfg.Notifier != "queue" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.LeadsQueueURL)
}

// buildNotifier picks the final delivery channel. In queue mode the worker
// delivers through Telegram when a token is configured.
func buildNotifier(cfg config.Config) (leads.Notifier, error) {
	useTelegram := cfg.Notifier == "telegram" ||
		(cfg.Notifier == "queue" && strings.TrimSpace(cfg.TelegramToken) != "")
	if !useTelegram {
		return notify.Log{}, nil
	}
	tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		return nil, fmt.Errorf("telegram notifier: %w", err)
	}
	return tg, nil
}

func buildServices(app *App, notifier leads.Notifier) {
	var repo leads.Repo
	if app.DB != nil {
		repo = &leads.PGRepo{DB: app.DB}
	} else {
		repo = leads.NewMemoryRepo()
	}

	leadSvc := leads.NewService(repo, notifier)
	leadSvc.Queue = app.Queue
	leadSvc.Archive = app.Store

	ttl := app.Config.SessionTTL
	app.QuizSessions = session.NewStore[quiz.Session](ttl, time.Now)
	app.WizardSessions = session.NewStore[wizard.Session](ttl, time.Now)

	app.LeadsRepo = repo
	app.LeadsService = leadSvc
	app.EstimateService = estimate.NewService(app.Catalog)
	app.WizardService = wizard.NewService(app.Catalog, app.WizardSessions, leadSvc)
}
