package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"avatar-backend/internal/analyses"
	"avatar-backend/internal/avatar"
	"avatar-backend/internal/llm"
	"avatar-backend/internal/llm/deepseek"
	"avatar-backend/internal/research"
	"avatar-backend/internal/search"
	"avatar-backend/internal/shared/config"
	"avatar-backend/internal/shared/server"
	"avatar-backend/internal/shared/storage/db"
	"avatar-backend/internal/shared/telemetry"
)

// App holds the wired application dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	SearchProvider  search.Provider
	Model           llm.Client
	AnalysesRepo    analyses.Repo
	AnalysesService *analyses.Service
	AnalysisHandler *analyses.Handler
}

// Build prepares all dependencies and the router. A missing database falls
// back to in-memory storage in dev-like environments, and a missing or
// malformed model key degrades generation to the deterministic fallback.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	provider, err := search.NewProvider(cfg)
	if err != nil {
		return nil, err
	}

	model := buildModel(cfg)

	var repo analyses.Repo
	if sqlDB != nil {
		repo = &analyses.PGRepo{DB: sqlDB}
	} else {
		repo = analyses.NewMemoryRepo()
	}

	generator := avatar.NewGenerator(model, research.NewAggregator(provider))
	svc := analyses.NewService(repo, generator)
	handler := analyses.NewHandler(svc, analyses.SystemInfo{
		LLMConfigured:     model != nil,
		LLMModel:          cfg.LLMModel,
		DatabaseAvailable: sqlDB != nil,
		SearchProvider:    cfg.SearchProvider,
	})

	app := &App{
		Config:          cfg,
		DB:              sqlDB,
		SearchProvider:  provider,
		Model:           model,
		AnalysesRepo:    repo,
		AnalysesService: svc,
		AnalysisHandler: handler,
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		AnalysisHandler: handler,
	})
	return app, nil
}

// Close releases held resources.
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db", map[string]any{
				"msg": "DATABASE_URL empty; using in-memory repository",
			})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required in %s", cfg.Env)
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.db", map[string]any{
				"msg":   "database unreachable; using in-memory repository",
				"error": err.Error(),
			})
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}

func buildModel(cfg config.Config) llm.Client {
	client, err := deepseek.NewClient(cfg.DeepSeekAPIKey, cfg.LLMModel, time.Duration(cfg.LLMTimeoutSeconds)*time.Second)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			telemetry.Warn("bootstrap.llm", map[string]any{
				"msg": "DEEPSEEK_API_KEY missing or malformed; analyses will use fallback generation",
			})
			return nil
		}
		telemetry.Error("bootstrap.llm", map[string]any{"error": err.Error()})
		return nil
	}
	return client
}

func isDevLike(env string) bool {
	switch env {
	case "dev", "local", "staging":
		return true
	default:
		return false
	}
}
