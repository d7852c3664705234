package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"riskassess-backend/internal/assessments"
	"riskassess-backend/internal/documents"
	"riskassess-backend/internal/ingest"
	"riskassess-backend/internal/llm"
	"riskassess-backend/internal/llm/google"
	"riskassess-backend/internal/services/health"
	"riskassess-backend/internal/shared/config"
	"riskassess-backend/internal/shared/server"
	"riskassess-backend/internal/shared/storage/db"
	"riskassess-backend/internal/shared/storage/object"
	localstore "riskassess-backend/internal/shared/storage/object/local"
	s3store "riskassess-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config             config.Config
	Router             *gin.Engine
	DB                 *sql.DB
	Store              object.ObjectStore
	LLM                llm.Client
	DocumentsRepo      documents.DocumentsRepo
	AssessmentsRepo    assessments.Repo
	DocumentsService   *documents.Service
	AssessmentsService *assessments.Service
	HealthService      *health.Service
	DocumentsHandler   *documents.Handler
	AssessmentsHandler *assessments.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if sqlDB != nil {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		DocumentHandler:   app.DocumentsHandler,
		AssessmentHandler: app.AssessmentsHandler,
		Health:            app.HealthService,
		UploadsEnabled:    strings.TrimSpace(os.Getenv("UPLOADS_S3_BUCKET")) != "",
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	var docRepo documents.DocumentsRepo
	var runRepo assessments.Repo

	if app.DB != nil {
		docRepo = &documents.PGRepo{DB: app.DB}
		runRepo = &assessments.PGRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
		runRepo = assessments.NewMemoryRepo()
	}

	docSvc := &documents.Service{
		Store:           app.Store,
		Repo:            docRepo,
		StorageProvider: app.Config.ObjectStoreType,
	}

	llmClient := llm.Client(llm.PlaceholderClient{})
	if strings.TrimSpace(app.Config.GoogleAIAPIKey) != "" {
		googleClient, err := google.NewClient(app.Config.GoogleAIAPIKey, app.Config.GoogleAIModel, app.Config.GoogleAIDirectPDF)
		if err != nil {
			log.Printf("bootstrap: google client unavailable, runs will fail fast: %v", err)
		} else {
			llmClient = googleClient
		}
	}

	pipeline := ingest.NewPipeline()
	pipeline.ProviderAcceptsPDF = app.Config.GoogleAIDirectPDF

	runSvc := &assessments.Service{
		Repo:      runRepo,
		DocRepo:   docRepo,
		Store:     app.Store,
		Ingestor:  pipeline,
		LLM:       llmClient,
		Relevance: assessments.DefaultRelevanceChecker(),
		Provider:  "google",
		Model:     app.Config.GoogleAIModel,
	}

	app.LLM = llmClient
	app.DocumentsRepo = docRepo
	app.AssessmentsRepo = runRepo
	app.DocumentsService = docSvc
	app.AssessmentsService = runSvc
	app.HealthService = health.NewService(llmClient)
	app.DocumentsHandler = documents.NewHandler(docSvc)
	app.AssessmentsHandler = assessments.NewHandler(runSvc)
}
