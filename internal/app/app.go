package app

import (
	"context"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"survegio_backend/internal/config"
	"survegio_backend/internal/controller"
	"survegio_backend/internal/repository"
	"survegio_backend/internal/service"
	"survegio_backend/internal/util"
	"survegio_backend/pkg/configwatcher"
	"survegio_backend/pkg/database"
	"survegio_backend/pkg/logger"
	"survegio_backend/pkg/monitoring"
	"survegio_backend/pkg/security"
	"survegio_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const configDir = "configs"

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	tracer          *sdktrace.TracerProvider
	jwtSecret       atomic.Value
	configCallbacks []func(*config.Config)
}

type repositories struct {
	store *repository.Store
}

type services struct {
	evaluation *service.SurveyEvaluationService
	export     *service.ReportExportService
}

type controllers struct {
	evaluation *controller.SurveyEvaluationController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

// secret 供鉴权中间件读取，配置热更新后替换
func (a *App) secret() string {
	s, _ := a.jwtSecret.Load().(string)
	return s
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		store: repository.NewStore(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	var locker service.SaveLocker = service.NewLocalSaveLocker()
	if rdb != nil {
		locker = service.NewRedisSaveLocker(rdb, cfg.Evaluation.SaveLockTTL)
	}

	evaluation := service.NewSurveyEvaluationService(repos.store, locker)
	storage := service.NewStorageProvider(&cfg.Storage)

	return &services{
		evaluation: evaluation,
		export:     service.NewReportExportService(evaluation, storage, cfg.Evaluation.ExportPrefix),
	}
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		evaluation: controller.NewSurveyEvaluationController(s.evaluation, s.export),
		health:     controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully", zap.String("mode", cfg.Server.Mode))

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	app.Redis = rdb
	app.jwtSecret.Store(cfg.JWT.Secret)

	app.RegisterConfigCallback(func(c *config.Config) {
		logger.SetMode(c.Server.Mode)
	})
	app.RegisterConfigCallback(func(c *config.Config) {
		if c.JWT.Secret != "" {
			app.jwtSecret.Store(c.JWT.Secret)
		}
	})

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("survegio-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services)

	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/exports", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := configwatcher.Watch(ctx, configDir, a.applyConfig); err != nil {
		logger.Log.Warn("Config hot reload disabled", zap.Error(err))
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Log.Info("Server exiting")
}
