package app

import (
	"context"
	"design_sense_backend/internal/config"
	"design_sense_backend/internal/controller"
	"design_sense_backend/internal/repository"
	"design_sense_backend/internal/service"
	"design_sense_backend/internal/util"
	"design_sense_backend/pkg/configwatcher"
	"design_sense_backend/pkg/database"
	"design_sense_backend/pkg/logger"
	"design_sense_backend/pkg/monitoring"
	"design_sense_backend/pkg/security"
	"design_sense_backend/pkg/tracing"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	originPolicy    *security.OriginPolicy
	tracerProvider  *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	designTest *repository.DesignTestRepository
}

type services struct {
	designTest *service.DesignTestService
}

type controllers struct {
	designTest   *controller.DesignTestController
	attemptAdmin *controller.AttemptAdminController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		designTest: repository.NewDesignTestRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	var cache service.CatalogCache
	var locker service.Locker
	if rdb != nil {
		cache = service.NewRedisCatalogCache(rdb, cfg.Cache.CatalogTTL)
		locker = service.NewRedisLocker(rdb, cfg.Cache.LockTTL)
	}

	return &services{
		designTest: service.NewDesignTestService(repos.designTest, cache, locker),
	}
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		designTest:   controller.NewDesignTestController(s.designTest),
		attemptAdmin: controller.NewAttemptAdminController(s.designTest),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(a.originPolicy))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewApp 建立数据库、Redis 与追踪连接并组装路由；调用方负责 Close
func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	if cfg.ForceMigrate || cfg.Server.Mode != util.ModeRelease {
		if err := database.Migrate(db); err != nil {
			database.Close(db)
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		database.Close(db)
		return nil, fmt.Errorf("initialize redis: %w", err)
	}

	app := NewAppWithStores(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("initialize tracing: %w", err)
		}
		app.tracerProvider = tp
	}

	return app, nil
}

// NewAppWithStores 使用已打开的存储组装应用，rdb 可为 nil
func NewAppWithStores(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	if cfg.Server.Mode == util.ModeRelease {
		gin.SetMode(gin.ReleaseMode)
	}

	app := &App{
		Config:       cfg,
		DB:           db,
		Redis:        rdb,
		originPolicy: security.NewOriginPolicy(cfg.CORS.AllowedOrigins),
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		app.originPolicy.Update(newCfg.CORS.AllowedOrigins)
		logger.Log.Info("CORS origins updated", zap.Strings("origins", newCfg.CORS.AllowedOrigins))
	})

	return app
}

func (a *App) watchConfig(ctx context.Context) {
	if a.Config.ConfigFile == "" {
		return
	}
	go func() {
		err := configwatcher.WatchConfig(ctx, a.Config.ConfigFile, func(newCfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(newCfg)
			}
		})
		if err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

func (a *App) Run() error {
	srv := &http.Server{
		Addr:         ":" + a.Config.Server.Port,
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
	}

	watchCtx, stopWatching := context.WithCancel(context.Background())
	defer stopWatching()
	a.watchConfig(watchCtx)

	serveErr := make(chan error, 1)
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-quit:
	}
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Log.Info("Server exiting")
	return nil
}

// Close 释放追踪、Redis 与数据库连接
func (a *App) Close() {
	if a.tracerProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
		cancel()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Error("Failed to close redis", zap.Error(err))
		}
	}
	if err := database.Close(a.DB); err != nil {
		logger.Log.Error("Failed to close database", zap.Error(err))
	}
	logger.Log.Sync()
}
