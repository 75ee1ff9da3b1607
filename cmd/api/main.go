// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/jobboard/internal/admin"
	"github.com/carterperez-dev/jobboard/internal/application"
	"github.com/carterperez-dev/jobboard/internal/auth"
	"github.com/carterperez-dev/jobboard/internal/config"
	"github.com/carterperez-dev/jobboard/internal/core"
	"github.com/carterperez-dev/jobboard/internal/health"
	"github.com/carterperez-dev/jobboard/internal/job"
	"github.com/carterperez-dev/jobboard/internal/metrics"
	"github.com/carterperez-dev/jobboard/internal/middleware"
	"github.com/carterperez-dev/jobboard/internal/resume"
	"github.com/carterperez-dev/jobboard/internal/server"
	"github.com/carterperez-dev/jobboard/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	generateKeys := flag.Bool("generate-keys", false, "write a new ES256 key pair to the configured paths and exit")
	migrateOnly := flag.Bool("migrate-only", false, "apply database migrations and exit")
	flag.Parse()

	var err error
	switch {
	case *generateKeys:
		err = writeKeys(*configPath)
	case *migrateOnly:
		err = migrate(*configPath)
	default:
		err = run(*configPath)
	}

	if err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func writeKeys(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := auth.GenerateKeyPair(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath); err != nil {
		return err
	}

	slog.Info("key pair written",
		"private", cfg.JWT.PrivateKeyPath,
		"public", cfg.JWT.PublicKeyPath,
	)
	return nil
}

func migrate(configPath string) error {
	ctx := context.Background()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	slog.SetDefault(setupLogger(cfg.Log))

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // process is exiting

	return db.Migrate(ctx)
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	jwtManager, err := auth.NewJWTManager(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("JWT manager initialized",
		"algorithm", "ES256",
		"key_id", jwtManager.GetKeyID(),
	)

	recorder := metrics.Recorder{}

	storage, err := resume.NewStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}

	// Files on local disk belong to this process; shared object storage
	// needs the lock shared too.
	var locker resume.Locker = resume.NewLocalLocker()
	if cfg.Storage.Driver == config.StorageS3 {
		locker = resume.NewRedisLocker(redis.Client, cfg.Storage.LockTTL)
	}

	userRepo := user.NewRepository(db.DB)

	resumeSvc := resume.NewService(resume.ServiceConfig{
		Storage:   storage,
		Refs:      userRepo,
		Locker:    locker,
		URLPrefix: cfg.Storage.URLPrefix,
		MaxBytes:  cfg.Storage.MaxResumeBytes,
		Recorder:  recorder,
	})
	logger.Info("resume storage ready",
		"driver", cfg.Storage.Driver,
		"max_bytes", cfg.Storage.MaxResumeBytes,
	)

	userSvc := user.NewService(userRepo, resumeSvc)

	authSvc := auth.NewService(auth.NewRepository(redis.Client), jwtManager, userSvc, recorder)

	jobSvc := job.NewService(job.NewRepository(db.DB))

	applicationSvc := application.NewService(
		application.NewRepository(db.DB),
		userSvc,
		jobSvc,
		recorder,
	)

	authHandler := auth.NewHandler(authSvc, cfg.Cookie)
	userHandler := user.NewHandler(userSvc)
	resumeHandler := resume.NewHandler(resumeSvc)
	jobHandler := job.NewHandler(jobSvc)
	applicationHandler := application.NewHandler(applicationSvc)
	healthHandler := health.NewHandler(
		health.Dependency{Name: "database", Checker: db},
		health.Dependency{Name: "redis", Checker: redis},
		health.Dependency{Name: "storage", Checker: storage},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:      db.Stats,
		RedisStats:   redis.PoolStats,
		DBPing:       db.Ping,
		RedisPing:    redis.Ping,
		Users:        userSvc,
		Jobs:         jobSvc,
		Applications: applicationSvc,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing)
	router.Use(middleware.Logger(logger))
	if cfg.Metrics.Enabled {
		router.Use(metrics.Middleware)
	}
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Name: "global",
			Limit: middleware.Per(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
				cfg.RateLimit.Window,
			),
			FailOpen:  true,
			OnLimited: recorder.RateLimited,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	authenticator := middleware.Authenticator(authSvc, cfg.Cookie.AccessName)

	loginLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Name:      "login",
		Limit:     middleware.PerMinute(cfg.RateLimit.LoginRequests, cfg.RateLimit.LoginBurst),
		KeyFunc:   middleware.KeyByIPAndEndpoint,
		FailOpen:  true,
		OnLimited: recorder.RateLimited,
	}).Handler

	uploadLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Name: "resume_upload",
		Limit: middleware.Per(
			cfg.RateLimit.UploadRequests,
			cfg.RateLimit.UploadBurst,
			cfg.RateLimit.UploadWindow,
		),
		KeyFunc:   middleware.KeyByUser,
		FailOpen:  true,
		OnLimited: recorder.RateLimited,
	}).Handler

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, authenticator, loginLimiter)

		userHandler.RegisterRoutes(r, authenticator)
		resumeHandler.RegisterRoutes(r, authenticator, uploadLimiter)
		jobHandler.RegisterRoutes(r)
		applicationHandler.RegisterRoutes(
			r,
			authenticator,
			middleware.Authorize(middleware.ActionApply),
		)

		userHandler.RegisterAdminRoutes(
			r,
			authenticator,
			middleware.Authorize(middleware.ActionManageUsers),
		)
		jobHandler.RegisterAdminRoutes(
			r,
			authenticator,
			middleware.Authorize(middleware.ActionManageJobs),
		)
		applicationHandler.RegisterAdminRoutes(
			r,
			authenticator,
			middleware.Authorize(middleware.ActionManageApplications),
		)
		adminHandler.RegisterRoutes(
			r,
			authenticator,
			middleware.Authorize(middleware.ActionReadStats),
		)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		fmt.Fprintf(os.Stderr, "unknown log level %q, using info\n", cfg.Level)
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
