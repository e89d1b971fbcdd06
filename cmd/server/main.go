package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/chismoso/checkin-api/internal/api"
	"github.com/chismoso/checkin-api/internal/core/auth"
	"github.com/chismoso/checkin-api/internal/core/service"
	"github.com/chismoso/checkin-api/internal/infrastructure/ai"
	"github.com/chismoso/checkin-api/internal/infrastructure/config"
	"github.com/chismoso/checkin-api/internal/infrastructure/db/postgres"
	redisdb "github.com/chismoso/checkin-api/internal/infrastructure/db/redis"
	"github.com/chismoso/checkin-api/internal/infrastructure/email"
	"github.com/chismoso/checkin-api/internal/infrastructure/queue"
	"github.com/chismoso/checkin-api/pkg/logger"

	redis "github.com/redis/go-redis/v9"

	"github.com/chismoso/checkin-api/internal/core/ports"
)

func main() {
	// A .env file is a development convenience; absence is not an error.
	_ = godotenv.Load()

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fallback := logger.Init(logger.Options{})
		fallback.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	secret, err := cfg.SigningSecret()
	if err != nil {
		log.Fatal().Err(err).Msg("resolve signing secret")
	}

	// --- Postgres ---
	db, err := postgres.Connect(ctx, postgres.Config{URL: cfg.DatabaseURL})
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer db.Close()

	if err := postgres.EnsureSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("ensure schema")
	}
	log.Info().Msg("postgres connected")

	// --- Redis (optional; without it submissions are not deduplicated) ---
	var rdb *redis.Client
	var dedup ports.DedupChecker
	if cfg.Redis.Addr != "" {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis")
		}
		defer rdb.Close()
		dedup = redisdb.NewDedupChecker(rdb)
		log.Info().Msg("redis connected, submission dedup enabled")
	} else {
		log.Warn().Msg("REDIS_ADDR not set, submission dedup disabled")
	}

	// --- Auth core ---
	hasher := auth.NewHasher(secret)
	codec := auth.NewCodec(secret)
	allowList := auth.NewAllowList(cfg.AdminEmails, cfg.AdminEmail)

	userRepo := postgres.NewUserRepository(db)
	reportRepo := postgres.NewReportRepository(db)

	policy := auth.NewPolicy(codec, userRepo, allowList)

	// --- Notifications (optional; monthly reports go unannounced without a key) ---
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	var notifier ports.Notifier
	if cfg.Resend.APIKey != "" {
		dispatcher := queue.NewDispatcher(0, email.NewNotifier(cfg.Resend.APIKey, cfg.Resend.From), log)
		dispatcher.Start(workerCtx)
		notifier = dispatcher
		log.Info().Msg("notification dispatcher started")
	} else {
		log.Warn().Msg("RESEND_API_KEY not set, monthly report notifications disabled")
	}

	// --- Services ---
	authService := service.NewAuthService(userRepo, hasher, codec)
	userService := service.NewUserService(userRepo, hasher)
	reportService := service.NewReportService(reportRepo, dedup, notifier, allowList.First(), log)

	// --- Router & HTTP server ---
	e := api.NewRouter(api.Deps{
		AuthService:   authService,
		UserService:   userService,
		ReportService: reportService,
		AIProxy:       ai.NewGeminiClient(cfg.Gemini.BaseURL, cfg.Gemini.APIKey),
		Policy:        policy,
		DB:            db,
		Redis:         rdb,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-stop

	log.Info().Msg("shutting down")
	stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("shutdown failed")
	}

	log.Info().Msg("stopped")
}
