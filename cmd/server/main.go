package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/simuconcursos/simulado-backend/internal/config"
	"github.com/simuconcursos/simulado-backend/internal/database"
	"github.com/simuconcursos/simulado-backend/internal/handler"
	"github.com/simuconcursos/simulado-backend/internal/ingest"
	"github.com/simuconcursos/simulado-backend/internal/logger"
	"github.com/simuconcursos/simulado-backend/internal/repository"
	"github.com/simuconcursos/simulado-backend/internal/router"
	"github.com/simuconcursos/simulado-backend/internal/service"
	"github.com/simuconcursos/simulado-backend/internal/session"
	"github.com/simuconcursos/simulado-backend/internal/validator"
	"github.com/simuconcursos/simulado-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Simulado Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)

	// ─── Initialize Session Engine ─────────────────────────────────────
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	sampler := session.NewSampler(questionRepo, rng)
	manager := session.NewManager()

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	practiceService := service.NewPracticeService(questionRepo, sampler, manager, rdb, cfg, log)
	examService := service.NewExamService(examRepo, log)
	questionService := service.NewQuestionService(questionRepo, log)
	statsService := service.NewStatsService(attemptRepo)

	normalizer := ingest.NewNormalizer(ingest.DefaultSubstitutions)
	ingestor := ingest.NewIngestor(questionRepo, normalizer, log)
	resolver := ingest.NewResolver(questionRepo, log)
	ingestService := service.NewIngestService(ingestor, resolver, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(authService, userRepo),
		Practice: handler.NewPracticeHandler(practiceService),
		Exam:     handler.NewExamHandler(examService),
		Question: handler.NewQuestionHandler(questionService),
		Ingest:   handler.NewIngestHandler(ingestService),
		Stats:    handler.NewStatsHandler(statsService),
		WS:       handler.NewWSHandler(practiceService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	timeoutWorker := worker.NewTimeoutWorker(manager, practiceService, log)
	attemptWorker := worker.NewAttemptWorker(attemptRepo, rdb, log)

	go timeoutWorker.Start(workerCtx)
	go attemptWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for the attempt queue to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
