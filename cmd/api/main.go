package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-jobmatch-backend/config"
	v1 "go-jobmatch-backend/internal/delivery/http/v1"
	"go-jobmatch-backend/internal/repository/postgres"
	"go-jobmatch-backend/internal/usecase"
	"go-jobmatch-backend/pkg/ai"
	"go-jobmatch-backend/pkg/auth"
	"go-jobmatch-backend/pkg/database"
	"go-jobmatch-backend/pkg/email"
	"go-jobmatch-backend/pkg/logger"
	"go-jobmatch-backend/pkg/redis"
	"go-jobmatch-backend/pkg/storage"
)

// @title           Job Matching Backend API
// @version         1.0
// @description     Backend for an AI-assisted job matching platform.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init()
	logger.Log.Info("Starting job matching backend", "port", cfg.Port)

	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// Redis backs the rate limiter; the limiter falls back to in-memory
	// counters when it is absent.
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis initialization failed", "error", err)
	}
	if !redis.IsAvailable() {
		logger.Log.Warn("Redis unavailable - rate limiting falls back to in-memory counters")
	}

	ctx := context.Background()
	fileStore, err := storage.NewS3Store(ctx, cfg)
	if err != nil {
		logger.Log.Error("Failed to initialize object storage", "error", err)
		os.Exit(1)
	}

	mailer := email.NewMailer(cfg)
	if !mailer.IsConfigured() {
		logger.Log.Warn("SMTP not fully configured - notification emails will be skipped")
	}

	aiClient := ai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	tokens := auth.NewTokenService(cfg.JWTSecret)

	userRepo := postgres.NewUserRepository(dbPool)
	candidateRepo := postgres.NewCandidateRepository(dbPool)
	employerRepo := postgres.NewEmployerRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	matchRepo := postgres.NewMatchRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)

	sweepTimeout := time.Duration(cfg.MatchSweepTimeoutSeconds) * time.Second

	matcherUC := usecase.NewMatcherUsecase(matchRepo, jobRepo, candidateRepo, aiClient, cfg.MatchSweepMaxPairs)
	candidateUC := usecase.NewCandidateUsecase(candidateRepo, userRepo, aiClient, fileStore, matcherUC, sweepTimeout)
	employerUC := usecase.NewEmployerUsecase(employerRepo, userRepo, jobRepo, matchRepo, fileStore)
	jobUC := usecase.NewJobUsecase(jobRepo, employerRepo, aiClient, matcherUC, sweepTimeout)
	matchUC := usecase.NewMatchUsecase(matchRepo, applicationRepo, jobRepo, candidateRepo, employerRepo, mailer, fileStore)
	authUC := usecase.NewAuthUsecase(userRepo, candidateRepo, employerRepo, candidateUC, tokens, mailer, cfg.FrontendURL)

	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:      authUC,
		CandidateUC: candidateUC,
		EmployerUC:  employerUC,
		JobUC:       jobUC,
		MatchUC:     matchUC,
		Tokens:      tokens,
		Config:      cfg,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
