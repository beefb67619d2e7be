package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-jobboard-backend/config"
	_ "go-jobboard-backend/docs" // Important for Swagger
	v1 "go-jobboard-backend/internal/delivery/http/v1"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/policy"
	"go-jobboard-backend/internal/repository/postgres"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/audit"
	"go-jobboard-backend/pkg/auth"
	"go-jobboard-backend/pkg/database"
	"go-jobboard-backend/pkg/export"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/redis"
	"go-jobboard-backend/pkg/security"
	"go-jobboard-backend/pkg/security/antivirus"
	"go-jobboard-backend/pkg/storage"
)

// @title           Job Board API
// @version         1.0
// @description     Job postings, applications, applicant matching and shortlist export.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.Environment)
	auditLog := audit.Init("jobboard-api", cfg.Environment)
	defer auditLog.Sync()
	logger.Log.Info("Starting job board backend", "port", cfg.Port, "env", cfg.Environment)

	ctx := context.Background()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional, rate limiters fall back to memory)
	var redisPinger usecase.Pinger
	if cfg.RedisURL != "" {
		if err := redis.Initialize(ctx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
		} else {
			redisPinger = redis.Health{}
			defer redis.Close()
		}
	}

	// 5. Setup Resume Storage
	var resumeStore domain.ResumeStore
	if cfg.S3Bucket != "" {
		s3Cfg := storage.S3Config{
			Provider:        storage.Provider(cfg.S3Provider),
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		}
		s3Client, err := storage.NewS3Client(ctx, s3Cfg)
		if err != nil {
			logger.Log.Error("Failed to create S3 client", "error", err)
			os.Exit(1)
		}
		resumeStore = storage.NewS3ResumeStore(s3Client, s3Cfg)
	}

	// 6. Setup Resume Scanning (optional)
	var scannerPinger usecase.Pinger
	var resumeOpts []usecase.Option
	if cfg.ClamAVAddr != "" {
		scanner := antivirus.NewClamAVScanner(cfg.ClamAVAddr, 30*time.Second)
		scannerPinger = scanner
		resumeOpts = append(resumeOpts, usecase.WithResumeScanner(scanner))
	}

	// 7. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	jobRepo := postgres.NewJobRepository(dbPool)
	applicationRepo := postgres.NewApplicationRepository(dbPool)

	// 8. Setup UseCases
	tokens := auth.NewTokenManager(
		cfg.JWTSecret,
		cfg.JWTRefreshSecret,
		time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute,
		time.Duration(cfg.RefreshTokenTTLHours)*time.Hour,
	)
	authz := policy.NewAuthorizer(cfg.EnforceJobOwnership)

	loginTracker := security.NewLoginTracker(security.LoginTrackerConfig{
		MaxAttempts:   cfg.LoginMaxAttempts,
		AttemptWindow: time.Duration(cfg.LoginBlockMinutes) * time.Minute,
		BlockDuration: time.Duration(cfg.LoginBlockMinutes) * time.Minute,
	})
	authOpts := append([]usecase.Option{usecase.WithLoginGuard(loginTracker)}, resumeOpts...)

	authUC := usecase.NewAuthUsecase(userRepo, tokens, resumeStore, cfg.ResumeMaxBytes, auditLog, authOpts...)
	userUC := usecase.NewUserUsecase(userRepo, applicationRepo, resumeStore, cfg.ResumeMaxBytes, resumeOpts...)
	jobUC := usecase.NewJobUsecase(jobRepo, authz)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, jobRepo, authz, export.Writers(), auditLog)
	healthUC := usecase.NewHealthUsecase(map[string]usecase.Pinger{
		"database":  dbPool,
		"redis":     redisPinger,
		"antivirus": scannerPinger,
	})

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		UserUC:        userUC,
		JobUC:         jobUC,
		ApplicationUC: applicationUC,
		HealthUC:      healthUC,
		UploadLimiter: security.NewUploadLimiter(cfg.UploadsPerMinute, cfg.UploadsPerDay),
		Config:        cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
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
