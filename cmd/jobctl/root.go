package main

import (
	"context"
	"fmt"

	"go-jobboard-backend/config"
	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/policy"
	"go-jobboard-backend/internal/repository/postgres"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/audit"
	"go-jobboard-backend/pkg/database"
	"go-jobboard-backend/pkg/export"
	"go-jobboard-backend/pkg/logger"

	"github.com/spf13/cobra"
)

const app = "jobctl"

var rootCmd = &cobra.Command{
	Use:           app,
	Short:         "jobctl runs maintenance tasks for the job board backend",
	SilenceUsage: true,
}

// env is what every subcommand needs: the application usecase and its job repository.
type env struct {
	applications domain.ApplicationUsecase
	jobs         domain.JobRepository
	close        func()
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger.Init(cfg.Environment)
	auditLog := audit.Init(app, cfg.Environment)

	pool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	jobRepo := postgres.NewJobRepository(pool)
	appRepo := postgres.NewApplicationRepository(pool)
	authz := policy.NewAuthorizer(cfg.EnforceJobOwnership)

	return &env{
		applications: usecase.NewApplicationUsecase(appRepo, jobRepo, authz, export.Writers(), auditLog),
		jobs:         jobRepo,
		close: func() {
			_ = auditLog.Sync()
			pool.Close()
		},
	}, nil
}
