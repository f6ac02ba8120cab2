// Paintly backend: prompt construction and AI image generation for
// exterior painting simulations.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"paintly_backend/core"
	"paintly_backend/core/validation"
	"paintly_backend/db"
	"paintly_backend/errlog"
	"paintly_backend/generation"
	"paintly_backend/logging"
	"paintly_backend/offline"
	"paintly_backend/providers"
	"paintly_backend/retry"
	"paintly_backend/server"
	"paintly_backend/shutdown"
)

func main() {
	if handled := HandleServiceCommand(os.Args[1:]); handled {
		return
	}
	if asService, err := RunAsService(); asService {
		if err != nil {
			fmt.Fprintf(os.Stderr, "service run failed: %v\n", err)
			os.Exit(core.ExitCodeError)
		}
		return
	}

	os.Exit(run())
}

func run() int {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	cfg, err := core.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return core.ExitCodeConfigError
	}

	logger, err := logging.New(logging.Config{
		Development: cfg.DevMode,
		FilePath:    cfg.LogFilePath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		return core.ExitCodeError
	}

	result := validation.NewSuite(cfg).Run()
	if !result.Success {
		logger.Error("startup checks failed", zap.Error(result.FirstError()))
		return core.ExitCodeConfigError
	}

	logger.Info("configuration loaded",
		zap.String("addr", cfg.Addr()),
		zap.String("default_provider", cfg.DefaultProvider),
		zap.String("database", cfg.DatabasePath),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("ai_timeout", cfg.AITimeout),
		zap.Bool("dev_mode", cfg.DevMode))

	database, err := db.New(db.DatabaseConfig{
		Path:           cfg.DatabasePath,
		MigrationsPath: cfg.MigrationsPath,
	})
	if err != nil {
		logger.Error("failed to open database", zap.Error(err))
		return core.ExitCodeError
	}

	errors := errlog.New(cfg.ErrorLogCapacity, logger.Named("errlog"))
	retryMgr := retry.New(retry.Config{
		MaxRetries: cfg.MaxRetries,
		BaseDelay:  cfg.RetryBaseDelay,
		MaxDelay:   cfg.RetryMaxDelay,
	}, errors, logger.Named("retry"))
	net := offline.New(offline.Config{
		ProbeURL: cfg.OfflineProbeURL,
		Interval: cfg.OfflineProbeInterval,
	}, errors, logger.Named("offline"))

	manager, err := buildProviders(cfg, logger.Named("providers"))
	if err != nil {
		logger.Error("failed to set up providers", zap.Error(err))
		return core.ExitCodeError
	}

	orch := generation.NewOrchestrator(database.Repository(), manager, retryMgr, errors, net,
		generation.DefaultQuotaConfig(), logger.Named("generation"))
	srv := server.New(cfg, orch, manager, errors, net, logger.Named("server"))

	coord := shutdown.New(logger, shutdown.WithTimeout(30*time.Second))
	coord.OnShutdown("http", 5, srv.Shutdown)
	coord.OnShutdown("database", 30, func(ctx context.Context) error {
		return database.Close()
	})
	coord.OnShutdown("logger", 40, func(ctx context.Context) error {
		_ = logger.Sync()
		return nil
	})
	coord.Start()

	go net.Run(coord.Context())
	go func() {
		if err := srv.Start(); err != nil {
			logger.Error("server stopped", zap.Error(err))
			coord.Trigger()
		}
	}()

	// Warm the health cache so the first provider listing is accurate.
	go func() {
		ctx, cancel := context.WithTimeout(coord.Context(), cfg.HealthCheckTimeout+time.Second)
		defer cancel()
		manager.HealthCheck(ctx)
	}()

	coord.Wait()
	if err := coord.Run(); err != nil {
		return core.ExitCodeError
	}
	return core.ExitCodeSuccess
}

// buildProviders registers every provider with a configured credential. A
// provider without a key stays unregistered and shows up disabled.
func buildProviders(cfg *core.Config, logger *zap.Logger) (*providers.Manager, error) {
	meta, err := providers.LoadMetadata(cfg.ProviderMetadataPath)
	if err != nil {
		return nil, err
	}

	manager := providers.NewManager(providers.ID(cfg.DefaultProvider), meta, providers.ManagerConfig{
		HealthTimeout: cfg.HealthCheckTimeout,
		HealthTTL:     cfg.HealthCacheTTL,
	}, logger)

	if cfg.FalAPIKey != "" {
		fal, err := providers.NewFalAI(providers.FalConfig{
			APIKey:   cfg.FalAPIKey,
			Endpoint: cfg.FalEndpoint,
			Model:    cfg.FalModel,
			Timeout:  cfg.AITimeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		manager.Register(fal)
	}

	if cfg.GeminiAPIKey != "" {
		gemini, err := providers.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, logger)
		if err != nil {
			return nil, err
		}
		manager.Register(gemini)
	}

	return manager, nil
}
