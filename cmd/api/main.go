package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/hakimzulkifli/pegawai-backend/api/routes"
	"github.com/hakimzulkifli/pegawai-backend/internal/accounts"
	"github.com/hakimzulkifli/pegawai-backend/internal/personnel"
	"github.com/hakimzulkifli/pegawai-backend/internal/session"
	"github.com/hakimzulkifli/pegawai-backend/internal/store"
	"github.com/hakimzulkifli/pegawai-backend/pkg/config"
	"github.com/hakimzulkifli/pegawai-backend/pkg/logger"
	"github.com/hakimzulkifli/pegawai-backend/pkg/metrics"
	"github.com/hakimzulkifli/pegawai-backend/pkg/redis"
	"github.com/hakimzulkifli/pegawai-backend/pkg/security"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis, cfg.Storage, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gateway, err := store.New(redisClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create store gateway", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	registryMetrics := metrics.NewRegistryMetrics(promRegistry)

	verifier := security.NewArgon2Verifier(cfg.Password)

	accountRegistry, err := accounts.NewRegistry(accounts.RegistryParams{
		Store:    gateway,
		Key:      redisClient.AccountsKey(),
		Verifier: verifier,
		Metrics:  registryMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create account registry", err)
		os.Exit(1)
	}
	if err := accountRegistry.Load(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to load accounts", err)
		os.Exit(1)
	}

	directory, err := personnel.NewRegistry(personnel.RegistryParams{
		Store:   gateway,
		Key:     redisClient.PersonnelKey(),
		Metrics: registryMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create personnel registry", err)
		os.Exit(1)
	}
	if err := directory.Load(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to load personnel", err)
		os.Exit(1)
	}

	sessions, err := session.NewManager(gateway, redisClient.SessionKey())
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}
	if err := sessions.Resume(context.Background()); err != nil {
		logg.Error(context.Background(), "failed to resume session", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, accountRegistry, directory, sessions, promRegistry),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs error
		if err := server.Shutdown(shutdownCtx); err != nil {
			errs = multierr.Append(errs, err)
		}
		if err := <-errCh; err != nil {
			errs = multierr.Append(errs, err)
		}
		if errs != nil {
			logg.Error(ctx, "shutdown finished with errors", errs)
			os.Exit(1)
		}
		logg.Info(ctx, "shutdown complete")
	}
}
