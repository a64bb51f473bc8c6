package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/hakimzulkifli/pegawai-backend/api/responses"
	"github.com/hakimzulkifli/pegawai-backend/pkg/config"
	pkgerrors "github.com/hakimzulkifli/pegawai-backend/pkg/errors"
	"github.com/hakimzulkifli/pegawai-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Pegawai-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports readiness only when the key-value store answers.
func HealthReady(cfg *config.Config, logg *logger.Logger, kv pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Pegawai-Env", cfg.App.Env)

		if kv != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
			defer cancel()
			if err := kv.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unreachable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
