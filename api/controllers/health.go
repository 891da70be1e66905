package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/wrapntrack/wrapntrack-backend/api/responses"
	"github.com/wrapntrack/wrapntrack-backend/pkg/config"
	"github.com/wrapntrack/wrapntrack-backend/pkg/db"
	pkgerrors "github.com/wrapntrack/wrapntrack-backend/pkg/errors"
	"github.com/wrapntrack/wrapntrack-backend/pkg/logger"
	"github.com/wrapntrack/wrapntrack-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-WNT-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady checks the backing stores. Redis is optional, a nil client is
// reported as skipped rather than failing readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, cache *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-WNT-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		checks := map[string]string{}

		if dbP == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "database unavailable"))
			return
		}
		if err := dbP.Ping(ctx); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database ping"))
			return
		}
		checks["database"] = "ok"

		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis ping"))
				return
			}
			checks["redis"] = "ok"
		} else {
			checks["redis"] = "skipped"
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
