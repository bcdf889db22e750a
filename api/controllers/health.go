package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/desesperanza/panaderia-backend/api/responses"
	"github.com/desesperanza/panaderia-backend/pkg/config"
	"github.com/desesperanza/panaderia-backend/pkg/db"
	pkgerrors "github.com/desesperanza/panaderia-backend/pkg/errors"
	"github.com/desesperanza/panaderia-backend/pkg/logger"
	"github.com/desesperanza/panaderia-backend/pkg/redis"
)

const readinessTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Panaderia-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every backing store. Any failed dependency makes the
// whole endpoint fail so the load balancer stops routing traffic here.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Panaderia-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}

		if dbP == nil {
			checks["postgres"] = "not configured"
		} else if err := dbP.Ping(ctx); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "postgres ping"))
			return
		} else {
			checks["postgres"] = "ok"
		}

		if redisP == nil {
			checks["redis"] = "not configured"
		} else if err := redisP.Ping(ctx); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis ping"))
			return
		} else {
			checks["redis"] = "ok"
		}

		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
