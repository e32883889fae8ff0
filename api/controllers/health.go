package controllers

import (
	"net/http"

	"github.com/luiscarvajal/velamart-backend/api/responses"
	"github.com/luiscarvajal/velamart-backend/pkg/config"
	"github.com/luiscarvajal/velamart-backend/pkg/db"
	pkgerrors "github.com/luiscarvajal/velamart-backend/pkg/errors"
	"github.com/luiscarvajal/velamart-backend/pkg/logger"
	"github.com/luiscarvajal/velamart-backend/pkg/redis"
)

const envHeader = "X-Velamart-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the backing stores before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbClient db.Pinger, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		if dbClient != nil {
			if err := dbClient.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}
		if redisClient != nil {
			if err := redisClient.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
