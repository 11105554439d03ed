package controllers

import (
	"net/http"

	"github.com/totalawareness/backend/api/responses"
	"github.com/totalawareness/backend/pkg/config"
	"github.com/totalawareness/backend/pkg/db"
	pkgerrors "github.com/totalawareness/backend/pkg/errors"
	"github.com/totalawareness/backend/pkg/logger"
)

// HealthLive reports process liveness without touching dependencies.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-TotalAwareness-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the datastore and session store before reporting ready.
func HealthReady(cfg *config.Config, logg *logger.Logger, database db.Pinger, sessions db.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-TotalAwareness-Env", cfg.App.Env)

		checks := map[string]db.Pinger{
			"database": database,
			"redis":    sessions,
		}
		for name, pinger := range checks {
			if pinger == nil {
				continue
			}
			if err := pinger.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
