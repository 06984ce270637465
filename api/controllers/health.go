package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/subinlebow/quotegen-backend/api/responses"
	"github.com/subinlebow/quotegen-backend/pkg/config"
)

const envHeader = "X-QuoteGen-Env"

// Pinger is the connectivity probe a dependency exposes for readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes each named dependency. The endpoint still returns 200
// with per-dependency statuses so an operator can see which probe failed;
// overall status flips to degraded when any probe errors.
func HealthReady(cfg *config.Config, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		status := "ready"
		checks := make(map[string]string, len(deps))
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			err := dep.Ping(ctx)
			cancel()
			if err != nil {
				checks[name] = "unreachable"
				status = "degraded"
				continue
			}
			checks[name] = "ok"
		}

		payload := map[string]any{"status": status}
		if len(checks) > 0 {
			payload["dependencies"] = checks
		}
		responses.WriteSuccess(w, payload)
	}
}
