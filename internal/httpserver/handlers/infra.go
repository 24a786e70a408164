package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/abbrhelper/internal/httpserver/deps"
)

type componentStatus struct {
	OK            bool   `json:"ok"`
	Abbreviations *int   `json:"abbreviations,omitempty"`
	Groups        *int   `json:"groups,omitempty"`
	Exceptions    *int   `json:"exceptions,omitempty"`
	LastReload    string `json:"last_reload,omitempty"`
	Mode          string `json:"mode,omitempty"`
	Impact        string `json:"impact,omitempty"`
	Error         string `json:"error,omitempty"`
}

type infraResponse struct {
	Status     string                     `json:"status"`
	Components map[string]componentStatus `json:"components"`
}

func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		idx := d.Glossary.Index()
		abbrs := idx.AbbreviationCount()
		groups := idx.GroupCount()
		excs := idx.ExceptionCount()
		lastReload := idx.GetLastReload()
		lastReloadStr := "never"
		if !lastReload.IsZero() {
			lastReloadStr = lastReload.Format("2006-01-02 15:04:05")
		}

		components := map[string]componentStatus{
			"glossary": {
				OK:            !lastReload.IsZero(),
				Abbreviations: &abbrs,
				Groups:        &groups,
				Exceptions:    &excs,
				LastReload:    lastReloadStr,
			},
			"sqlite": checkStore(r.Context(), d),
			"redis":  checkRedis(r.Context(), d),
			"scanner": {
				OK:   true,
				Mode: d.Scanner.Policy().String(),
			},
		}

		response := infraResponse{
			Status:     determineStatus(components),
			Components: components,
		}

		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

func determineStatus(components map[string]componentStatus) string {
	// No glossary or no database = nothing can be scanned meaningfully
	if glossary, exists := components["glossary"]; exists && !glossary.OK {
		return "critical"
	}
	if store, exists := components["sqlite"]; exists && !store.OK {
		return "critical"
	}

	// Redis down = degraded (scans still work, uncached)
	if redis, exists := components["redis"]; exists && !redis.OK && redis.Mode != "disabled" {
		return "degraded"
	}

	return "optimal"
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		return componentStatus{OK: false, Error: err.Error()}
	}
	return componentStatus{OK: true}
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if d.RedisClient == nil {
		return componentStatus{
			OK:     false,
			Mode:   "disabled",
			Impact: "report-cache-disabled",
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := d.RedisClient.Ping(ctx).Err(); err != nil {
		return componentStatus{
			OK:     false,
			Mode:   "degraded",
			Impact: "report-cache-unavailable",
			Error:  "timeout",
		}
	}

	return componentStatus{
		OK:     true,
		Mode:   "optimal",
		Impact: "report-cache-enabled",
	}
}
