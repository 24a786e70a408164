package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/abbrhelper/internal/httpserver/deps"
	"github.com/MrSnakeDoc/abbrhelper/internal/logger"
)

type readyzResponse struct {
	Ready bool   `json:"ready"`
	Store string `json:"store"`
	Redis string `json:"redis"`
}

// Readyz reports ready when the database answers. Redis is optional and
// only reported.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := readyzResponse{Ready: true, Store: "ok", Redis: "disabled"}
		if err := d.Store.Ping(ctx); err != nil {
			d.Logger.Warn("readiness: store ping failed", logger.Error(err))
			resp.Ready = false
			resp.Store = "unavailable"
		}
		if d.RedisClient != nil {
			resp.Redis = "ok"
			if err := d.RedisClient.Ping(ctx).Err(); err != nil {
				resp.Redis = "unavailable"
			}
		}

		status := http.StatusOK
		if !resp.Ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}
