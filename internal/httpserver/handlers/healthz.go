package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/abbrhelper/internal/httpserver/deps"
	"github.com/MrSnakeDoc/abbrhelper/internal/version"
)

type healthzResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Revision      uint64  `json:"glossary_revision"`
	Fingerprint   string  `json:"glossary_fingerprint"`
	version.Info
}

// Healthz is liveness only: it never touches the database or redis.
func Healthz(d deps.Deps) http.HandlerFunc {
	now := d.TimeNow
	if now == nil {
		now = time.Now
	}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthzResponse{
			Status:        "ok",
			UptimeSeconds: now().Sub(d.StartTime).Seconds(),
			Revision:      d.Glossary.Revision(),
			Fingerprint:   d.Glossary.Fingerprint(),
			Info:          d.Build,
		})
	}
}
