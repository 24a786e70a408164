package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/abbrhelper/internal/httpserver/deps"
	"github.com/MrSnakeDoc/abbrhelper/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/abbrhelper/internal/httpserver/mw"
)

func init() { Register("uploads", registerUploads, hostOnly, uploadLimit) }

// uploadLimit is one per-IP token bucket shared by every upload endpoint.
func uploadLimit(d deps.Deps) func(http.Handler) http.Handler {
	return mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.ScanRateBurst,
		RefillPerIPPerMin: d.ScanRatePerMin,
		MaxEntries:        10000,
		SweepInterval:     time.Minute,
		IdleTTL:           15 * time.Minute,
		TrustProxy:        d.TrustProxy,
	})
}

func registerUploads(r chi.Router, d deps.Deps) {
	r.Post("/api/scan", handlers.Scan(d))
	r.Post("/api/scan/text", handlers.ScanText(d))
	r.Post("/api/import", handlers.Import(d))
}
