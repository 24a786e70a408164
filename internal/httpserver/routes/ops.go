package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/abbrhelper/internal/httpserver/deps"
	"github.com/MrSnakeDoc/abbrhelper/internal/httpserver/handlers"
)

func init() {
	Register("health", func(r chi.Router, d deps.Deps) {
		r.Get("/healthz", handlers.Healthz(d))
	})
	Register("ops", registerOps, opsOnly)
	Register("reload", registerReload, opsOnly, hostOnly)
}

func registerOps(r chi.Router, d deps.Deps) {
	r.Get("/readyz", handlers.Readyz(d))
	r.Get("/infra", handlers.Infra(d))
	r.Method("GET", "/metrics", handlers.Metrics(d))
}

func registerReload(r chi.Router, d deps.Deps) {
	r.Post("/reload", handlers.Reload(d))
}
