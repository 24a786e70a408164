package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MrSnakeDoc/abbrhelper/internal/httpserver/deps"
)

// Metrics exposes the registry in the Prometheus text format.
func Metrics(d deps.Deps) http.Handler {
	return promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})
}
