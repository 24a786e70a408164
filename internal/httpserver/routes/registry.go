package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/abbrhelper/internal/httpserver/deps"
	"github.com/MrSnakeDoc/abbrhelper/internal/httpserver/mw"
	"github.com/MrSnakeDoc/abbrhelper/internal/logger"
)

type (
	Registrar func(r chi.Router, d deps.Deps)
	// Middleware is built once per router from the deps, so route files can
	// declare their guards before the config is known.
	Middleware func(d deps.Deps) func(http.Handler) http.Handler
)

type group struct {
	name string
	reg  Registrar
	mws  []Middleware
}

var groups []group

// Register adds a named route group, guarded by mws in order.
func Register(name string, reg Registrar, mws ...Middleware) {
	groups = append(groups, group{name: name, reg: reg, mws: mws})
}

// RegisterAll mounts every group on r. Called once from NewRouter.
func RegisterAll(r chi.Router, d deps.Deps) {
	for _, g := range groups {
		sub := r
		if len(g.mws) > 0 {
			chain := make([]func(http.Handler) http.Handler, 0, len(g.mws))
			for _, m := range g.mws {
				chain = append(chain, m(d))
			}
			sub = r.With(chain...)
		}
		g.reg(sub, d)
		d.Logger.Debug("routes registered", logger.String("group", g.name), logger.Int("middlewares", len(g.mws)))
	}
}

// Shared guards.

func hostOnly(d deps.Deps) func(http.Handler) http.Handler {
	return mw.EnforceHost(d.AllowedHosts, d.Logger)
}

func opsOnly(d deps.Deps) func(http.Handler) http.Handler {
	return mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger)
}
