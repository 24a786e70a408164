package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/abbrhelper/internal/httpserver/deps"
	"github.com/MrSnakeDoc/abbrhelper/internal/httpserver/handlers"
)

func init() { Register("glossary", registerGlossary, hostOnly) }

func registerGlossary(r chi.Router, d deps.Deps) {
	r.Get("/api/abbrs", handlers.ListAbbreviations(d))
	r.Post("/api/abbrs", handlers.CreateAbbreviation(d))
	r.Get("/api/abbrs/{id}", handlers.GetAbbreviation(d))
	r.Put("/api/abbrs/{id}", handlers.UpdateAbbreviation(d))
	r.Delete("/api/abbrs/{id}", handlers.DeleteAbbreviation(d))

	r.Get("/api/groups", handlers.ListGroups(d))
	r.Post("/api/groups", handlers.CreateGroup(d))
	r.Get("/api/groups/{id}", handlers.GetGroup(d))
	r.Put("/api/groups/{id}", handlers.UpdateGroup(d))
	r.Delete("/api/groups/{id}", handlers.DeleteGroup(d))

	r.Get("/api/exceptions", handlers.ListExceptions(d))
	r.Post("/api/exceptions", handlers.CreateException(d))
	r.Get("/api/exceptions/{id}", handlers.GetException(d))
	r.Put("/api/exceptions/{id}", handlers.UpdateException(d))
	r.Delete("/api/exceptions/{id}", handlers.DeleteException(d))

	r.Get("/api/db", handlers.DumpDB(d))
	r.Get("/api/scans", handlers.RecentScans(d))
}
