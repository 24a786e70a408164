package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
	"github.com/MrSnakeDoc/abbrhelper/internal/httpserver/deps"
)

type groupRequest struct {
	Name     *string `json:"name"`
	Comment  *string `json:"comment"`
	Disabled *bool   `json:"disabled"`
}

func ListGroups(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Glossary.Groups.All())
	}
}

func GetGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		g, ok := d.Glossary.Groups.Get(id)
		if !ok {
			writeError(w, d.Logger, fmt.Errorf("group %d: %w", id, domain.ErrNotFound))
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

func CreateGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req groupRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		g, err := d.Glossary.Groups.Create(r.Context(), deref(req.Name), deref(req.Comment), deref(req.Disabled))
		if errors.Is(err, domain.ErrDuplicate) {
			writeDuplicate(w, err, g)
			return
		}
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, g)
	}
}

func UpdateGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		var req groupRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		g, ok := d.Glossary.Groups.Get(id)
		if !ok {
			writeError(w, d.Logger, fmt.Errorf("group %d: %w", id, domain.ErrNotFound))
			return
		}
		if req.Name != nil {
			g.Name = *req.Name
		}
		if req.Comment != nil {
			g.Comment = *req.Comment
		}
		if req.Disabled != nil {
			g.Disabled = *req.Disabled
		}
		if err := d.Glossary.Groups.Save(r.Context(), g); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, g)
	}
}

// DeleteGroup retracts the group from every referrer before removing it.
func DeleteGroup(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if err := d.Glossary.Groups.Delete(r.Context(), id); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
