package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
	"github.com/MrSnakeDoc/abbrhelper/internal/httpserver/deps"
)

type exceptionRequest struct {
	Name     *string `json:"name"`
	Comment  *string `json:"comment"`
	Disabled *bool   `json:"disabled"`
	Groups   *string `json:"groups"`
	GroupIDs []int64 `json:"group_ids"`
}

func ListExceptions(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Glossary.Exceptions.All())
	}
}

func GetException(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		e, ok := d.Glossary.Exceptions.Get(id)
		if !ok {
			writeError(w, d.Logger, fmt.Errorf("exception %d: %w", id, domain.ErrNotFound))
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

func CreateException(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req exceptionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		ids, _, err := groupRefs(d.Glossary, req.GroupIDs, req.Groups)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		e, err := d.Glossary.Exceptions.Create(r.Context(), deref(req.Name), deref(req.Comment), deref(req.Disabled), ids)
		if errors.Is(err, domain.ErrDuplicate) {
			writeDuplicate(w, err, e)
			return
		}
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, e)
	}
}

func UpdateException(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		var req exceptionRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		e, ok := d.Glossary.Exceptions.Get(id)
		if !ok {
			writeError(w, d.Logger, fmt.Errorf("exception %d: %w", id, domain.ErrNotFound))
			return
		}
		if req.Name != nil {
			e.Name = *req.Name
		}
		if req.Comment != nil {
			e.Comment = *req.Comment
		}
		if req.Disabled != nil {
			e.Disabled = *req.Disabled
		}
		ids, set, err := groupRefs(d.Glossary, req.GroupIDs, req.Groups)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if set {
			e.SetGroups(ids)
		}
		if err := d.Glossary.Exceptions.Save(r.Context(), e); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

func DeleteException(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if err := d.Glossary.Exceptions.Delete(r.Context(), id); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
