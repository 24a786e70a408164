package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
	"github.com/MrSnakeDoc/abbrhelper/internal/glossary"
	"github.com/MrSnakeDoc/abbrhelper/internal/httpserver/deps"
	"github.com/MrSnakeDoc/abbrhelper/internal/logger"
)

// abbreviationRequest is the body of create and update calls. Groups is the
// comma-separated list of group names typed in the edit form; GroupIDs wins
// when both are set. Nil fields are left untouched on update.
type abbreviationRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Comment     *string `json:"comment"`
	Disabled    *bool   `json:"disabled"`
	Groups      *string `json:"groups"`
	GroupIDs    []int64 `json:"group_ids"`
}

// groupRefs resolves the requested group references; ok is false when the
// request does not mention groups at all.
func groupRefs(g *glossary.Glossary, ids []int64, names *string) ([]int64, bool, error) {
	if ids != nil {
		return ids, true, nil
	}
	if names == nil {
		return nil, false, nil
	}
	resolved, err := g.Groups.IDsByNames(glossary.SplitNames(*names))
	if err != nil {
		return nil, true, fmt.Errorf("%v: %w", err, domain.ErrInvalidInput)
	}
	return resolved, true, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func ListAbbreviations(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Glossary.Abbreviations.All())
	}
}

func GetAbbreviation(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		a, ok := d.Glossary.Abbreviations.Get(id)
		if !ok {
			writeError(w, d.Logger, fmt.Errorf("abbreviation %d: %w", id, domain.ErrNotFound))
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

func CreateAbbreviation(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req abbreviationRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		ids, _, err := groupRefs(d.Glossary, req.GroupIDs, req.Groups)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		a, err := d.Glossary.Abbreviations.Create(r.Context(),
			deref(req.Name), deref(req.Description), deref(req.Comment), deref(req.Disabled), ids)
		if errors.Is(err, domain.ErrDuplicate) {
			writeDuplicate(w, err, a)
			return
		}
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, a)
	}
}

func UpdateAbbreviation(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		var req abbreviationRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		a, ok := d.Glossary.Abbreviations.Get(id)
		if !ok {
			writeError(w, d.Logger, fmt.Errorf("abbreviation %d: %w", id, domain.ErrNotFound))
			return
		}

		if req.Name != nil {
			a.Name = *req.Name
		}
		if req.Description != nil {
			a.Description = *req.Description
		}
		if req.Comment != nil {
			a.Comment = *req.Comment
		}
		if req.Disabled != nil {
			a.Disabled = *req.Disabled
		}
		ids, set, err := groupRefs(d.Glossary, req.GroupIDs, req.Groups)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if set {
			a.SetGroups(ids)
		}

		if err := d.Glossary.Abbreviations.Save(r.Context(), a); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, a)
	}
}

func DeleteAbbreviation(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		if err := d.Glossary.Abbreviations.Delete(r.Context(), id); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DumpDB streams every abbreviation row as semicolon-separated text.
func DumpDB(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		if err := d.Glossary.Abbreviations.Dump(w); err != nil {
			d.Logger.Debug("failed to write dump", logger.Error(err))
		}
	}
}
