package domain

// Abbreviation is a glossary entry: a short token and one of its expansions.
//
// One name may have several descriptions; each pair is a distinct entity.
type Abbreviation struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is assigned on first persist. UnsavedID before that.
	ID int64 `json:"id"`

	// ─────────────────────────────
	// Content
	// ─────────────────────────────

	// Name is the literal token, e.g. "CPU".
	Name string `json:"name"`

	// Description is the expansion, e.g. "Central Processing Unit".
	Description string `json:"description"`

	Comment string `json:"comment"`

	// ─────────────────────────────
	// Enablement
	// ─────────────────────────────

	// Disabled is the explicit per-entry flag.
	Disabled bool `json:"disabled"`

	// GroupIDs are non-owning references to groups, without duplicates.
	GroupIDs []int64 `json:"group_ids"`
}

// AbbreviationKey is the equality key of an abbreviation: name and description.
type AbbreviationKey struct {
	Name        string
	Description string
}

// NewAbbreviation returns an unsaved abbreviation with a normalized name.
func NewAbbreviation(name, description, comment string, disabled bool, groupIDs []int64) *Abbreviation {
	return &Abbreviation{
		ID:          UnsavedID,
		Name:        NormalizeName(name),
		Description: description,
		Comment:     comment,
		Disabled:    disabled,
		GroupIDs:    uniqueIDs(groupIDs),
	}
}

// Key returns the (name, description) pair used for duplicate detection and set membership.
func (a *Abbreviation) Key() AbbreviationKey {
	return AbbreviationKey{Name: a.Name, Description: a.Description}
}

// Equal reports whether both abbreviations share name and description.
func (a *Abbreviation) Equal(other *Abbreviation) bool {
	return other != nil && a.Key() == other.Key()
}

// Saved reports whether the abbreviation has been persisted.
func (a *Abbreviation) Saved() bool { return a.ID >= 0 }

// ExplicitlyDisabled reports the raw per-entry flag only.
func (a *Abbreviation) ExplicitlyDisabled() bool { return a.Disabled }

// CascadeDisabled reports whether the entry is disabled by its own flag or
// because every group it belongs to is disabled. An entry without groups is
// disabled only by its own flag.
func (a *Abbreviation) CascadeDisabled(groups GroupResolver) bool {
	return cascadeDisabled(a.Disabled, a.GroupIDs, groups)
}

// InAnyGroup reports whether the entry references any of the given group ids.
func (a *Abbreviation) InAnyGroup(ids map[int64]struct{}) bool {
	for _, id := range a.GroupIDs {
		if _, ok := ids[id]; ok {
			return true
		}
	}
	return false
}

// HasGroup reports whether the entry references the group.
func (a *Abbreviation) HasGroup(id int64) bool { return containsID(a.GroupIDs, id) }

// SetGroups replaces the group references, dropping duplicates.
func (a *Abbreviation) SetGroups(ids []int64) { a.GroupIDs = uniqueIDs(ids) }

// RemoveGroup drops a group reference and reports whether it was present.
func (a *Abbreviation) RemoveGroup(id int64) bool {
	var removed bool
	a.GroupIDs, removed = removeID(a.GroupIDs, id)
	return removed
}

// Clone returns a deep copy.
func (a *Abbreviation) Clone() *Abbreviation {
	c := *a
	c.GroupIDs = append([]int64{}, a.GroupIDs...)
	return &c
}
