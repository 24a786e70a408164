package domain

// Exception is a "not an abbreviation" term: a token shaped like an abbreviation
// that must never be reported as known or unknown. One name is one exception.
type Exception struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Comment  string  `json:"comment"`
	Disabled bool    `json:"disabled"`
	GroupIDs []int64 `json:"group_ids"`
}

// NewException returns an unsaved exception with a normalized name.
func NewException(name, comment string, disabled bool, groupIDs []int64) *Exception {
	return &Exception{
		ID:       UnsavedID,
		Name:     NormalizeName(name),
		Comment:  comment,
		Disabled: disabled,
		GroupIDs: uniqueIDs(groupIDs),
	}
}

// Key is the equality key of an exception.
func (e *Exception) Key() string { return e.Name }

// Equal reports whether both exceptions share the same name.
func (e *Exception) Equal(other *Exception) bool {
	return other != nil && e.Name == other.Name
}

func (e *Exception) Saved() bool { return e.ID >= 0 }

// ExplicitlyDisabled reports the raw per-entry flag only.
func (e *Exception) ExplicitlyDisabled() bool { return e.Disabled }

// CascadeDisabled applies the same rule as Abbreviation.CascadeDisabled.
func (e *Exception) CascadeDisabled(groups GroupResolver) bool {
	return cascadeDisabled(e.Disabled, e.GroupIDs, groups)
}

func (e *Exception) HasGroup(id int64) bool { return containsID(e.GroupIDs, id) }

func (e *Exception) SetGroups(ids []int64) { e.GroupIDs = uniqueIDs(ids) }

func (e *Exception) RemoveGroup(id int64) bool {
	var removed bool
	e.GroupIDs, removed = removeID(e.GroupIDs, id)
	return removed
}

func (e *Exception) Clone() *Exception {
	c := *e
	c.GroupIDs = append([]int64{}, e.GroupIDs...)
	return &c
}
