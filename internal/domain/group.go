package domain

// UnsavedID is the identity of an entity that has not been persisted yet.
const UnsavedID int64 = -1

// Group is a tag used to enable or disable many abbreviations and exceptions at once.
// Groups are referenced by id; they do not own the entities that point at them.
type Group struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Comment  string `json:"comment"`
	Disabled bool   `json:"disabled"`
}

// NewGroup returns an unsaved group with a normalized name.
func NewGroup(name, comment string, disabled bool) *Group {
	return &Group{
		ID:       UnsavedID,
		Name:     NormalizeName(name),
		Comment:  comment,
		Disabled: disabled,
	}
}

// Saved reports whether the group has been assigned an identity by the store.
func (g *Group) Saved() bool { return g.ID >= 0 }

// Clone returns a copy that can be mutated without touching cached state.
func (g *Group) Clone() *Group {
	c := *g
	return &c
}

// GroupResolver resolves a group id to the current group.
// The in-memory index satisfies it with its GetGroup method.
type GroupResolver func(id int64) (*Group, bool)

// cascadeDisabled implements the display rule shared by abbreviations and exceptions:
// an entity is disabled when its own flag is set, or when it references at least one
// group and every referenced group is disabled. Ids that no longer resolve are ignored.
func cascadeDisabled(disabled bool, groupIDs []int64, groups GroupResolver) bool {
	if disabled {
		return true
	}
	if groups == nil {
		return false
	}
	resolved := 0
	for _, id := range groupIDs {
		g, ok := groups(id)
		if !ok {
			continue
		}
		resolved++
		if !g.Disabled {
			return false
		}
	}
	return resolved > 0
}

// uniqueIDs drops repeated ids while keeping first-seen order.
func uniqueIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return []int64{}
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []int64, id int64) ([]int64, bool) {
	out := make([]int64, 0, len(ids))
	removed := false
	for _, v := range ids {
		if v == id {
			removed = true
			continue
		}
		out = append(out, v)
	}
	return out, removed
}
