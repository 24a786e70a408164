package domain

import (
	"reflect"
	"testing"
)

func resolverOf(groups ...*Group) GroupResolver {
	m := make(map[int64]*Group, len(groups))
	for _, g := range groups {
		m[g.ID] = g
	}
	return func(id int64) (*Group, bool) {
		g, ok := m[id]
		return g, ok
	}
}

func TestAbbreviationCascadeDisabled(t *testing.T) {
	g1 := &Group{ID: 1, Name: "hw", Disabled: true}
	g2 := &Group{ID: 2, Name: "net", Disabled: true}
	g3 := &Group{ID: 3, Name: "sw", Disabled: false}

	tests := []struct {
		name     string
		abbr     *Abbreviation
		groups   GroupResolver
		cascade  bool
		explicit bool
	}{
		{
			name:     "no groups, enabled",
			abbr:     &Abbreviation{ID: 1, Name: "CPU"},
			groups:   resolverOf(g1, g2, g3),
			cascade:  false,
			explicit: false,
		},
		{
			name:     "no groups, disabled",
			abbr:     &Abbreviation{ID: 1, Name: "CPU", Disabled: true},
			groups:   resolverOf(g1, g2, g3),
			cascade:  true,
			explicit: true,
		},
		{
			name:     "all groups disabled",
			abbr:     &Abbreviation{ID: 1, Name: "CPU", GroupIDs: []int64{1, 2}},
			groups:   resolverOf(g1, g2, g3),
			cascade:  true,
			explicit: false,
		},
		{
			name:     "one group enabled",
			abbr:     &Abbreviation{ID: 1, Name: "CPU", GroupIDs: []int64{1, 3}},
			groups:   resolverOf(g1, g2, g3),
			cascade:  false,
			explicit: false,
		},
		{
			name:     "dangling group ids ignored",
			abbr:     &Abbreviation{ID: 1, Name: "CPU", GroupIDs: []int64{42}},
			groups:   resolverOf(g1),
			cascade:  false,
			explicit: false,
		},
		{
			name:     "nil resolver",
			abbr:     &Abbreviation{ID: 1, Name: "CPU", GroupIDs: []int64{1}},
			groups:   nil,
			cascade:  false,
			explicit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.abbr.CascadeDisabled(tt.groups); got != tt.cascade {
				t.Errorf("CascadeDisabled() = %v, want %v", got, tt.cascade)
			}
			if got := tt.abbr.ExplicitlyDisabled(); got != tt.explicit {
				t.Errorf("ExplicitlyDisabled() = %v, want %v", got, tt.explicit)
			}
		})
	}
}

func TestExceptionCascadeDisabled(t *testing.T) {
	off := &Group{ID: 7, Disabled: true}
	on := &Group{ID: 8}

	e := NewException("OK", "", false, []int64{7})
	if !e.CascadeDisabled(resolverOf(off, on)) {
		t.Error("exception with only disabled groups should be cascade-disabled")
	}
	e.SetGroups([]int64{7, 8})
	if e.CascadeDisabled(resolverOf(off, on)) {
		t.Error("exception with an enabled group should not be cascade-disabled")
	}
}

func TestAbbreviationEquality(t *testing.T) {
	a := &Abbreviation{ID: 1, Name: "CPU", Description: "Central Processing Unit", Comment: "x"}
	b := &Abbreviation{ID: 2, Name: "CPU", Description: "Central Processing Unit", Disabled: true}
	c := &Abbreviation{ID: 3, Name: "CPU", Description: "Critical Path Unit"}

	if !a.Equal(b) {
		t.Error("abbreviations with same name and description should be equal")
	}
	if a.Equal(c) {
		t.Error("abbreviations with different descriptions should differ")
	}

	set := map[AbbreviationKey]struct{}{a.Key(): {}, b.Key(): {}, c.Key(): {}}
	if len(set) != 2 {
		t.Errorf("expected 2 distinct keys, got %d", len(set))
	}
}

func TestExceptionEquality(t *testing.T) {
	a := &Exception{ID: 1, Name: "OK", Comment: "a"}
	b := &Exception{ID: 2, Name: "OK", Comment: "b", Disabled: true}
	if !a.Equal(b) {
		t.Error("exceptions are equal by name")
	}
}

func TestGroupReferences(t *testing.T) {
	a := NewAbbreviation(" CPU ", "Central Processing Unit", "", false, []int64{1, 2, 1, 3})
	if a.ID != UnsavedID || a.Saved() {
		t.Errorf("new abbreviation should be unsaved, got id %d", a.ID)
	}
	if a.Name != "CPU" {
		t.Errorf("name not normalized: %q", a.Name)
	}
	if !reflect.DeepEqual(a.GroupIDs, []int64{1, 2, 3}) {
		t.Errorf("GroupIDs = %v, want [1 2 3]", a.GroupIDs)
	}
	if !a.RemoveGroup(2) {
		t.Error("RemoveGroup(2) should report removal")
	}
	if a.RemoveGroup(2) {
		t.Error("RemoveGroup(2) twice should report nothing removed")
	}
	if a.HasGroup(2) {
		t.Error("group 2 still referenced")
	}

	clone := a.Clone()
	clone.GroupIDs[0] = 99
	if a.GroupIDs[0] == 99 {
		t.Error("Clone shares the group slice")
	}
}
