package index

import (
	"testing"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
)

func loadSample(idx *MemoryIndex) {
	idx.ReplaceGroups([]*domain.Group{{ID: 1, Name: "IT"}})
	idx.ReplaceAbbreviations([]*domain.Abbreviation{
		{ID: 2, Name: "RAM", Description: "Random Access Memory", GroupIDs: []int64{1}},
		{ID: 1, Name: "CPU", Description: "Central Processing Unit"},
	})
	idx.ReplaceExceptions([]*domain.Exception{{ID: 1, Name: "OK"}})
}

func TestFingerprintStableAcrossIndexes(t *testing.T) {
	a, b := NewMemoryIndex(), NewMemoryIndex()
	loadSample(a)
	loadSample(b)
	// Extra churn on b leaves its revision ahead of a's.
	b.PutAbbreviation(&domain.Abbreviation{ID: 1, Name: "CPU", Description: "Central Processing Unit"})

	if a.Revision() == b.Revision() {
		t.Fatal("test setup: revisions should differ")
	}
	if a.Fingerprint() != b.Fingerprint() {
		t.Errorf("same content, different fingerprints: %s vs %s", a.Fingerprint(), b.Fingerprint())
	}
}

func TestFingerprintTracksContent(t *testing.T) {
	idx := NewMemoryIndex()
	loadSample(idx)
	base := idx.Fingerprint()

	cases := []struct {
		name   string
		mutate func(*MemoryIndex)
	}{
		{"description", func(i *MemoryIndex) {
			i.PutAbbreviation(&domain.Abbreviation{ID: 1, Name: "CPU", Description: "Processor"})
		}},
		{"disabled group", func(i *MemoryIndex) {
			i.PutGroup(&domain.Group{ID: 1, Name: "IT", Disabled: true})
		}},
		{"exception comment", func(i *MemoryIndex) {
			i.PutException(&domain.Exception{ID: 1, Name: "OK", Comment: "greeting"})
		}},
		{"group membership", func(i *MemoryIndex) {
			i.PutAbbreviation(&domain.Abbreviation{ID: 1, Name: "CPU", Description: "Central Processing Unit", GroupIDs: []int64{1}})
		}},
		{"delete", func(i *MemoryIndex) { i.DeleteAbbreviation(2) }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			i := NewMemoryIndex()
			loadSample(i)
			tc.mutate(i)
			if got := i.Fingerprint(); got == base {
				t.Errorf("fingerprint unchanged after %s change", tc.name)
			}
		})
	}
}

func TestFingerprintIgnoresGroupOrder(t *testing.T) {
	a, b := NewMemoryIndex(), NewMemoryIndex()
	a.PutAbbreviation(&domain.Abbreviation{ID: 1, Name: "CPU", GroupIDs: []int64{1, 2}})
	b.PutAbbreviation(&domain.Abbreviation{ID: 1, Name: "CPU", GroupIDs: []int64{2, 1}})

	if a.Fingerprint() != b.Fingerprint() {
		t.Error("group id order should not change the fingerprint")
	}
}
