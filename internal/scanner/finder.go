// Package scanner classifies the words of a document against the glossary and
// renders the outcome as a report.
package scanner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
)

// DisablePolicy selects which disable predicate the finder applies to
// glossary entries.
type DisablePolicy int

const (
	// PolicyExplicit keeps an entry unless its own disabled flag is set.
	PolicyExplicit DisablePolicy = iota
	// PolicyCascade also drops entries whose groups are all disabled.
	PolicyCascade
)

func (p DisablePolicy) String() string {
	switch p {
	case PolicyCascade:
		return "cascade"
	default:
		return "explicit"
	}
}

// ParsePolicy accepts "explicit" or "cascade" (case-insensitive, empty = explicit).
func ParsePolicy(s string) (DisablePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "explicit":
		return PolicyExplicit, nil
	case "cascade":
		return PolicyCascade, nil
	default:
		return PolicyExplicit, fmt.Errorf("unknown disable policy %q: %w", s, domain.ErrInvalidInput)
	}
}

// Lookup is the read-only glossary view the finder needs.
// index.MemoryIndex satisfies it.
type Lookup interface {
	AbbreviationsByName(name string) []*domain.Abbreviation
	ExceptionByName(name string) (*domain.Exception, bool)
	GetGroup(id int64) (*domain.Group, bool)
}

// Options are per-call classification settings. Nothing set here outlives the call.
type Options struct {
	// SuppressedGroups hides, for this call only, every abbreviation linked to
	// one of these groups from the known set. Exceptions are not affected.
	SuppressedGroups []int64

	Policy DisablePolicy
}

// Finder partitions a word list into known, unknown and exception findings.
// It holds no per-run state and is safe for concurrent use.
type Finder struct {
	lookup Lookup
}

func NewFinder(lookup Lookup) *Finder {
	return &Finder{lookup: lookup}
}

// Classify never mutates the glossary and never fails: a name with no usable
// entry is simply unknown.
func (f *Finder) Classify(words []string, opts Options) *Result {
	suppressed := make(map[int64]struct{}, len(opts.SuppressedGroups))
	for _, id := range opts.SuppressedGroups {
		suppressed[id] = struct{}{}
	}

	candidates := make([]string, 0)
	seenCandidate := make(map[string]struct{})
	exceptions := make(map[string]*domain.Exception)

	for _, w := range words {
		exc, isException := f.activeException(w, opts.Policy)
		if isException {
			exceptions[exc.Name] = exc
			continue
		}
		if !domain.LooksLikeAbbreviation(w) {
			continue
		}
		if _, ok := seenCandidate[w]; ok {
			continue
		}
		seenCandidate[w] = struct{}{}
		candidates = append(candidates, w)
	}

	res := &Result{
		Known:      []*domain.Abbreviation{},
		Unknown:    []string{},
		Exceptions: make([]*domain.Exception, 0, len(exceptions)),
		Candidates: len(candidates),
	}

	knownNames := make(map[string]struct{})
	for _, name := range candidates {
		for _, a := range f.lookup.AbbreviationsByName(name) {
			if !f.include(a, opts.Policy, suppressed) {
				continue
			}
			res.Known = append(res.Known, a)
			knownNames[a.Name] = struct{}{}
		}
	}
	for _, name := range candidates {
		if _, ok := knownNames[name]; !ok {
			res.Unknown = append(res.Unknown, name)
		}
	}
	for _, e := range exceptions {
		res.Exceptions = append(res.Exceptions, e)
	}

	res.sort()
	return res
}

func (f *Finder) activeException(word string, policy DisablePolicy) (*domain.Exception, bool) {
	e, ok := f.lookup.ExceptionByName(word)
	if !ok {
		return nil, false
	}
	if policy == PolicyCascade {
		if e.CascadeDisabled(f.lookup.GetGroup) {
			return nil, false
		}
	} else if e.ExplicitlyDisabled() {
		return nil, false
	}
	return e, true
}

func (f *Finder) include(a *domain.Abbreviation, policy DisablePolicy, suppressed map[int64]struct{}) bool {
	if policy == PolicyCascade {
		if a.CascadeDisabled(f.lookup.GetGroup) {
			return false
		}
	} else if a.ExplicitlyDisabled() {
		return false
	}
	return !a.InAnyGroup(suppressed)
}

// Result is the outcome of one classification run.
type Result struct {
	// Known are the glossary entries matched by a candidate, sorted by name,
	// description, then id.
	Known []*domain.Abbreviation `json:"known"`
	// Unknown are candidate tokens with no usable entry, sorted.
	Unknown []string `json:"unknown"`
	// Exceptions are the active exception terms present in the text, sorted by name.
	Exceptions []*domain.Exception `json:"exceptions"`
	// Candidates is the number of distinct abbreviation-shaped tokens.
	Candidates int `json:"candidates"`
}

func (r *Result) sort() {
	sort.SliceStable(r.Known, func(i, j int) bool { return lessAbbreviation(r.Known[i], r.Known[j]) })
	sort.Strings(r.Unknown)
	sort.SliceStable(r.Exceptions, func(i, j int) bool { return r.Exceptions[i].Name < r.Exceptions[j].Name })
}

func lessAbbreviation(a, b *domain.Abbreviation) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	if a.Description != b.Description {
		return a.Description < b.Description
	}
	return a.ID < b.ID
}

// KnownNames returns the distinct names of the known entries, sorted.
func (r *Result) KnownNames() []string {
	seen := make(map[string]struct{}, len(r.Known))
	out := make([]string, 0, len(r.Known))
	for _, a := range r.Known {
		if _, ok := seen[a.Name]; ok {
			continue
		}
		seen[a.Name] = struct{}{}
		out = append(out, a.Name)
	}
	return out
}
