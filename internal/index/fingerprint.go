package index

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"sort"
	"strconv"
)

// Fingerprint returns a hash of the cached content: every abbreviation,
// group and exception with all of their fields. Two indexes holding the same
// rows have the same fingerprint, whichever process loaded them. The value is
// recomputed at most once per revision.
func (idx *MemoryIndex) Fingerprint() string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	idx.fpMu.Lock()
	defer idx.fpMu.Unlock()

	if idx.fp != "" && idx.fpRevision == idx.revision {
		return idx.fp
	}
	idx.fp = idx.fingerprintLocked()
	idx.fpRevision = idx.revision
	return idx.fp
}

func (idx *MemoryIndex) fingerprintLocked() string {
	h := sha256.New()

	for _, id := range sortedKeys(idx.groups) {
		g := idx.groups[id]
		writeFields(h, "g", strconv.FormatInt(g.ID, 10), g.Name, g.Comment, strconv.FormatBool(g.Disabled))
	}
	for _, id := range sortedKeys(idx.abbreviations) {
		a := idx.abbreviations[id]
		writeFields(h, "a", strconv.FormatInt(a.ID, 10), a.Name, a.Description, a.Comment,
			strconv.FormatBool(a.Disabled), joinIDs(a.GroupIDs))
	}
	for _, id := range sortedKeys(idx.exceptions) {
		e := idx.exceptions[id]
		writeFields(h, "e", strconv.FormatInt(e.ID, 10), e.Name, e.Comment,
			strconv.FormatBool(e.Disabled), joinIDs(e.GroupIDs))
	}

	return hex.EncodeToString(h.Sum(nil))
}

// writeFields writes one record; each field is length-prefixed so that no
// field content can shift into its neighbour.
func writeFields(h hash.Hash, fields ...string) {
	for _, f := range fields {
		h.Write([]byte(strconv.Itoa(len(f))))
		h.Write([]byte{':'})
		h.Write([]byte(f))
	}
	h.Write([]byte{'\n'})
}

func joinIDs(ids []int64) string {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	out := make([]byte, 0, len(sorted)*4)
	for i, id := range sorted {
		if i > 0 {
			out = append(out, ',')
		}
		out = strconv.AppendInt(out, id, 10)
	}
	return string(out)
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
