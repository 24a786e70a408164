// Package importer loads abbreviations from the semicolon-delimited glossary
// format:
//
//	# comment
//	CPU;Central Processing Unit
//	PC;Personal Computer;Program Counter
package importer

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Delimiter separates the name from its descriptions.
const Delimiter = ";"

// Entry is one name with the descriptions collected for it across the file,
// in first-seen order.
type Entry struct {
	Name         string
	Descriptions []string
	Line         int // first line the name appeared on
}

// InvalidLine is a line that was skipped.
type InvalidLine struct {
	Line   int
	Text   string
	Reason string
}

// ParseResult is the ordered outcome of Parse.
type ParseResult struct {
	Entries  []Entry
	Invalid  []InvalidLine
	Comments int
}

// Parse reads the whole input. Malformed lines are collected in Invalid and
// never stop the parse; only a read error does.
func Parse(r io.Reader) (*ParseResult, error) {
	res := &ParseResult{}
	byName := make(map[string]int)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		raw := strings.TrimRight(sc.Text(), "\r")

		if strings.HasPrefix(strings.TrimSpace(raw), "#") {
			res.Comments++
			continue
		}
		if reason := invalidReason(raw); reason != "" {
			res.Invalid = append(res.Invalid, InvalidLine{Line: lineNo, Text: raw, Reason: reason})
			continue
		}

		fields := strings.Split(raw, Delimiter)
		name := strings.TrimSpace(fields[0])
		if name == "" {
			res.Invalid = append(res.Invalid, InvalidLine{Line: lineNo, Text: raw, Reason: "empty name"})
			continue
		}

		var descs []string
		for _, d := range fields[1:] {
			if d = strings.TrimSpace(d); d != "" {
				descs = append(descs, d)
			}
		}
		if len(descs) == 0 {
			res.Invalid = append(res.Invalid, InvalidLine{Line: lineNo, Text: raw, Reason: "no description"})
			continue
		}

		if i, ok := byName[name]; ok {
			res.Entries[i].Descriptions = append(res.Entries[i].Descriptions, descs...)
			continue
		}
		byName[name] = len(res.Entries)
		res.Entries = append(res.Entries, Entry{Name: name, Descriptions: descs, Line: lineNo})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}
	return res, nil
}

func invalidReason(line string) string {
	switch {
	case strings.TrimSpace(line) == "":
		return "blank line"
	case len(line) <= 1:
		return "line too short"
	case !strings.Contains(line, Delimiter):
		return "missing delimiter"
	default:
		return ""
	}
}
