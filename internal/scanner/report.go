package scanner

import (
	"fmt"
	"sort"
	"strings"
)

// Report section headers, in render order.
const (
	headerKnown      = "KNOWN ABBREVIATIONS"
	headerUnknown    = "UNKNOWN ABBREVIATIONS"
	headerExceptions = "KNOWN EXCEPTIONS"
	headerAll        = "ALL FOUND ABBREVIATIONS"
)

// reportLine is one row of the "all found" section. Known entries and bare
// unknown tokens share it so that they sort by the same key.
type reportLine struct {
	name        string
	description string
	id          int64
}

func (l reportLine) String() string { return l.name + " - " + l.description }

// Render returns the plain-text report. Every section is present, even when empty.
func Render(r *Result) string {
	var b strings.Builder

	known := make([]reportLine, 0, len(r.Known))
	for _, a := range r.Known {
		known = append(known, reportLine{name: a.Name, description: a.Description, id: a.ID})
	}
	unknown := make([]reportLine, 0, len(r.Unknown))
	for _, name := range r.Unknown {
		unknown = append(unknown, reportLine{name: name, id: -1})
	}
	exceptions := make([]string, 0, len(r.Exceptions))
	for _, e := range r.Exceptions {
		exceptions = append(exceptions, e.Name)
	}
	sort.Strings(exceptions)

	all := make([]reportLine, 0, len(known)+len(unknown))
	all = append(all, known...)
	all = append(all, unknown...)

	writeLines(&b, headerKnown, sortLines(known))
	b.WriteString("\n")
	writeLines(&b, headerUnknown, sortLines(unknown))
	b.WriteString("\n")
	writeSection(&b, headerExceptions, exceptions)
	b.WriteString("\n")
	writeLines(&b, headerAll, sortLines(all))

	return b.String()
}

// RenderMarkup is Render with every line break preceded by <br>. The text is
// not escaped; callers embed it in JSON, never in raw HTML.
func RenderMarkup(r *Result) string {
	return ToMarkup(Render(r))
}

// ToMarkup applies the line-break substitution to an already rendered report.
func ToMarkup(text string) string {
	return strings.ReplaceAll(text, "\n", "<br>\n")
}

func sortLines(lines []reportLine) []reportLine {
	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].name != lines[j].name {
			return lines[i].name < lines[j].name
		}
		if lines[i].description != lines[j].description {
			return lines[i].description < lines[j].description
		}
		return lines[i].id < lines[j].id
	})
	return lines
}

func writeLines(b *strings.Builder, header string, lines []reportLine) {
	rows := make([]string, len(lines))
	for i, l := range lines {
		rows[i] = l.String()
	}
	writeSection(b, header, rows)
}

func writeSection(b *strings.Builder, header string, rows []string) {
	fmt.Fprintf(b, "%s (%d):\n", header, len(rows))
	for _, row := range rows {
		b.WriteString(row)
		b.WriteString("\n")
	}
}
