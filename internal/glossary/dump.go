package glossary

import (
	"bufio"
	"io"
	"sort"
	"strconv"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
)

// Dump writes every abbreviation row as "id;name;description;comment;disabled",
// ordered by id. Disabled is written as 0 or 1.
func (m *AbbreviationManager) Dump(w io.Writer) error {
	list := m.index.AllAbbreviations()
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	bw := bufio.NewWriter(w)
	for _, a := range list {
		writeDumpLine(bw, a)
	}
	return bw.Flush()
}

func writeDumpLine(bw *bufio.Writer, a *domain.Abbreviation) {
	disabled := "0"
	if a.Disabled {
		disabled = "1"
	}
	_, _ = bw.WriteString(strconv.FormatInt(a.ID, 10))
	for _, field := range []string{a.Name, a.Description, a.Comment, disabled} {
		_ = bw.WriteByte(';')
		_, _ = bw.WriteString(field)
	}
	_ = bw.WriteByte('\n')
}
