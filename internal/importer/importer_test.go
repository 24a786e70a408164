package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
	"github.com/MrSnakeDoc/abbrhelper/internal/glossary"
	"github.com/MrSnakeDoc/abbrhelper/internal/index"
	"github.com/MrSnakeDoc/abbrhelper/internal/logger"
	"github.com/MrSnakeDoc/abbrhelper/internal/store/memstore"
)

const sample = `# glossary export
CPU;Central Processing Unit
PC;Personal Computer;Program Counter

no delimiter here
;
x
PC;Program Counter;;Printed Circuit
#RAM;commented out
;orphan description
GPU;  
`

func TestParse(t *testing.T) {
	res, err := Parse(strings.NewReader(sample))
	require.NoError(t, err)

	require.Len(t, res.Entries, 2)
	assert.Equal(t, Entry{Name: "CPU", Descriptions: []string{"Central Processing Unit"}, Line: 2}, res.Entries[0])
	assert.Equal(t, "PC", res.Entries[1].Name)
	assert.Equal(t, []string{"Personal Computer", "Program Counter", "Program Counter", "Printed Circuit"}, res.Entries[1].Descriptions)
	assert.Equal(t, 3, res.Entries[1].Line)

	assert.Equal(t, 2, res.Comments)

	reasons := map[int]string{}
	for _, bad := range res.Invalid {
		reasons[bad.Line] = bad.Reason
	}
	assert.Equal(t, map[int]string{
		4:  "blank line",
		5:  "missing delimiter",
		6:  "line too short",
		7:  "line too short",
		10: "empty name",
		11: "no description",
	}, reasons)
}

func TestParse_CRLF(t *testing.T) {
	res, err := Parse(strings.NewReader("CPU;Central Processing Unit\r\nRAM;Random Access Memory\r\n"))
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)
	assert.Equal(t, []string{"Central Processing Unit"}, res.Entries[0].Descriptions)
	assert.Empty(t, res.Invalid)
}

func newImporter(t *testing.T) (*Importer, *glossary.Glossary) {
	t.Helper()
	g := glossary.New(memstore.New(), index.NewMemoryIndex(), logger.Nop())
	require.NoError(t, g.LoadAll(context.Background()))
	return New(g.Abbreviations, logger.Nop(), nil), g
}

func TestImportString_SkipsExistingPairs(t *testing.T) {
	ctx := context.Background()
	im, g := newImporter(t)

	_, err := g.Abbreviations.Create(ctx, "CPU", "Central Processing Unit", "", false, nil)
	require.NoError(t, err)

	sum, err := im.ImportString(ctx, sample)
	require.NoError(t, err)

	assert.Equal(t, Summary{Created: 3, Duplicates: 2, Invalid: 0, SkippedLines: 6}, sum)
	assert.Len(t, g.Abbreviations.ByName("PC"), 3)
	assert.Len(t, g.Abbreviations.ByName("CPU"), 1)
}

func TestImportString_ValidationCounted(t *testing.T) {
	im, g := newImporter(t)

	sum, err := im.ImportString(context.Background(), "C;Centigrade\nOS;OS\nOS;Operating System\n")
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Created)
	assert.Equal(t, 2, sum.Invalid)
	assert.Len(t, g.Abbreviations.All(), 1)
}

func TestImportBytes_Windows1251(t *testing.T) {
	im, g := newImporter(t)

	encoded, err := charmap.Windows1251.NewEncoder().String("ЦБ;Центральный банк\n")
	require.NoError(t, err)

	sum, err := im.ImportBytes(context.Background(), []byte(encoded))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Created)
	assert.True(t, g.Abbreviations.Exists("ЦБ", "Центральный банк"))
}

type failingCreator struct{}

func (failingCreator) Create(context.Context, string, string, string, bool, []int64) (*domain.Abbreviation, error) {
	return nil, domain.ErrStoreUnavailable
}

func TestApply_StoreFailureAborts(t *testing.T) {
	im := New(failingCreator{}, logger.Nop(), nil)
	_, err := im.ImportString(context.Background(), "CPU;Central Processing Unit\nRAM;Random Access Memory\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrStoreUnavailable))
}
