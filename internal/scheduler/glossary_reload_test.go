package scheduler

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
	"github.com/MrSnakeDoc/abbrhelper/internal/glossary"
	"github.com/MrSnakeDoc/abbrhelper/internal/index"
	"github.com/MrSnakeDoc/abbrhelper/internal/logger"
	"github.com/MrSnakeDoc/abbrhelper/internal/store/memstore"
)

type countingFlusher struct {
	calls int
	err   error
}

func (f *countingFlusher) FlushReports(context.Context) (int, error) {
	f.calls++
	return 3, f.err
}

func writeSeed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	content := `groups:
  - name: hardware
abbreviations:
  - name: CPU
    description: Central Processing Unit
    groups: [hardware]
exceptions:
  - name: OK
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write seed: %v", err)
	}
	return path
}

func TestGlossaryReloader_Reload(t *testing.T) {
	log := logger.New("error", false)
	st := memstore.New()
	g := glossary.New(st, index.NewMemoryIndex(), log)
	flusher := &countingFlusher{}

	gr := NewGlossaryReloader(g, writeSeed(t), flusher, log, time.Hour, make(chan struct{}))

	if err := gr.Reload(context.Background()); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	if got := len(g.Abbreviations.ByName("CPU")); got != 1 {
		t.Errorf("Expected CPU to be seeded, got %d entries", got)
	}
	if _, ok := g.Exceptions.ByName("OK"); !ok {
		t.Error("Expected exception OK to be seeded")
	}
	if flusher.calls != 1 {
		t.Errorf("Expected 1 flush, got %d", flusher.calls)
	}

	// Rows written behind the index show up on the next reload
	gpu := domain.NewAbbreviation("GPU", "Graphics Processing Unit", "", false, nil)
	if err := st.CreateAbbreviation(context.Background(), gpu); err != nil {
		t.Fatalf("CreateAbbreviation failed: %v", err)
	}
	if err := gr.Reload(context.Background()); err != nil {
		t.Fatalf("second Reload failed: %v", err)
	}
	if got := g.Index().AbbreviationCount(); got != 2 {
		t.Errorf("Expected 2 abbreviations after second reload, got %d", got)
	}
}

func TestGlossaryReloader_FlushErrorIsNotFatal(t *testing.T) {
	log := logger.New("error", false)
	g := glossary.New(memstore.New(), index.NewMemoryIndex(), log)
	flusher := &countingFlusher{err: errors.New("redis down")}

	gr := NewGlossaryReloader(g, "", flusher, log, time.Hour, make(chan struct{}))
	if err := gr.Reload(context.Background()); err != nil {
		t.Fatalf("Reload should ignore flush errors: %v", err)
	}
	if gr.loader != nil {
		t.Error("Expected seeding to be disabled for an empty seed file")
	}
}

func TestGlossaryReloader_MissingSeedFails(t *testing.T) {
	log := logger.New("error", false)
	g := glossary.New(memstore.New(), index.NewMemoryIndex(), log)

	gr := NewGlossaryReloader(g, filepath.Join(t.TempDir(), "missing.yaml"), nil, log, time.Hour, make(chan struct{}))
	if err := gr.Start(context.Background()); err == nil {
		t.Error("Start with a missing seed file should fail")
	}
}
