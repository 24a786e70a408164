package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrSnakeDoc/abbrhelper/internal/document"
	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
	"github.com/MrSnakeDoc/abbrhelper/internal/logger"
	"github.com/MrSnakeDoc/abbrhelper/internal/metrics"
)

// Creator is the create flow of the abbreviation manager.
type Creator interface {
	Create(ctx context.Context, name, description, comment string, disabled bool, groupIDs []int64) (*domain.Abbreviation, error)
}

// Summary counts what an import did.
type Summary struct {
	Created      int `json:"created"`
	Duplicates   int `json:"duplicates"`
	Invalid      int `json:"invalid"`
	SkippedLines int `json:"skipped_lines"`
}

type Importer struct {
	creator Creator
	log     logger.Logger
	metrics *metrics.Metrics
}

func New(creator Creator, log logger.Logger, m *metrics.Metrics) *Importer {
	return &Importer{creator: creator, log: log, metrics: m}
}

// ImportBytes decodes (UTF-8, else Windows-1251), parses and applies a file.
func (im *Importer) ImportBytes(ctx context.Context, raw []byte) (Summary, error) {
	text, err := document.DecodeText(raw)
	if err != nil {
		return Summary{}, err
	}
	parsed, err := Parse(strings.NewReader(text))
	if err != nil {
		return Summary{}, err
	}
	return im.Apply(ctx, parsed)
}

// Apply creates every (name, description) pair in file order. Pairs that
// already exist are counted as duplicates; pairs that fail validation are
// counted as invalid. A store failure aborts the import.
func (im *Importer) Apply(ctx context.Context, parsed *ParseResult) (Summary, error) {
	sum := Summary{SkippedLines: len(parsed.Invalid)}

	for _, bad := range parsed.Invalid {
		if bad.Reason == "blank line" {
			im.log.Debug("import: blank line skipped", logger.Int("line", bad.Line))
			continue
		}
		im.log.Warn("import: invalid line skipped",
			logger.Int("line", bad.Line),
			logger.String("reason", bad.Reason),
			logger.String("text", bad.Text))
	}

	for _, e := range parsed.Entries {
		for _, descr := range e.Descriptions {
			_, err := im.creator.Create(ctx, e.Name, descr, "", false, nil)
			switch {
			case err == nil:
				sum.Created++
			case errors.Is(err, domain.ErrDuplicate):
				sum.Duplicates++
			case errors.Is(err, domain.ErrInvalidInput):
				sum.Invalid++
				im.log.Warn("import: entry rejected",
					logger.Int("line", e.Line),
					logger.String("name", e.Name),
					logger.Error(err))
			default:
				im.metrics.ObserveImport(sum.Created, sum.Duplicates, sum.Invalid)
				return sum, fmt.Errorf("import %q (line %d): %w", e.Name, e.Line, err)
			}
		}
	}

	im.metrics.ObserveImport(sum.Created, sum.Duplicates, sum.Invalid)
	im.log.Info("import finished",
		logger.Int("created", sum.Created),
		logger.Int("duplicates", sum.Duplicates),
		logger.Int("invalid", sum.Invalid),
		logger.Int("skipped_lines", sum.SkippedLines))
	return sum, nil
}

// ImportString parses and applies text that is already decoded.
func (im *Importer) ImportString(ctx context.Context, text string) (Summary, error) {
	parsed, err := Parse(strings.NewReader(text))
	if err != nil {
		return Summary{}, err
	}
	return im.Apply(ctx, parsed)
}
