package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/abbrhelper/internal/glossary"
	"github.com/MrSnakeDoc/abbrhelper/internal/logger"
	"github.com/MrSnakeDoc/abbrhelper/internal/sources/seed"
)

// ReportFlusher drops every cached scan report.
type ReportFlusher interface {
	FlushReports(ctx context.Context) (int, error)
}

// GlossaryReloader periodically re-reads the glossary from the database and
// applies the optional yaml seed on top of it.
type GlossaryReloader struct {
	glossary      *glossary.Glossary
	loader        *seed.Loader // nil when no seed file is configured
	mapper        *seed.Mapper
	flusher       ReportFlusher // nil when the report cache is disabled
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// DefaultReloadInterval applies when no positive interval is configured.
const DefaultReloadInterval = 24 * time.Hour

// NewGlossaryReloader creates a new glossary reloader. An empty seedFile
// disables seeding; a nil flusher disables report cache invalidation.
func NewGlossaryReloader(
	g *glossary.Glossary,
	seedFile string,
	flusher ReportFlusher,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *GlossaryReloader {
	if interval <= 0 {
		interval = DefaultReloadInterval
	}
	gr := &GlossaryReloader{
		glossary:      g,
		mapper:        seed.NewMapper(g, log),
		flusher:       flusher,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
	if seedFile != "" {
		gr.loader = seed.NewLoader(seedFile)
	}
	return gr
}

// Start begins the periodic reload process
func (gr *GlossaryReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := gr.Reload(ctx); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	ticker := time.NewTicker(gr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := gr.Reload(ctx); err != nil {
					gr.logger.Error("failed to reload glossary",
						logger.Error(err))
				}
			case <-gr.manualTrigger:
				gr.logger.Info("manual reload triggered")
				if err := gr.Reload(ctx); err != nil {
					gr.logger.Error("failed to reload glossary",
						logger.Error(err))
				}
			case <-gr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (gr *GlossaryReloader) Stop() {
	close(gr.stopCh)
}

// Reload refreshes the index from the database, applies the seed and drops
// cached reports. Digests embed the content fingerprint, so old entries can no
// longer be hit after a change; the flush only reclaims their space early.
func (gr *GlossaryReloader) Reload(ctx context.Context) error {
	gr.logger.Info("reloading glossary")

	if err := gr.glossary.LoadAll(ctx); err != nil {
		return fmt.Errorf("failed to load glossary: %w", err)
	}

	if gr.loader != nil {
		f, err := gr.loader.Load()
		if err != nil {
			return fmt.Errorf("failed to load seed: %w", err)
		}
		res, err := gr.mapper.Apply(ctx, f)
		if err != nil {
			return fmt.Errorf("failed to apply seed: %w", err)
		}
		gr.logger.Info("seed applied",
			logger.String("file", gr.loader.Path()),
			logger.Int("created", res.Created),
			logger.Int("existing", res.Existing),
			logger.Int("rejected", res.Rejected))
	}

	idx := gr.glossary.Index()
	gr.logger.Info("glossary loaded",
		logger.Int("abbreviations", idx.AbbreviationCount()),
		logger.Int("groups", idx.GroupCount()),
		logger.Int("exceptions", idx.ExceptionCount()),
		logger.Uint64("revision", idx.Revision()),
		logger.String("fingerprint", idx.Fingerprint()))

	// Best effort: unflushed entries expire with the TTL
	if gr.flusher != nil {
		n, err := gr.flusher.FlushReports(ctx)
		if err != nil {
			gr.logger.Warn("failed to flush cached reports", logger.Error(err))
		} else if n > 0 {
			gr.logger.Info("cached reports flushed", logger.Int("count", n))
		}
	}

	return nil
}
