package scheduler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MrSnakeDoc/abbrhelper/internal/logger"
)

const (
	DefaultGCInterval = time.Hour
	// DefaultGCThreshold is the age after which a leftover upload is deleted
	DefaultGCThreshold = time.Hour
)

// GarbageCollector removes uploaded documents left behind in the upload
// directory, e.g. after a crash between saving and scanning a file.
type GarbageCollector struct {
	dir       string
	logger    logger.Logger
	interval  time.Duration
	threshold time.Duration
	stopCh    chan struct{}
}

// NewGarbageCollector creates a new garbage collector
func NewGarbageCollector(
	dir string,
	log logger.Logger,
	interval time.Duration,
	threshold time.Duration,
) *GarbageCollector {
	if threshold <= 0 {
		threshold = DefaultGCThreshold
	}
	if interval <= 0 {
		interval = DefaultGCInterval
	}

	return &GarbageCollector{
		dir:       dir,
		logger:    log,
		interval:  interval,
		threshold: threshold,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic garbage collection process
func (gc *GarbageCollector) Start(ctx context.Context) error {
	// Run immediately on start
	if _, err := gc.Collect(ctx); err != nil {
		gc.logger.Warn("initial garbage collection failed",
			logger.Error(err))
	}

	ticker := time.NewTicker(gc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := gc.Collect(ctx); err != nil {
					gc.logger.Error("garbage collection failed",
						logger.Error(err))
				}
			case <-gc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the garbage collector
func (gc *GarbageCollector) Stop() {
	close(gc.stopCh)
}

// Collect deletes entries (files or per-upload directories) older than the
// threshold and returns how many were removed. A missing directory is not an error.
func (gc *GarbageCollector) Collect(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(gc.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read upload dir: %w", err)
	}

	now := time.Now()
	deletedCount := 0

	for _, entry := range entries {
		if ctx.Err() != nil {
			return deletedCount, ctx.Err()
		}
		if entry.Type()&os.ModeSymlink != 0 {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue // removed concurrently
		}
		age := now.Sub(info.ModTime())
		if age < gc.threshold {
			continue
		}

		path := filepath.Join(gc.dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			gc.logger.Warn("failed to remove stale upload",
				logger.String("file", path),
				logger.Error(err))
			continue
		}

		gc.logger.Debug("garbage collected stale upload",
			logger.String("file", entry.Name()),
			logger.String("age", age.String()))
		deletedCount++
	}

	if deletedCount > 0 {
		gc.logger.Info("garbage collection completed",
			logger.String("dir", gc.dir),
			logger.Int("entries_deleted", deletedCount))
	} else {
		gc.logger.Debug("no uploads to garbage collect")
	}

	return deletedCount, nil
}
