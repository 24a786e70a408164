package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MrSnakeDoc/abbrhelper/internal/domain"
)

// PushScan records a scan summary at the head of the recent list and trims it
func (s *Store) PushScan(ctx context.Context, summary domain.ScanSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal scan %s: %w", summary.ID, err)
	}

	pipe := s.client.Pipeline()
	pipe.LPush(ctx, RecentScansKey(), data)
	pipe.LTrim(ctx, RecentScansKey(), 0, MaxRecentScans-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record scan: %w", err)
	}
	return nil
}

// RecentScans returns up to limit summaries, newest first. Entries that fail
// to decode are skipped.
func (s *Store) RecentScans(ctx context.Context, limit int) ([]domain.ScanSummary, error) {
	if limit <= 0 || limit > MaxRecentScans {
		limit = MaxRecentScans
	}
	raw, err := s.client.LRange(ctx, RecentScansKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get recent scans: %w", err)
	}

	out := make([]domain.ScanSummary, 0, len(raw))
	for _, item := range raw {
		var sum domain.ScanSummary
		if err := json.Unmarshal([]byte(item), &sum); err != nil {
			continue
		}
		out = append(out, sum)
	}
	return out, nil
}
