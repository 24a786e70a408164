package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// CacheReport stores an encoded report under its digest
func (s *Store) CacheReport(ctx context.Context, digest string, payload []byte) error {
	if err := s.client.Set(ctx, ReportKey(digest), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}

// GetCachedReport retrieves a cached report; ok is false on a cache miss
func (s *Store) GetCachedReport(ctx context.Context, digest string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, ReportKey(digest)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil // Cache miss
		}
		return nil, false, fmt.Errorf("failed to get cached report: %w", err)
	}
	return data, true, nil
}

// InvalidateReport removes one cached report
func (s *Store) InvalidateReport(ctx context.Context, digest string) error {
	if err := s.client.Del(ctx, ReportKey(digest)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate report: %w", err)
	}
	return nil
}

// FlushReports removes all cached reports and returns how many were deleted
func (s *Store) FlushReports(ctx context.Context) (int, error) {
	deleted := 0
	iter := s.client.Scan(ctx, 0, KeyPrefixReport+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("failed to delete report key: %w", err)
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("failed to flush reports: %w", err)
	}
	return deleted, nil
}
