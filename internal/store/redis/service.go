package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultReportTTL is the default TTL for cached reports (24 hours)
	DefaultReportTTL = 24 * time.Hour
	// MaxRecentScans caps the recent scans list
	MaxRecentScans = 100
)

// Store handles the Redis side of the service: report cache and scan history.
// The glossary itself never lives in Redis.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a new Redis store. A ttl <= 0 uses DefaultReportTTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}
