package redis

import (
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

func TestReportKey(t *testing.T) {
	key := ReportKey("abc123")
	if key != "abbrhelper:report:abc123" {
		t.Errorf("ReportKey() = %q", key)
	}

	digest, err := ExtractReportDigest(key)
	if err != nil {
		t.Fatalf("ExtractReportDigest() error = %v", err)
	}
	if digest != "abc123" {
		t.Errorf("ExtractReportDigest() = %q, want abc123", digest)
	}
}

func TestExtractReportDigest_Invalid(t *testing.T) {
	tests := []string{
		"",
		"abbrhelper:report:",
		"abbrhelper:scans:recent",
		"other:report:abc",
	}
	for _, key := range tests {
		if _, err := ExtractReportDigest(key); err == nil {
			t.Errorf("ExtractReportDigest(%q) expected error", key)
		}
	}
}

func TestRecentScansKey(t *testing.T) {
	if RecentScansKey() != "abbrhelper:scans:recent" {
		t.Errorf("RecentScansKey() = %q", RecentScansKey())
	}
}

func TestNewStore_DefaultTTL(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	if s := NewStore(client, 0); s.ttl != DefaultReportTTL {
		t.Errorf("ttl = %v, want %v", s.ttl, DefaultReportTTL)
	}
	if s := NewStore(client, time.Minute); s.ttl != time.Minute {
		t.Errorf("ttl = %v, want 1m", s.ttl)
	}
}
