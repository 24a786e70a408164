package redis

import "fmt"

const (
	// KeyPrefixReport is the prefix for cached scan reports
	KeyPrefixReport = "abbrhelper:report:"
	// KeyRecentScans is the list of recent scan summaries, newest first
	KeyRecentScans = "abbrhelper:scans:recent"
)

// ReportKey returns the Redis key for a cached report by content digest
func ReportKey(digest string) string {
	return KeyPrefixReport + digest
}

// RecentScansKey returns the key of the recent scans list
func RecentScansKey() string {
	return KeyRecentScans
}

// ExtractReportDigest extracts the digest from a report key
func ExtractReportDigest(key string) (string, error) {
	if len(key) <= len(KeyPrefixReport) || key[:len(KeyPrefixReport)] != KeyPrefixReport {
		return "", fmt.Errorf("invalid report key: %s", key)
	}
	return key[len(KeyPrefixReport):], nil
}
