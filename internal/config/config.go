package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout (ex: 30s)

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)
	LogFile   string // optional, entries are also appended to this file

	DBFile            string        // path to the sqlite database
	UploadDir         string        // temp dir for uploaded documents
	MaxUploadSize     int64         // max multipart body size in bytes
	AllowedExtensions []string      // accepted document extensions (without dot)
	DisablePolicy     string        // "explicit" | "cascade"
	SeedFile          string        // optional glossary seed yaml (empty = disabled)
	ReloadInterval    time.Duration // interval to reload the glossary and seed (default: 24h)
	GCInterval        time.Duration // interval to sweep the upload dir (default: 1h)
	UploadMaxAge      time.Duration // uploads older than this are removed (default: 1h)

	// Redis (optional, empty addr disables the report cache)
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold  int           // warn after this many attempts
	ReportCacheTTL      time.Duration // cached report lifetime

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict ops endpoints to specific IPs/CIDRs
	TrustProxy   bool     // true => trust X-Forwarded-For headers

	ScanRateBurst  int // per-IP burst on upload endpoints
	ScanRatePerMin int // per-IP refill rate on upload endpoints
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("ABBR_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("ABBR_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("ABBR_REQUEST_TIMEOUT", 30*time.Second),

		// Logging
		LogLevel:  getenv("ABBR_LOG_LEVEL", "info"),
		PrettyLog: mustBool("ABBR_PRETTY_LOG", true),
		LogFile:   getenv("ABBR_LOG_FILE", ""),

		// Glossary and documents
		DBFile:            getenv("ABBR_DB_FILE", "abbr_helper.db"),
		UploadDir:         getenv("ABBR_UPLOAD_DIR", "/tmp/abbrhelper"),
		MaxUploadSize:     getenvInt64("ABBR_MAX_UPLOAD_SIZE", 250*1024*1024),
		AllowedExtensions: normalizeExtensions(splitAndTrim(getenv("ABBR_ALLOWED_EXTENSIONS", "txt,docx,pdf"))),
		DisablePolicy:     getenv("ABBR_DISABLE_POLICY", "explicit"),
		SeedFile:          getenv("ABBR_SEED_FILE", ""), // Optional, empty = seeding disabled
		ReloadInterval:    mustDuration("ABBR_SEED_RELOAD_INTERVAL", 24*time.Hour),
		GCInterval:        mustDuration("ABBR_UPLOAD_GC_INTERVAL", time.Hour),
		UploadMaxAge:      mustDuration("ABBR_UPLOAD_MAX_AGE", time.Hour),

		// Redis settings
		RedisAddr:           getenv("ABBR_REDIS_ADDR", ""),
		RedisUser:           getenv("ABBR_REDIS_USERNAME", ""),
		RedisPassword:       getenv("ABBR_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("ABBR_REDIS_DB", 0),
		RedisDT:             mustDuration("ABBR_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("ABBR_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("ABBR_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:        mustDuration("ABBR_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("ABBR_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:       getenvInt("ABBR_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("ABBR_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("ABBR_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:  getenvInt("ABBR_REDIS_WARN_THRESHOLD", 3),
		ReportCacheTTL:      mustDuration("ABBR_REPORT_CACHE_TTL", 24*time.Hour),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("ABBR_ALLOWED_HOSTS", "")),
		AllowedCIDRS: parseAllowedIPs(getenv("ABBR_ALLOWED_CIDRS", "")),
		TrustProxy:   mustBool("ABBR_TRUST_PROXY", false),

		ScanRateBurst:  getenvInt("ABBR_SCAN_RATE_BURST", 10),
		ScanRatePerMin: getenvInt("ABBR_SCAN_RATE_PER_MIN", 30),
	}

	if cfg.DisablePolicy != "explicit" && cfg.DisablePolicy != "cascade" {
		panic(fmt.Sprintf("❌ FATAL: ABBR_DISABLE_POLICY must be explicit or cascade, got %q", cfg.DisablePolicy))
	}
	if cfg.MaxUploadSize <= 0 {
		panic(fmt.Sprintf("❌ FATAL: ABBR_MAX_UPLOAD_SIZE must be > 0, got %d", cfg.MaxUploadSize))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// RedisEnabled reports whether a report cache address is configured.
func (c *Config) RedisEnabled() bool { return c.RedisAddr != "" }

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvInt64(key string, def int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

// normalizeExtensions lowercases extensions and strips a leading dot:
// ".DOCX" -> "docx".
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	seen := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(ext, "."))
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		out = append(out, ext)
	}
	return out
}
