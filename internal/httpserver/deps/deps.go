package deps

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/abbrhelper/internal/glossary"
	"github.com/MrSnakeDoc/abbrhelper/internal/importer"
	"github.com/MrSnakeDoc/abbrhelper/internal/logger"
	"github.com/MrSnakeDoc/abbrhelper/internal/scanner"
	"github.com/MrSnakeDoc/abbrhelper/internal/store"
	"github.com/MrSnakeDoc/abbrhelper/internal/version"
)

type Deps struct {
	Logger            logger.Logger
	StartTime         time.Time
	Build             version.Info         // build metadata reported by /healthz
	TimeNow           func() time.Time     // for testing, defaults to time.Now
	AllowedHosts      []string             // Host headers allowed to access the server
	AllowedCIDRS      []string             // IPs allowed to access ops endpoints
	TrustProxy        bool                 // true if running behind a trusted reverse proxy
	Store             store.Store          // sqlite store (readiness)
	RedisClient       *redis.Client        // nil when the report cache is disabled
	Glossary          *glossary.Glossary   // managers + index
	Scanner           *scanner.Service     // scan flow
	Importer          *importer.Importer   // bulk import
	Registry          *prometheus.Registry // metrics exposed on /metrics
	UploadDir         string               // where uploaded documents are staged
	MaxUploadSize     int64                // max multipart body size in bytes
	AllowedExtensions []string             // accepted document extensions (without dot)
	ScanRateBurst     int                  // per-IP burst on upload endpoints
	ScanRatePerMin    int                  // per-IP refill on upload endpoints
	ReloadTrigger     chan struct{}        // Channel to trigger a manual glossary reload
}
