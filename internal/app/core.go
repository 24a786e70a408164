package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/abbrhelper/internal/config"
	"github.com/MrSnakeDoc/abbrhelper/internal/glossary"
	"github.com/MrSnakeDoc/abbrhelper/internal/importer"
	"github.com/MrSnakeDoc/abbrhelper/internal/index"
	"github.com/MrSnakeDoc/abbrhelper/internal/logger"
	"github.com/MrSnakeDoc/abbrhelper/internal/metrics"
	"github.com/MrSnakeDoc/abbrhelper/internal/redis"
	"github.com/MrSnakeDoc/abbrhelper/internal/scanner"
	redisstore "github.com/MrSnakeDoc/abbrhelper/internal/store/redis"
	"github.com/MrSnakeDoc/abbrhelper/internal/store/sqlite"
)

// Core is the part of the application shared by the server and the one-shot
// CLI commands: database, glossary, scanner and importer.
type Core struct {
	Config      *config.Config
	Logger      logger.Logger
	Store       *sqlite.Store
	Glossary    *glossary.Glossary
	Registry    *prometheus.Registry
	Metrics     *metrics.Metrics
	Scanner     *scanner.Service
	Importer    *importer.Importer
	RedisClient *goredis.Client  // nil when the report cache is disabled
	RedisStore  *redisstore.Store // nil when the report cache is disabled
}

// OpenCore opens the database, loads the glossary and, when configured,
// connects the redis report cache. A configured but unreachable redis is an
// error, like an unreachable database.
func OpenCore(ctx context.Context, cfg *config.Config, log logger.Logger) (*Core, error) {
	policy, err := scanner.ParsePolicy(cfg.DisablePolicy)
	if err != nil {
		return nil, err
	}

	st, err := sqlite.Open(ctx, cfg.DBFile)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DBFile, err)
	}
	log.Info("database opened", logger.String("file", cfg.DBFile))

	g := glossary.New(st, index.NewMemoryIndex(), log)
	if err := g.LoadAll(ctx); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("load glossary: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.NewGlossaryCollector(g.Index()),
	)
	m := metrics.New(reg)

	c := &Core{
		Config:   cfg,
		Logger:   log,
		Store:    st,
		Glossary: g,
		Registry: reg,
		Metrics:  m,
		Importer: importer.New(g.Abbreviations, log, m),
	}

	opts := scanner.ServiceOptions{Policy: policy, Metrics: m}
	if cfg.RedisEnabled() {
		client, err := redis.New(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.RedisClient = client
		c.RedisStore = redisstore.NewStore(client, cfg.ReportCacheTTL)
		// Assigned only when non-nil so the interfaces stay nil otherwise
		opts.Cache = c.RedisStore
		opts.History = c.RedisStore
	} else {
		log.Info("redis not configured, report cache and scan history disabled")
	}

	c.Scanner = scanner.NewService(g.Index(), log, opts)
	return c, nil
}

// Close releases the database and the redis connection.
func (c *Core) Close() error {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("failed to close redis", logger.Error(err))
		}
	}
	return c.Store.Close()
}
