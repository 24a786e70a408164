package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/abbrhelper/internal/config"
	"github.com/MrSnakeDoc/abbrhelper/internal/httpserver"
	"github.com/MrSnakeDoc/abbrhelper/internal/httpserver/deps"
	"github.com/MrSnakeDoc/abbrhelper/internal/logger"
	"github.com/MrSnakeDoc/abbrhelper/internal/scheduler"
	"github.com/MrSnakeDoc/abbrhelper/internal/version"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	core     *Core
	server   *httpserver.Server
	reloader *scheduler.GlossaryReloader
	gc       *scheduler.GarbageCollector
}

// New wires the long-running service: core, schedulers and HTTP server.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	core, err := OpenCore(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o750); err != nil {
		_ = core.Close()
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	var flusher scheduler.ReportFlusher
	if core.RedisStore != nil {
		flusher = core.RedisStore
	}
	reloader := scheduler.NewGlossaryReloader(
		core.Glossary,
		cfg.SeedFile,
		flusher,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	gc := scheduler.NewGarbageCollector(
		cfg.UploadDir,
		loggerClient,
		cfg.GCInterval,
		cfg.UploadMaxAge,
	)

	// Dependencies passed to routes
	d := deps.Deps{
		Logger:            loggerClient,
		StartTime:         time.Now(),
		Build:             version.Get(),
		TimeNow:           time.Now,
		AllowedHosts:      cfg.AllowedHosts,
		AllowedCIDRS:      cfg.AllowedCIDRS,
		TrustProxy:        cfg.TrustProxy,
		Store:             core.Store,
		RedisClient:       core.RedisClient,
		Glossary:          core.Glossary,
		Scanner:           core.Scanner,
		Importer:          core.Importer,
		Registry:          core.Registry,
		UploadDir:         cfg.UploadDir,
		MaxUploadSize:     cfg.MaxUploadSize,
		AllowedExtensions: cfg.AllowedExtensions,
		ScanRateBurst:     cfg.ScanRateBurst,
		ScanRatePerMin:    cfg.ScanRatePerMin,
		ReloadTrigger:     reloadTrigger,
	}

	return &App{
		cfg:      cfg,
		logger:   loggerClient,
		core:     core,
		server:   httpserver.New(cfg, loggerClient, d),
		reloader: reloader,
		gc:       gc,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting abbrhelper %s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Info(version.Get().String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Reload the glossary, apply the seed and start the periodic refresh
	if err := a.reloader.Start(ctx); err != nil {
		_ = a.core.Close()
		return fmt.Errorf("failed to start glossary reloader: %w", err)
	}
	a.logger.Info("glossary reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval),
		logger.String("seed_file", a.cfg.SeedFile))

	if err := a.gc.Start(ctx); err != nil {
		a.reloader.Stop()
		_ = a.core.Close()
		return fmt.Errorf("failed to start garbage collector: %w", err)
	}
	a.logger.Info("upload garbage collector started",
		logger.Duration("interval", a.cfg.GCInterval),
		logger.String("dir", a.cfg.UploadDir))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.reloader.Stop()
		a.gc.Stop()
		_ = a.core.Close()
		return err
	}

	a.reloader.Stop()
	a.gc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if err := a.core.Close(); err != nil {
		a.logger.Warnf("failed to close database: %v", err)
	} else {
		a.logger.Info("✅ Database closed cleanly")
	}

	a.logger.Info("✅ abbrhelper stopped cleanly")
	return nil
}
