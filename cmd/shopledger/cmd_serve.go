package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shopledger/internal/cache"
	"shopledger/internal/clock"
	"shopledger/internal/config"
	"shopledger/internal/http/handlers"
	"shopledger/internal/jobs"
	applog "shopledger/internal/log"
	"shopledger/internal/repos"
)

// shopledger serve: start the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func newDigestCache(ctx context.Context, cfg config.Config) cache.DigestCache {
	if cfg.DigestCacheTTL <= 0 {
		return cache.Nop{}
	}
	if cfg.RedisAddr == "" {
		return cache.NewMemory(cfg.DigestCacheTTL)
	}
	rc := cache.NewRedis(cfg.RedisAddr, cfg.DigestCacheTTL)
	if err := rc.Ping(ctx); err != nil {
		applog.L().Warn("cache.redis.unavailable", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = rc.Close()
		return cache.NewMemory(cfg.DigestCacheTTL)
	}
	applog.L().Info("cache.redis", zap.String("addr", cfg.RedisAddr))
	return rc
}

func serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := config.Load()
	logger, err := applog.Init(cfg.Env, cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		return err
	}
	defer db.Close()
	if cfg.SeedDemo {
		if err := repos.SeedDemo(ctx, db); err != nil {
			return err
		}
	}

	digest := newDigestCache(ctx, cfg)
	if rc, ok := digest.(*cache.Redis); ok {
		defer rc.Close()
	}
	deps := handlers.NewDeps(db, cfg, digest, clock.Real{})
	app := handlers.NewApp(cfg, deps)

	if cfg.ExpirySweepCron != "" {
		sched, err := jobs.Schedule(cfg.ExpirySweepCron, &jobs.ExpirySweep{Stock: deps.Stock, Timeout: time.Minute})
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
		logger.Info("jobs.expiry_sweep.scheduled", zap.String("cron", cfg.ExpirySweepCron))
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Listen(":" + cfg.Port) }()
	logger.Info("server.start", zap.String("port", cfg.Port), zap.String("env", cfg.Env))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	logger.Info("server.stop")
	return app.ShutdownWithTimeout(10 * time.Second)
}
