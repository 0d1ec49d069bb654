// Package jobs runs background maintenance on a cron schedule.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	applog "shopledger/internal/log"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Refresher recomputes stored expiry and stock flags for every product.
type Refresher interface {
	RefreshAll(ctx context.Context) (int, error)
}

// ExpirySweep keeps flags current for products nobody has listed lately.
type ExpirySweep struct {
	Stock   Refresher
	Timeout time.Duration
}

// Run performs one sweep and returns how many products changed.
func (s *ExpirySweep) Run(ctx context.Context) (int, error) {
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	start := time.Now()
	n, err := s.Stock.RefreshAll(ctx)
	if err != nil {
		applog.L().Error("jobs.expiry_sweep.fail", zap.Error(err), zap.Int("changed", n))
		return n, err
	}
	applog.L().Info("jobs.expiry_sweep",
		zap.Int("changed", n),
		zap.Duration("took", time.Since(start)),
	)
	return n, nil
}

// Schedule registers the sweep under expr (standard cron, optional seconds
// field, or descriptors like "@hourly"). The scheduler is returned unstarted.
func Schedule(expr string, sweep *ExpirySweep) (*cron.Cron, error) {
	c := cron.New(
		cron.WithParser(cronParser),
		cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	if _, err := c.AddFunc(expr, func() { _, _ = sweep.Run(context.Background()) }); err != nil {
		return nil, err
	}
	return c, nil
}
