// Package jobs runs scheduled maintenance against the studbook.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Parser accepts standard 5-field cron expressions (minute, hour, dom, month, dow).
var Parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Ager advances every horse by a month. *db.Store implements it.
type Ager interface {
	AgeHorses(ctx context.Context, maturityMonths int) (aged, matured int64, err error)
}

// Aging adds a month to every horse on a schedule and opens breeding to
// those reaching maturity.
type Aging struct {
	store    Ager
	maturity int
	timeout  time.Duration
	log      *zap.Logger
}

// NewAging returns an Aging job. A nil logger is replaced with a no-op.
func NewAging(store Ager, maturityMonths int, log *zap.Logger) *Aging {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aging{store: store, maturity: maturityMonths, timeout: time.Minute, log: log}
}

// Run ages all horses once.
func (a *Aging) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	aged, matured, err := a.store.AgeHorses(ctx, a.maturity)
	if err != nil {
		a.log.Error("aging failed", zap.Error(err))
		return err
	}
	a.log.Info("horses aged", zap.Int64("aged", aged), zap.Int64("matured", matured))
	return nil
}

// Schedule registers the job on a new cron scheduler without starting it.
func (a *Aging) Schedule(spec string) (*cron.Cron, error) {
	sched, err := Parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("aging schedule %q: %w", spec, err)
	}
	c := cron.New(cron.WithParser(Parser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	c.Schedule(sched, cron.FuncJob(func() { _ = a.Run(context.Background()) }))
	return c, nil
}
