package poller

import (
	"context"
	"errors"
	"time"

	"goodsync/internal/poller/interfaces"
	"goodsync/internal/providers"
	"goodsync/internal/services"
	"goodsync/internal/structures"
)

type Poller struct {
	conf    *structures.Config
	logger  providers.Logger
	service services.SyncServiceInterface
	clock   Clock
}

// NextDelay is the pause after a cycle that reported ttl seconds.
func (p *Poller) NextDelay(ttl int) time.Duration {
	if ttl <= 0 {
		return p.conf.Poll.DefaultInterval + p.conf.Poll.Margin
	}
	return time.Duration(ttl)*time.Second + p.conf.Poll.Margin
}

// Run repeats cycles until ctx is done or a cycle fails. Cancellation is not
// an error.
func (p *Poller) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			p.logger.Infof(providers.TypeApp, "Polling stopped")
			return nil
		}

		report, err := p.service.RunCycle(ctx)
		if err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				p.logger.Infof(providers.TypeApp, "Polling stopped during a cycle")
				return nil
			}
			return err
		}

		delay := p.NextDelay(report.TTL)
		p.logger.Infof(providers.TypeSync, "Sleeping for %s.", delay)
		if err := p.clock.Sleep(ctx, delay); err != nil {
			p.logger.Infof(providers.TypeApp, "Polling stopped")
			return nil
		}
	}
}

func (p *Poller) Once(ctx context.Context) error {
	_, err := p.service.RunCycle(ctx)
	return err
}

func NewPoller(conf *structures.Config, logger providers.Logger, service services.SyncServiceInterface, clock Clock) interfaces.PollerInterface {
	return &Poller{
		conf:    conf,
		logger:  logger,
		service: service,
		clock:   clock,
	}
}
