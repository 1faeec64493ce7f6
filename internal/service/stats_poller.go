package service

import (
	"context"
	"sync"
	"time"

	"momo-checkout-console/internal/core/domain"
	"momo-checkout-console/internal/core/ports"

	"github.com/rs/zerolog"
)

// statsCacheTTL bounds how long a snapshot may serve other console
// instances after the last successful poll.
const statsCacheTTL = time.Minute

// StatsPoller maintains a near-real-time read of the backend's operational
// aggregates. Polling is best-effort on a fixed interval: failures are
// logged and the previous snapshot is kept, there is no backoff and the
// poller never stops itself on error. Overlapping polls are tolerated; the
// snapshot is replaced wholesale at arrival time, so the last response to
// arrive wins regardless of issue order.
type StatsPoller struct {
	gateway  ports.UpstreamGateway
	cache    ports.StatsCache // nil = no cross-instance sharing
	interval time.Duration
	log      zerolog.Logger

	mu     sync.RWMutex
	latest *domain.StatsSnapshot
}

// NewStatsPoller creates a stats poller. interval <= 0 falls back to 7s,
// the designed load/responsiveness tradeoff.
func NewStatsPoller(gateway ports.UpstreamGateway, cache ports.StatsCache, interval time.Duration, log zerolog.Logger) *StatsPoller {
	if interval <= 0 {
		interval = 7 * time.Second
	}
	return &StatsPoller{
		gateway:  gateway,
		cache:    cache,
		interval: interval,
		log:      log,
	}
}

// Run polls until ctx is cancelled. The first poll fires immediately. Each
// poll runs in its own goroutine so a slow response never delays the ticker
// and an in-flight poll is never cancelled when the next one starts.
func (p *StatsPoller) Run(ctx context.Context) {
	go p.poll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			go p.poll(ctx)
		}
	}
}

func (p *StatsPoller) poll(ctx context.Context) {
	snap, err := p.gateway.FetchStats(ctx)
	if err != nil {
		// Previous snapshot stays in place; the next tick retries.
		p.log.Warn().Err(err).Msg("stats poll failed")
		return
	}
	snap.FetchedAt = time.Now().UTC()
	p.replace(ctx, snap)
}

// replace swaps in the new snapshot atomically.
func (p *StatsPoller) replace(ctx context.Context, snap *domain.StatsSnapshot) {
	p.mu.Lock()
	p.latest = snap
	p.mu.Unlock()

	if p.cache != nil {
		if err := p.cache.Set(ctx, snap, statsCacheTTL); err != nil {
			p.log.Debug().Err(err).Msg("stats cache write failed")
		}
	}
}

// Latest implements ports.StatsSource. When this instance has not polled
// successfully yet it falls back to the shared cache; nil means no data.
func (p *StatsPoller) Latest(ctx context.Context) (*domain.StatsSnapshot, error) {
	p.mu.RLock()
	snap := p.latest
	p.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}
	if p.cache == nil {
		return nil, nil
	}
	return p.cache.Get(ctx)
}
