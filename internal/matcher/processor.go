package matcher

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/healthyfootprints/reminder-api/pkg/logger"
)

// ProcessorConfig sets the two loop periods. The sync loop only refreshes
// the snapshot; the check loop refreshes and then evaluates the current
// minute.
type ProcessorConfig struct {
	SyncInterval  time.Duration
	CheckInterval time.Duration
}

// Processor drives the matcher with two independent periodic loops. The
// loops share a context and stop together when it is cancelled; an
// in-flight fetch is left to finish and its result discarded. A panic
// inside one tick is recovered so later ticks keep running.
type Processor struct {
	matcher *Matcher
	config  ProcessorConfig
	logger  *logger.Logger
}

func NewProcessor(matcher *Matcher, config ProcessorConfig, log *logger.Logger) *Processor {
	if config.SyncInterval <= 0 {
		panic("SyncInterval must be greater than 0")
	}
	if config.CheckInterval <= 0 {
		panic("CheckInterval must be greater than 0")
	}
	return &Processor{
		matcher: matcher,
		config:  config,
		logger:  log,
	}
}

// Start blocks until ctx is cancelled.
func (p *Processor) Start(ctx context.Context) {
	p.logger.Info("starting reminder processor",
		"sync_interval", p.config.SyncInterval.String(),
		"check_interval", p.config.CheckInterval.String())

	// Prime the snapshot so the first check tick has data.
	p.safeTick(func() {
		if err := p.matcher.Refresh(ctx); err != nil {
			p.logger.Error(err, "initial reminder sync failed")
		}
	})

	var wg sync.WaitGroup
	wg.Add(2)
	go p.syncLoop(ctx, &wg)
	go p.checkLoop(ctx, &wg)
	wg.Wait()

	p.logger.Info("reminder processor stopped")
}

func (p *Processor) syncLoop(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	ticker := time.NewTicker(p.config.SyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.safeTick(func() {
				if err := p.matcher.Refresh(ctx); err != nil {
					p.logger.Error(err, "reminder sync failed")
				}
			})
		}
	}
}

func (p *Processor) checkLoop(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	ticker := time.NewTicker(p.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			p.safeTick(func() {
				p.matcher.CheckTick(ctx, now)
			})
		}
	}
}

// safeTick keeps a panicking tick from killing the loop.
func (p *Processor) safeTick(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.ZL.Error().
				Interface("panic", r).
				Str("stack", string(debug.Stack())).
				Msg("tick panic recovered")
		}
	}()
	fn()
}
