package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/zero-vault/internal/config"
	"github.com/MKhiriev/zero-vault/internal/logger"
	"github.com/MKhiriev/zero-vault/internal/store"
)

// finalizationSweeper periodically deletes accounts whose registration never
// finalized. Such rows appear when the process dies between account creation
// and the compensating delete; without the sweeper they would hold their
// email addresses forever.
type finalizationSweeper struct {
	ctx      context.Context
	accounts store.AccountRepository

	// interval is the pause between sweeps; grace is how long a
	// registration may stay unfinalized before it is considered abandoned.
	interval time.Duration
	grace    time.Duration

	logger *logger.Logger
}

// NewFinalizationSweeper constructs the sweeper. Run starts the loop; the
// context passed here stops it.
func NewFinalizationSweeper(ctx context.Context, accounts store.AccountRepository, cfg config.Workers, logger *logger.Logger) Worker {
	return &finalizationSweeper{
		ctx:      ctx,
		accounts: accounts,
		interval: cfg.SweepInterval,
		grace:    cfg.FinalizeGrace,
		logger:   logger,
	}
}

// Run implements [Worker]. It spawns the sweep loop and returns immediately.
func (s *finalizationSweeper) Run() {
	go s.loop()
}

func (s *finalizationSweeper) loop() {
	s.logger.Info().
		Dur("interval", s.interval).
		Dur("grace", s.grace).
		Msg("finalization sweeper started")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Info().Msg("finalization sweeper stopped")
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *finalizationSweeper) sweep() {
	ctx, cancel := context.WithTimeout(s.ctx, s.interval)
	defer cancel()

	cutoff := time.Now().Add(-s.grace)

	swept, err := s.accounts.SweepUnfinalized(ctx, cutoff)
	if err != nil {
		s.logger.Err(err).Msg("sweep of unfinalized accounts failed")
		return
	}

	if swept > 0 {
		s.logger.Info().Int64("swept", swept).Msg("removed abandoned registrations")
	}
}
