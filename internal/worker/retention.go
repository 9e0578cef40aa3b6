package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"swampy-server/internal/config"
	"swampy-server/internal/infrastructure/metrics"
	"swampy-server/internal/infrastructure/storage"
)

// RetentionJanitor removes deployed files once they outlive the configured
// retention window. Deployed links are demo-grade and short-lived.
type RetentionJanitor struct {
	store     *storage.PublicStore
	retention time.Duration
	interval  time.Duration
	log       zerolog.Logger
}

// NewRetentionJanitor constructs the janitor from config.
func NewRetentionJanitor(cfg *config.Config, store *storage.PublicStore, log zerolog.Logger) *RetentionJanitor {
	return &RetentionJanitor{
		store:     store,
		retention: cfg.DeployRetention,
		interval:  cfg.RetentionSweep,
		log:       log.With().Str("component", "retention-janitor").Logger(),
	}
}

// Run sweeps on a fixed interval until the context is cancelled. An initial
// sweep runs immediately so restarts do not extend file lifetimes.
func (j *RetentionJanitor) Run(ctx context.Context) {
	j.sweep(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.log.Info().Msg("retention janitor stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *RetentionJanitor) sweep(ctx context.Context) {
	removed, err := j.store.PruneOlderThan(ctx, j.retention)
	if err != nil {
		j.log.Warn().Err(err).Msg("retention sweep failed")
		return
	}
	if removed > 0 {
		metrics.RecordPrunedFiles(removed)
		j.log.Info().Int("removed", removed).Msg("expired deployments pruned")
	}
}
