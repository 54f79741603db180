// Package purge implements the opt-in trash retention sweep: tasks that have
// been in the trash longer than the configured retention are permanently
// deleted, for all owners.
package purge

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sathvik89/task-manager-api/internal/api/metrics"
)

const sweepInterval = time.Hour

// TrashStore is the slice of the task repository the purger needs.
type TrashStore interface {
	DeleteTrashedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Purger periodically deletes tasks whose trash retention has expired.
type Purger struct {
	repo      TrashStore
	retention time.Duration
	log       zerolog.Logger
}

// NewPurger creates a Purger. retention must be positive; callers decide
// whether purging is enabled at all (a zero retention means "never purge"
// and no Purger should be started).
func NewPurger(repo TrashStore, retention time.Duration, log zerolog.Logger) *Purger {
	return &Purger{repo: repo, retention: retention, log: log}
}

// Start launches the sweep loop. It stops when ctx is cancelled.
func (p *Purger) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := p.RunOnce(ctx); err != nil {
					p.log.Error().Err(err).Msg("trash purge sweep failed")
				}
			}
		}
	}()
}

// RunOnce performs a single sweep against the current cutoff.
func (p *Purger) RunOnce(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-p.retention)

	purged, err := p.repo.DeleteTrashedBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	if purged > 0 {
		metrics.TasksPurgedTotal.Add(float64(purged))
		p.log.Info().Int64("purged", purged).Time("cutoff", cutoff).Msg("expired trash purged")
	}
	return nil
}
