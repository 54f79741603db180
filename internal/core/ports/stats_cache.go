package ports

import "context"

// StatsCache is a short-lived per-owner cache for the stats aggregate.
// A Get miss returns (nil, nil); errors are reserved for backend failures.
type StatsCache interface {
	Get(ctx context.Context, ownerID string) (*TaskStats, error)
	Set(ctx context.Context, ownerID string, stats *TaskStats) error
	Invalidate(ctx context.Context, ownerID string) error
}
