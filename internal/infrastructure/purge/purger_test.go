package purge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type stubTrashStore struct {
	cutoffs []time.Time
	purged  int64
	err     error
}

func (s *stubTrashStore) DeleteTrashedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.cutoffs = append(s.cutoffs, cutoff)
	return s.purged, s.err
}

func TestPurger_RunOnce_CutoffHonorsRetention(t *testing.T) {
	store := &stubTrashStore{purged: 3}
	retention := 30 * 24 * time.Hour
	p := NewPurger(store, retention, zerolog.Nop())

	before := time.Now().UTC().Add(-retention)
	if err := p.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	after := time.Now().UTC().Add(-retention)

	if len(store.cutoffs) != 1 {
		t.Fatalf("expected one sweep, got %d", len(store.cutoffs))
	}
	cutoff := store.cutoffs[0]
	if cutoff.Before(before) || cutoff.After(after) {
		t.Fatalf("cutoff %v outside [%v, %v]", cutoff, before, after)
	}
}

func TestPurger_RunOnce_PropagatesStoreError(t *testing.T) {
	wantErr := errors.New("mongo unavailable")
	store := &stubTrashStore{err: wantErr}
	p := NewPurger(store, 24*time.Hour, zerolog.Nop())

	if err := p.RunOnce(context.Background()); !errors.Is(err, wantErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestPurger_RunOnce_NothingToPurge(t *testing.T) {
	store := &stubTrashStore{purged: 0}
	p := NewPurger(store, 24*time.Hour, zerolog.Nop())

	if err := p.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
}
