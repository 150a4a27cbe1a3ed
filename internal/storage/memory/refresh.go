package memory

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"estate_listing/internal/adapters/observability"
	"estate_listing/internal/domain"
)

// Refresher reloads the snapshot from a source on a cron schedule.
// A failed reload keeps serving the previous snapshot.
type Refresher struct {
	store   *Store
	src     domain.PropertySource
	timeout time.Duration
	c       *cron.Cron
}

func NewRefresher(store *Store, src domain.PropertySource, timeout time.Duration) *Refresher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Refresher{store: store, src: src, timeout: timeout, c: cron.New()}
}

// Refresh performs one reload now.
func (r *Refresher) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	ps, err := r.src.ListProperties(ctx)
	if err != nil {
		log.Warn().Err(err).Int("serving", r.store.Len()).Msg("snapshot refresh failed; keeping previous catalog")
		return err
	}
	r.store.Replace(ps)
	observability.ObserveSnapshot(len(ps))
	log.Info().Int("properties", len(ps)).Dur("took", time.Since(start)).Msg("snapshot refreshed")
	return nil
}

// Start schedules Refresh with a cron spec such as "@every 5m".
func (r *Refresher) Start(spec string) error {
	if _, err := r.c.AddFunc(spec, func() { _ = r.Refresh(context.Background()) }); err != nil {
		return err
	}
	r.c.Start()
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	<-r.c.Stop().Done()
}
