package routing

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"venty-hq/relay/pkg/processing"
)

// Janitor periodically sweeps the router's side tables: stale failure
// records, expired affinities, and aged-out image context. The router
// also prunes lazily on access; the janitor keeps long-idle entries from
// lingering in a quiet process.
type Janitor struct {
	cron   *cron.Cron
	router *Router

	store *processing.ImageContextStore

	// imageContextMaxAge bounds how long image summaries are kept
	imageContextMaxAge time.Duration
}

// NewJanitor creates a janitor on the given cron schedule (e.g.
// "@every 5m"). Image context is retained for the same horizon as
// conversation affinity.
func NewJanitor(schedule string, router *Router, store *processing.ImageContextStore, imageContextMaxAge time.Duration) (*Janitor, error) {
	j := &Janitor{
		cron:               cron.New(),
		router:             router,
		store:              store,
		imageContextMaxAge: imageContextMaxAge,
	}

	if _, err := j.cron.AddFunc(schedule, j.sweep); err != nil {
		return nil, fmt.Errorf("invalid maintenance schedule %q: %w", schedule, err)
	}

	return j, nil
}

// Start begins scheduled sweeps.
func (j *Janitor) Start() {
	j.cron.Start()
	slog.Info("maintenance janitor started")
}

// Stop halts scheduling and waits for a running sweep to finish.
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
	slog.Info("maintenance janitor stopped")
}

// sweep runs one maintenance pass.
func (j *Janitor) sweep() {
	failures := j.router.Failures().Sweep()
	affinities := j.router.Affinity().Sweep()

	contexts := 0
	if j.store != nil {
		contexts = j.store.Sweep(j.imageContextMaxAge)
	}

	if failures > 0 || affinities > 0 || contexts > 0 {
		slog.Debug("maintenance sweep completed",
			"failure_records_removed", failures,
			"affinities_removed", affinities,
			"image_contexts_removed", contexts,
		)
	}
}
