package workers

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Workers runs a set of [Worker] values together.
type Workers struct {
	workers []Worker
}

// New returns a Workers holding ws.
func New(ws ...Worker) *Workers {
	return &Workers{workers: ws}
}

// Add appends w to the set.
func (w *Workers) Add(worker Worker) {
	w.workers = append(w.workers, worker)
}

// Len returns the number of workers in the set.
func (w *Workers) Len() int {
	return len(w.workers)
}

// Run starts every worker in its own goroutine and waits for all of them.
// The first failure cancels the context passed to the others and is
// returned.
func (w *Workers) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, worker := range w.workers {
		g.Go(func() error {
			return worker.Run(gctx)
		})
	}
	return g.Wait()
}
