package workers

import "context"

// Workers aggregates background workers so the application can manage them
// as one unit.
type Workers struct {
	workers []Worker
}

// NewWorkers builds an aggregate over the given workers. Order matters:
// workers start in the given order and stop in reverse.
func NewWorkers(ws ...Worker) *Workers {
	return &Workers{workers: ws}
}

// Start starts every worker in order.
func (w *Workers) Start(ctx context.Context) {
	for _, worker := range w.workers {
		worker.Start(ctx)
	}
}

// Stop stops every worker in reverse order, blocking until each has exited.
func (w *Workers) Stop() {
	for i := len(w.workers) - 1; i >= 0; i-- {
		w.workers[i].Stop()
	}
}
