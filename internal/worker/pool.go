package worker

import (
	"context"
	"fmt"
	"log/slog"
)

// spawnWorkerPool spawns N worker goroutines based on concurrency configuration
func (w *Worker) spawnWorkerPool(ctx context.Context) {
	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.workerLoop(ctx, i)
	}

	w.logger.Info("Worker pool spawned",
		slog.Int("worker_count", w.concurrency),
	)
}

// workerLoop processes deliveries until jobsChan is closed. A canceled ctx
// does not abort the loop, so deliveries already handed over are settled.
func (w *Worker) workerLoop(ctx context.Context, workerNum int) {
	defer w.wg.Done()

	workerName := fmt.Sprintf("%s-%d", w.workerID, workerNum)
	w.logger.Debug("Worker goroutine started",
		slog.String("worker_name", workerName),
	)

	for delivery := range w.jobsChan {
		w.handleDelivery(ctx, workerName, delivery)
	}

	w.logger.Debug("Worker goroutine stopped",
		slog.String("worker_name", workerName),
	)
}
