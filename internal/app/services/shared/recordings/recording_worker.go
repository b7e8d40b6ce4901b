package recordings

import (
	"context"
	"smarthealth-service/internal/app/contracts"
	"time"

	"go.uber.org/zap"
)

// Worker drains the archive queue until it is empty on every tick.
type Worker struct {
	log      *zap.Logger
	archiver contracts.RecordingArchiver
	interval time.Duration
	stop     chan struct{}
}

func NewWorker(log *zap.Logger, archiver contracts.RecordingArchiver, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Worker{
		log:      log,
		archiver: archiver,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

func (w *Worker) Start(ctx context.Context) (stop func()) {
	ticker := time.NewTicker(w.interval)
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		for {
			select {
			case <-ctx.Done():
				ticker.Stop()
				return
			case <-w.stop:
				ticker.Stop()
				return
			case <-ticker.C:
				w.drain(ctx)
			}
		}
	}()

	return func() {
		close(w.stop)
	}
}

func (w *Worker) drain(ctx context.Context) {
	for {
		processed, err := w.archiver.ProcessNext(ctx)
		if err != nil {
			w.log.Info("recording archive job failed", zap.Error(err))
			return
		}
		if !processed {
			return
		}
	}
}
