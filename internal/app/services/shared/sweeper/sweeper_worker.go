package sweeper

import (
	"context"
	"smarthealth-service/internal/app/contracts"
	"time"

	"go.uber.org/zap"
)

// Worker runs the periodic hygiene passes: pending call-queue entries past
// the doctor decision window flip to timeout, expired unapplied offers are
// removed, and provisional mobile-payment cases left unpaid are cancelled.
type Worker struct {
	log            *zap.Logger
	locker         contracts.LockerService
	callQueueRepo  contracts.CallQueueRepository
	offerRepo      contracts.OfferRepository
	caseRepo       contracts.CaseRepository
	interval       time.Duration
	queueTimeout   time.Duration
	provisionalTTL time.Duration
	stop           chan struct{}
}

func NewWorker(
	log *zap.Logger,
	lockerSvc contracts.LockerService,
	callQueueRepo contracts.CallQueueRepository,
	offerRepo contracts.OfferRepository,
	caseRepo contracts.CaseRepository,
	interval time.Duration,
	queueTimeout time.Duration,
	provisionalTTL time.Duration,
) *Worker {
	if interval <= 0 {
		interval = time.Minute
	}
	if queueTimeout <= 0 {
		queueTimeout = 5 * time.Minute
	}
	if provisionalTTL <= 0 {
		provisionalTTL = 24 * time.Hour
	}
	return &Worker{
		log:            log,
		locker:         lockerSvc,
		callQueueRepo:  callQueueRepo,
		offerRepo:      offerRepo,
		caseRepo:       caseRepo,
		interval:       interval,
		queueTimeout:   queueTimeout,
		provisionalTTL: provisionalTTL,
		stop:           make(chan struct{}),
	}
}

// Start begins the ticker loop. It returns a stop function to halt execution.
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
				w.runOnce(ctx)
			}
		}
	}()

	return func() {
		close(w.stop)
	}
}

func (w *Worker) runOnce(ctx context.Context) {
	acquired, lockVal, err := w.locker.TryLock(ctx, "sweeper:worker:lock", w.interval)
	if err != nil {
		w.log.Info("sweeper lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		return
	}
	defer func() {
		if err := w.locker.Unlock(ctx, "sweeper:worker:lock", lockVal); err != nil {
			w.log.Error("sweeper unlock failed", zap.Error(err))
		}
	}()

	now := time.Now()

	timedOut, err := w.callQueueRepo.TimeoutPending(ctx, now.Add(-w.queueTimeout))
	if err != nil {
		w.log.Error("sweeper call queue timeout pass failed", zap.Error(err))
	} else if timedOut > 0 {
		w.log.Info("sweeper timed out pending call queue entries", zap.Int("count", timedOut))
	}

	expired, err := w.offerRepo.DeleteExpired(ctx, now)
	if err != nil {
		w.log.Error("sweeper offer expiry pass failed", zap.Error(err))
	} else if expired > 0 {
		w.log.Info("sweeper removed expired offers", zap.Int("count", expired))
	}

	cancelled, err := w.caseRepo.CancelStaleProvisional(ctx, now.Add(-w.provisionalTTL))
	if err != nil {
		w.log.Error("sweeper provisional case pass failed", zap.Error(err))
	} else if cancelled > 0 {
		w.log.Info("sweeper cancelled stale provisional cases", zap.Int("count", cancelled))
	}
}
