package sms

import (
	"context"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/app/services/shared/smsqueue"
	"smarthealth-service/internal/pkg/constvars"
	"time"

	"go.uber.org/zap"
)

// Worker drains the outbound SMS queue with at-least-once semantics. A
// failed send increments the message's failed count; once the budget is
// spent the message moves to the DLQ.
type Worker struct {
	log      *zap.Logger
	locker   contracts.LockerService
	queue    *smsqueue.Service
	provider contracts.SMSProviderClient
	interval time.Duration
	batch    int
	stop     chan struct{}
}

func NewWorker(log *zap.Logger, lockerSvc contracts.LockerService, queue *smsqueue.Service, provider contracts.SMSProviderClient, interval time.Duration, batch int) *Worker {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	if batch <= 0 {
		batch = 10
	}
	return &Worker{
		log:      log,
		locker:   lockerSvc,
		queue:    queue,
		provider: provider,
		interval: interval,
		batch:    batch,
		stop:     make(chan struct{}),
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
	acquired, lockVal, err := w.locker.TryLock(ctx, "sms:worker:lock", w.interval)
	if err != nil {
		w.log.Info("sms worker lock attempt failed", zap.Error(err))
		return
	}
	if !acquired {
		return
	}
	defer func() {
		if err := w.locker.Unlock(ctx, "sms:worker:lock", lockVal); err != nil {
			w.log.Error("sms worker unlock failed", zap.Error(err))
		}
	}()

	items, err := w.queue.FetchN(ctx, w.batch)
	if err != nil {
		w.log.Info("sms queue FetchN error", zap.Error(err))
		return
	}

	for _, item := range items {
		w.processItem(ctx, item)
	}
}

func (w *Worker) processItem(ctx context.Context, item smsqueue.QueuedItem) {
	msg := item.Message

	err := w.provider.SendSMS(ctx, msg.Phone, msg.Message)
	if err == nil {
		if ackErr := w.queue.AckMessage(item.DeliveryTag); ackErr != nil {
			w.log.Info("sms ack failed after success",
				zap.String("message_id", msg.ID),
				zap.Error(ackErr))
		}
		w.log.Info("sms delivered",
			zap.String("message_id", msg.ID),
			zap.String(constvars.LoggingPhoneKey, msg.Phone))
		return
	}

	w.log.Info("sms send failed",
		zap.String("message_id", msg.ID),
		zap.String(constvars.LoggingPhoneKey, msg.Phone),
		zap.Int(constvars.LoggingAttemptsKey, msg.FailedCount),
		zap.Error(err))

	msg.FailedCount++
	if msg.FailedCount >= constvars.SMSQueueMaxAttempts {
		if dlqErr := w.queue.EnqueueToDeadQueue(ctx, msg); dlqErr != nil {
			w.log.Error("sms DLQ enqueue failed; message stays unacked",
				zap.String("message_id", msg.ID),
				zap.Error(dlqErr))
			return
		}
		_ = w.queue.AckMessage(item.DeliveryTag)
		w.log.Warn("sms moved to dead letter queue",
			zap.String("message_id", msg.ID),
			zap.Int(constvars.LoggingAttemptsKey, msg.FailedCount))
		return
	}

	if reErr := w.queue.Reenqueue(ctx, msg); reErr != nil {
		w.log.Error("sms reenqueue failed; message stays unacked",
			zap.String("message_id", msg.ID),
			zap.Error(reErr))
		return
	}
	_ = w.queue.AckMessage(item.DeliveryTag)
}
