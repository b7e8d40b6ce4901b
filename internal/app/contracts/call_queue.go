package contracts

import (
	"context"
	"smarthealth-service/internal/app/models"
	"time"
)

type CallQueueRepository interface {
	Create(ctx context.Context, entry *models.CallQueueEntry) (string, error)
	FindByID(ctx context.Context, id string) (*models.CallQueueEntry, error)
	FindByCallSessionID(ctx context.Context, callSessionID string) (*models.CallQueueEntry, error)
	// AcceptIfPending and RejectIfPending transition the entry out of pending
	// with a single conditional update; they report false when the entry has
	// already left pending, so a racing accept/reject/timeout cannot overwrite
	// an earlier decision.
	AcceptIfPending(ctx context.Context, id, doctorPhone string) (bool, error)
	RejectIfPending(ctx context.Context, id, reason string) (bool, error)
	Complete(ctx context.Context, id string, durationSeconds int) error
	// TimeoutPending flips entries pending since before the cutoff to timeout.
	TimeoutPending(ctx context.Context, olderThan time.Time) (int, error)
}
