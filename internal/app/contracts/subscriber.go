package contracts

import (
	"context"
	"smarthealth-service/internal/app/models"
)

type SubscriberRepository interface {
	FindByPhone(ctx context.Context, phone string) (*models.Subscriber, error)
	FindByID(ctx context.Context, id string) (*models.Subscriber, error)
	// Create inserts a subscriber; the phone field carries a unique index and a
	// duplicate insert returns ErrSubscriberAlreadyExists so retried
	// registrations stay idempotent.
	Create(ctx context.Context, subscriber *models.Subscriber) (string, error)
	UpdateLanguage(ctx context.Context, id, language string) error
	IncrementConsultationCount(ctx context.Context, id string) error
	AddBalance(ctx context.Context, id string, amount float64) error
	// DebitBalanceIfSufficient atomically decrements balance when it covers
	// amount; it reports false without mutating when it does not.
	DebitBalanceIfSufficient(ctx context.Context, id string, amount float64) (bool, error)
}
