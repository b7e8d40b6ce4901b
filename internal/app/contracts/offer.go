package contracts

import (
	"context"
	"smarthealth-service/internal/app/models"
	"time"
)

type OfferRepository interface {
	Create(ctx context.Context, offer *models.Offer) (string, error)
	GetActiveBySubscriber(ctx context.Context, subscriberID string) ([]models.Offer, error)
	// ApplyIfUnapplied flips applied exactly once; it reports false when the
	// offer was already consumed.
	ApplyIfUnapplied(ctx context.Context, offerID string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// OfferService is the reward rule engine keyed on consultation-count thresholds.
type OfferService interface {
	// EvaluateThresholds grants the offers the subscriber earned by reaching
	// consultationCount. Safe to call once per completed consultation.
	EvaluateThresholds(ctx context.Context, subscriberID string, consultationCount int) ([]models.Offer, error)
	// GetBestOffer picks the highest-ranked unconsumed offer, or nil.
	GetBestOffer(ctx context.Context, subscriberID string) (*models.Offer, error)
}
