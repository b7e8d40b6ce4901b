package offers

import (
	"context"
	"smarthealth-service/internal/app/contracts"
	"smarthealth-service/internal/app/models"
	"smarthealth-service/internal/pkg/constvars"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	discountEvery         = 5
	discountPercentage    = 20
	freeConsultationEvery = 10
	priorityQueueMinCount = 3
)

var (
	offerServiceInstance contracts.OfferService
	onceOfferService     sync.Once
)

type offerService struct {
	offerRepo contracts.OfferRepository
	Log       *zap.Logger
	ttl       time.Duration
}

// NewOfferService implements the reward thresholds: a discount every fifth
// consultation, a free consultation every tenth, and a priority-queue offer
// once three consultations are reached and no offer is active.
func NewOfferService(repo contracts.OfferRepository, logger *zap.Logger, ttl time.Duration) contracts.OfferService {
	onceOfferService.Do(func() {
		instance := &offerService{
			offerRepo: repo,
			Log:       logger,
			ttl:       ttl,
		}
		offerServiceInstance = instance
	})
	return offerServiceInstance
}

func (s *offerService) EvaluateThresholds(ctx context.Context, subscriberID string, consultationCount int) ([]models.Offer, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("offerService.EvaluateThresholds called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSubscriberIDKey, subscriberID),
		zap.Int("consultation_count", consultationCount),
	)

	if consultationCount <= 0 {
		return nil, nil
	}

	expiry := time.Now().Add(s.ttl)
	var granted []models.Offer

	if consultationCount%discountEvery == 0 {
		offer := models.Offer{
			SubscriberID:       subscriberID,
			Type:               models.OfferDiscount,
			DiscountPercentage: discountPercentage,
			ExpiryDate:         expiry,
		}
		id, err := s.offerRepo.Create(ctx, &offer)
		if err != nil {
			return granted, err
		}
		offer.ID = id
		granted = append(granted, offer)
	}

	if consultationCount%freeConsultationEvery == 0 {
		offer := models.Offer{
			SubscriberID: subscriberID,
			Type:         models.OfferFreeConsultation,
			ExpiryDate:   expiry,
		}
		id, err := s.offerRepo.Create(ctx, &offer)
		if err != nil {
			return granted, err
		}
		offer.ID = id
		granted = append(granted, offer)
	}

	if consultationCount >= priorityQueueMinCount && len(granted) == 0 {
		active, err := s.offerRepo.GetActiveBySubscriber(ctx, subscriberID)
		if err != nil {
			return granted, err
		}
		if len(active) == 0 {
			offer := models.Offer{
				SubscriberID: subscriberID,
				Type:         models.OfferPriorityQueue,
				ExpiryDate:   expiry,
			}
			id, err := s.offerRepo.Create(ctx, &offer)
			if err != nil {
				return granted, err
			}
			offer.ID = id
			granted = append(granted, offer)
		}
	}

	return granted, nil
}

func (s *offerService) GetBestOffer(ctx context.Context, subscriberID string) (*models.Offer, error) {
	active, err := s.offerRepo.GetActiveBySubscriber(ctx, subscriberID)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, nil
	}

	best := active[0]
	for _, offer := range active[1:] {
		if offer.Type.Rank() > best.Type.Rank() {
			best = offer
		}
	}
	return &best, nil
}
