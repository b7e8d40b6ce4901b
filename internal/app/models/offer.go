package models

import "time"

type OfferType string

const (
	OfferDiscount         OfferType = "discount"
	OfferFreeConsultation OfferType = "free_consultation"
	OfferPriorityQueue    OfferType = "priority_queue"
)

// offerRank orders offer types for best-offer selection.
var offerRank = map[OfferType]int{
	OfferFreeConsultation: 3,
	OfferDiscount:         2,
	OfferPriorityQueue:    1,
}

func (t OfferType) Rank() int {
	return offerRank[t]
}

// Offer is a one-shot reward. Applied flips exactly once; an applied offer is
// never selected again.
type Offer struct {
	ID                 string    `json:"id" bson:"_id,omitempty"`
	SubscriberID       string    `json:"subscriberId" bson:"subscriberId"`
	Type               OfferType `json:"type" bson:"type"`
	DiscountPercentage int       `json:"discountPercentage,omitempty" bson:"discountPercentage,omitempty"`
	ExpiryDate         time.Time `json:"expiryDate" bson:"expiryDate"`
	Applied            bool      `json:"applied" bson:"applied"`
	TimeModel          `bson:",inline"`
}
