package models

import "time"

// Subscriber is a phone-identified user. Subscribers created implicitly on first
// contact (voice or SMS) carry no PIN hash; USSD registration sets one.
type Subscriber struct {
	ID                string    `json:"id" bson:"_id,omitempty"`
	Phone             string    `json:"phone" bson:"phone"`
	Name              string    `json:"name,omitempty" bson:"name,omitempty"`
	PinHash           string    `json:"-" bson:"pinHash,omitempty"`
	Language          string    `json:"language" bson:"language"`
	Balance           float64   `json:"balance" bson:"balance"`
	TrialStart        time.Time `json:"trialStart" bson:"trialStart"`
	TrialEnd          time.Time `json:"trialEnd" bson:"trialEnd"`
	ConsultationCount int       `json:"consultationCount" bson:"consultationCount"`
	TimeModel         `bson:",inline"`
}

// InTrial reports whether the free-trial window is still open at the given time.
func (s *Subscriber) InTrial(now time.Time) bool {
	return !s.TrialEnd.IsZero() && !now.After(s.TrialEnd)
}

// TrialRemaining counts free consultations left inside an open trial window.
func (s *Subscriber) TrialRemaining(now time.Time, freeConsultations int) int {
	if !s.InTrial(now) {
		return 0
	}
	remaining := freeConsultations - s.ConsultationCount
	if remaining < 0 {
		return 0
	}
	return remaining
}
