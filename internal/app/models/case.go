package models

import "time"

type CaseStatus string

const (
	CasePending    CaseStatus = "pending"
	CaseAssigned   CaseStatus = "assigned"
	CaseInProgress CaseStatus = "in_progress"
	CaseCompleted  CaseStatus = "completed"
	CaseCancelled  CaseStatus = "cancelled"
)

type ConsultationType string

const (
	ConsultationTrial     ConsultationType = "trial"
	ConsultationPaid      ConsultationType = "paid"
	ConsultationFreeOffer ConsultationType = "free_offer"
)

// ProvisionalSymptoms marks a case created before payment confirmation in the
// mobile-payment branch; real symptoms replace it once payment clears.
const ProvisionalSymptoms = "Payment pending"

type Case struct {
	ID                 string           `json:"id" bson:"_id,omitempty"`
	SubscriberID       string           `json:"subscriberId" bson:"subscriberId"`
	DoctorID           string           `json:"doctorId,omitempty" bson:"doctorId,omitempty"`
	Symptoms           string           `json:"symptoms" bson:"symptoms"`
	ConsultationType   ConsultationType `json:"consultationType" bson:"consultationType"`
	Priority           int              `json:"priority" bson:"priority"`
	Status             CaseStatus       `json:"status" bson:"status"`
	Response           string           `json:"response,omitempty" bson:"response,omitempty"`
	RecordingURL       string           `json:"recordingUrl,omitempty" bson:"recordingUrl,omitempty"`
	RecordingObjectKey string           `json:"recordingObjectKey,omitempty" bson:"recordingObjectKey,omitempty"`
	CompletedAt        *time.Time       `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	TimeModel          `bson:",inline"`
}
