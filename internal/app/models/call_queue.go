package models

import "time"

type CallQueueStatus string

const (
	CallQueuePending   CallQueueStatus = "pending"
	CallQueueAccepted  CallQueueStatus = "accepted"
	CallQueueRejected  CallQueueStatus = "rejected"
	CallQueueTimeout   CallQueueStatus = "timeout"
	CallQueueCompleted CallQueueStatus = "completed"
)

// CallQueueEntry bridges a voice caller's case to a doctor's accept/reject
// decision. Status leaves "pending" exactly once; all transitions out of
// pending are conditional updates.
type CallQueueEntry struct {
	ID              string          `json:"id" bson:"_id,omitempty"`
	DoctorID        string          `json:"doctorId" bson:"doctorId"`
	SubscriberID    string          `json:"subscriberId" bson:"subscriberId"`
	CaseID          string          `json:"caseId" bson:"caseId"`
	CallSessionID   string          `json:"callSessionId" bson:"callSessionId"`
	Status          CallQueueStatus `json:"status" bson:"status"`
	DoctorPhone     string          `json:"doctorPhone,omitempty" bson:"doctorPhone,omitempty"`
	RejectionReason string          `json:"rejectionReason,omitempty" bson:"rejectionReason,omitempty"`
	DurationSeconds int             `json:"durationSeconds,omitempty" bson:"durationSeconds,omitempty"`
	AcceptedAt      *time.Time      `json:"acceptedAt,omitempty" bson:"acceptedAt,omitempty"`
	RejectedAt      *time.Time      `json:"rejectedAt,omitempty" bson:"rejectedAt,omitempty"`
	CompletedAt     *time.Time      `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	TimeModel       `bson:",inline"`
}
