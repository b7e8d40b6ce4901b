package models

type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "pending"
	TransactionCompleted TransactionStatus = "completed"
	TransactionFailed    TransactionStatus = "failed"
	TransactionRefunded  TransactionStatus = "refunded"
)

type Transaction struct {
	ID             string            `json:"id" bson:"_id,omitempty"`
	SubscriberID   string            `json:"subscriberId" bson:"subscriberId"`
	CaseID         string            `json:"caseId,omitempty" bson:"caseId,omitempty"`
	Amount         float64           `json:"amount" bson:"amount"`
	PaymentMethod  string            `json:"paymentMethod" bson:"paymentMethod"`
	TransactionRef string            `json:"transactionRef,omitempty" bson:"transactionRef,omitempty"`
	Status         TransactionStatus `json:"status" bson:"status"`
	TimeModel      `bson:",inline"`
}
