package contracts

import "context"

type InitiatePaymentInput struct {
	TransactionID string
	Phone         string
	Amount        float64
	Description   string
}

type InitiatePaymentOutput struct {
	PaymentID string
	Status    string
	Message   string
}

// PaymentGatewayService wraps the mobile-money push gateway. VerifySignature
// checks the HMAC over the sorted-field concatenation of a callback payload
// (signature field excluded).
type PaymentGatewayService interface {
	InitiatePayment(ctx context.Context, in *InitiatePaymentInput) (*InitiatePaymentOutput, error)
	VerifySignature(fields map[string]string, signature string) bool
}
