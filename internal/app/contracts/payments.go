package contracts

import "context"

type PaymentCallbackRequest struct {
	TransactionID string `json:"transactionId" validate:"required"`
	Reference     string `json:"reference"`
	Status        string `json:"status" validate:"required"`
	Amount        string `json:"amount"`
	Phone         string `json:"phone"`
	Signature     string `json:"signature" validate:"required"`
}

type PaymentUsecase interface {
	HandleCallback(ctx context.Context, req *PaymentCallbackRequest) error
	// CheckPaymentStatus reports whether the transaction tied to the
	// session has completed, used when a subscriber redials mid-payment.
	CheckPaymentStatus(ctx context.Context, transactionID string) (bool, error)
}
