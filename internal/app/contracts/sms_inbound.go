package contracts

import "context"

type IncomingSMSRequest struct {
	From string `json:"from" validate:"required"`
	Text string `json:"text"`
	Date string `json:"date"`
	ID   string `json:"id"`
}

type SMSInboundUsecase interface {
	Handle(ctx context.Context, req *IncomingSMSRequest) error
}
