package contracts

import "context"

type USSDRequest struct {
	SessionID   string `json:"sessionId" validate:"required"`
	ServiceCode string `json:"serviceCode"`
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Text        string `json:"text"`
}

// USSDReply carries the rendered screen text and whether the session
// should stay open (CON) or terminate (END).
type USSDReply struct {
	Text     string
	Continue bool
}

type USSDUsecase interface {
	Handle(ctx context.Context, req *USSDRequest) (*USSDReply, error)
}
