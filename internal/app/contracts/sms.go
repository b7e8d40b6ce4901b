package contracts

import "context"

// SMSService queues outbound messages for best-effort delivery; the queue
// worker retries failed sends and dead-letters after the attempt budget.
type SMSService interface {
	Send(ctx context.Context, phone, message string) error
}

// SMSProviderClient is the synchronous gateway call used by the queue worker.
type SMSProviderClient interface {
	SendSMS(ctx context.Context, phone, message string) error
}
