package constvars

const (
	PaymentCallbackProcessedMessage = "Payment callback processed"
	SMSQueuedMessage                = "Message queued for delivery"
	SuccessMessageProcessed         = "Processed"
)
