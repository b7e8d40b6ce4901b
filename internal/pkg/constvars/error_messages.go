package constvars

// Client-facing messages. Channel controllers translate these into CON/END or
// call-control wording; the JSON surface returns them verbatim.
const (
	ErrClientSomethingWrongWithApplication = "Something went wrong with the application"
	ErrClientCannotProcessRequest          = "Cannot process the request"
	ErrClientServerLongRespond             = "Server took too long to respond"
	ErrClientServiceUnavailable            = "Service temporarily unavailable. Please try again."
	ErrClientSessionBusy                   = "Your previous request is still being processed. Please try again."
	ErrClientSessionExpired                = "Session expired. Please start again."
	ErrClientNotAuthorized                 = "You are not authorized to perform this action"
	ErrClientInvalidPin                    = "The PIN you entered is wrong"
	ErrClientTooManyPinAttempts            = "Too many wrong PIN attempts. Please try again later."
	ErrClientPhoneAlreadyRegistered        = "This phone number is already registered"
	ErrClientPaymentNotConfirmed           = "Payment not confirmed"
	ErrClientPaymentInitiationFailed       = "Payment cannot be initiated now. Please try again later."
	ErrClientInvalidSignature              = "Invalid callback signature"
	ErrClientTransactionNotFound           = "Transaction not found"
	ErrClientQueueEntryNotFound            = "Call request not found"
)

// Developer-facing messages logged alongside the client message.
const (
	ErrDevValidationFailed         = "Request validation failed"
	ErrDevCannotParseJSON          = "Cannot parse JSON body"
	ErrDevCannotMarshalJSON        = "Cannot marshal value to JSON"
	ErrDevCannotParseForm          = "Cannot parse form body"
	ErrDevFailedToHashPin          = "Failed to hash PIN"
	ErrDevMongoInsertDocument      = "MongoDB insert document failed"
	ErrDevMongoFindDocument        = "MongoDB find document failed"
	ErrDevMongoUpdateDocument      = "MongoDB update document failed"
	ErrDevMongoDeleteDocument      = "MongoDB delete document failed"
	ErrDevRedisSet                 = "Redis SET failed"
	ErrDevRedisGet                 = "Redis GET failed: %s"
	ErrDevRedisDelete              = "Redis DEL failed"
	ErrDevRedisIncrement           = "Redis INCR failed"
	ErrDevRedisPushToList          = "Redis RPUSH failed"
	ErrDevRedisPopFromList         = "Redis LPOP failed"
	ErrDevRedisUnlock              = "Redis unlock failed"
	ErrDevRabbitMQPublish          = "RabbitMQ publish to queue %s failed"
	ErrDevSessionLockNotAcquired   = "Session lock not acquired"
	ErrDevSessionNotFound          = "Session record not found"
	ErrDevPaymentInitiation        = "Payment gateway initiate call failed"
	ErrDevPaymentSignatureMismatch = "Payment callback signature mismatch"
	ErrDevTransactionNotFound      = "Transaction record not found"
	ErrDevQueueEntryNotFound       = "Call queue entry not found"
	ErrDevDoctorLegTokenInvalid    = "Doctor call-leg token invalid or expired"
	ErrDevDoctorLegTokenGenerate   = "Failed to sign doctor call-leg token"
	ErrDevMinioUploadObject        = "MinIO upload object failed"
	ErrDevRecordingDownload        = "Recording download failed"
	ErrDevSMSProviderSend          = "SMS provider send failed"
	ErrDevVoiceDialFailed          = "Voice provider outbound call failed"
	ErrDevServerDeadlineExceeded   = "Handler deadline exceeded"
	ErrDevUnsupportedVoiceProvider = "Unsupported voice provider: %s"
	ErrDevSubscriberNotFound       = "Subscriber record not found"
	ErrDevSubscriberAlreadyExists  = "Subscriber with this phone already exists"
	ErrDevInsufficientBalance      = "Subscriber balance below required amount"
	ErrDevOfferAlreadyApplied      = "Offer already applied"
)
