package constvars

const (
	LoggingRequestIDKey          = "request_id"
	LoggingSessionIDKey          = "session_id"
	LoggingCallSessionIDKey      = "call_session_id"
	LoggingPhoneKey              = "phone"
	LoggingSubscriberIDKey       = "subscriber_id"
	LoggingDoctorIDKey           = "doctor_id"
	LoggingCaseIDKey             = "case_id"
	LoggingOfferIDKey            = "offer_id"
	LoggingTransactionIDKey      = "transaction_id"
	LoggingQueueEntryIDKey       = "queue_entry_id"
	LoggingStepKey               = "step"
	LoggingTokenCountKey         = "token_count"
	LoggingChannelKey            = "channel"
	LoggingAmountKey             = "amount"
	LoggingPaymentStatusKey      = "payment_status"
	LoggingQueueNameKey          = "queue_name"
	LoggingRedisKey              = "redis_key"
	LoggingLockValueKey          = "lock_value"
	LoggingLockExpirationTimeKey = "lock_expiration_time"
	LoggingLockStoredValueKey    = "lock_stored_value"
	LoggingLockExpectedValueKey  = "lock_expected_value"
	LoggingMethodKey             = "method"
	LoggingEndpointKey           = "endpoint"
	LoggingRemoteAddrKey         = "remote_addr"
	LoggingUserAgentKey          = "user_agent"
	LoggingStatusCodeKey         = "status_code"
	LoggingDurationKey           = "duration"
	LoggingSuccessKey            = "success"
	LoggingProviderKey           = "provider"
	LoggingObjectKeyKey          = "object_key"
	LoggingAttemptsKey           = "attempts"
)

const CONTEXT_REQUEST_ID_KEY = ContextKey("requestID")
