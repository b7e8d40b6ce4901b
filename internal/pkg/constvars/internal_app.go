package constvars

type ContextKey string

// Conversation channels.
const (
	ChannelUSSD  = "ussd"
	ChannelVoice = "voice"
	ChannelSMS   = "sms"
)

// Main menu selectors shared by the USSD and voice flows.
const (
	MenuOptionTrial    = "1"
	MenuOptionPaid     = "2"
	MenuOptionHistory  = "3"
	MenuOptionLanguage = "4"
	MenuOptionLogout   = "5"
)

// Payment method selectors inside the paid flow.
const (
	PaymentOptionMobile  = "1"
	PaymentOptionBalance = "2"
	PaymentOptionBack    = "3"
)

const (
	PaymentMethodMobile    = "mobile"
	PaymentMethodBalance   = "balance"
	PaymentMethodFreeOffer = "free_offer"
)

const (
	LanguageEnglish   = "en"
	LanguageKiswahili = "sw"
)

// Input limits enforced by the flows.
const (
	MinNameLength          = 3
	MinSymptomLength       = 20
	MinSMSSymptomLength    = 10
	TrialFreeConsultations = 3
	HistoryPageSize        = 5
	VoiceHistoryPageSize   = 3
)

// Redis key prefixes.
const (
	RedisKeySession       = "session:"
	RedisKeySessionLock   = "session_lock:"
	RedisKeyLoginAttempts = "login_attempts:"
)

const (
	LoginAttemptGroupName = "login-pin"
)

// Mongo collections.
const (
	MongoCollectionSubscribers  = "subscribers"
	MongoCollectionDoctors      = "doctors"
	MongoCollectionCases        = "cases"
	MongoCollectionOffers       = "offers"
	MongoCollectionTransactions = "transactions"
	MongoCollectionCallQueue    = "doctor_call_queue"
)

const (
	SMSQueueMaxAttempts = 3
)

const (
	DoctorLegTokenClaim = "queue_entry_id"
)

// Telephony providers.
const (
	VoiceProviderAfricasTalking = "africastalking"
	VoiceProviderTwilio         = "twilio"
)
