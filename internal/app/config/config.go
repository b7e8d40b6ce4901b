package config

import (
	"smarthealth-service/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		MongoDB: MongoDB{
			Port:     utils.GetEnvString("MONGODB_PORT", "27017"),
			Host:     utils.GetEnvString("MONGODB_HOST", "localhost"),
			DbName:   utils.GetEnvString("MONGODB_DB_NAME", "smarthealth"),
			Username: utils.GetEnvString("MONGODB_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("MONGODB_PASSWORD", "defaultPassword"),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "defaultUsername"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "defaultPassword"),
		},
		Minio: Minio{
			Port:       utils.GetEnvString("MINIO_PORT", "9000"),
			Host:       utils.GetEnvString("MINIO_HOST", "localhost"),
			Username:   utils.GetEnvString("MINIO_USERNAME", "defaultUsername"),
			Password:   utils.GetEnvString("MINIO_PASSWORD", "defaultPassword"),
			BucketName: utils.GetEnvString("MINIO_BUCKET_NAME", "call-recordings"),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                        utils.GetEnvString("APP_ENV", "development"),
			Port:                       utils.GetEnvString("APP_PORT", ":8080"),
			Version:                    utils.GetEnvString("APP_VERSION", "v1.0"),
			Address:                    utils.GetEnvString("APP_ADDRESS", "localhost"),
			BaseURL:                    utils.GetEnvString("APP_BASE_URL", "http://localhost:8080"),
			EndpointPrefix:             utils.GetEnvString("APP_ENDPOINT_PREFIX", "/v1"),
			USSDShortCode:              utils.GetEnvString("APP_USSD_SHORT_CODE", "*384*34153#"),
			DefaultLanguage:            utils.GetEnvString("APP_DEFAULT_LANGUAGE", "en"),
			ConsultationFee:            utils.GetEnvFloat("APP_CONSULTATION_FEE", 5000),
			TrialFreeConsultations:     utils.GetEnvInt("APP_TRIAL_FREE_CONSULTATIONS", 3),
			SessionTTLInMinute:         utils.GetEnvInt("APP_SESSION_TTL_IN_MINUTE", 10),
			SessionLockTTLInSecond:     utils.GetEnvInt("APP_SESSION_LOCK_TTL_IN_SECOND", 15),
			LoginMaxAttempts:           utils.GetEnvInt("APP_LOGIN_MAX_ATTEMPTS", 5),
			LoginAttemptWindowInMinute: utils.GetEnvInt("APP_LOGIN_ATTEMPT_WINDOW_IN_MINUTE", 15),
			CallQueueTimeoutInMinute:   utils.GetEnvInt("APP_CALL_QUEUE_TIMEOUT_IN_MINUTE", 5),
			ProvisionalCaseTTLInHour:   utils.GetEnvInt("APP_PROVISIONAL_CASE_TTL_IN_HOUR", 24),
			OfferTTLInDay:              utils.GetEnvInt("APP_OFFER_TTL_IN_DAY", 30),
			SweepIntervalInSecond:      utils.GetEnvInt("APP_SWEEP_INTERVAL_IN_SECOND", 60),
			RabbitMQSMSQueue:           utils.GetEnvString("APP_RABBITMQ_SMS_QUEUE", "sms_outbound"),
			RabbitMQSMSDeadLetterQueue: utils.GetEnvString("APP_RABBITMQ_SMS_DLQ", "sms_outbound_dlq"),
			RedisRecordingArchiveQueue: utils.GetEnvString("APP_REDIS_RECORDING_ARCHIVE_QUEUE", "recording_archive_queue"),
			MaxRequests:                utils.GetEnvInt("APP_MAX_REQUEST", 100),
			ShutdownTimeout:            utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			MaxTimeRequestsPerSeconds:  utils.GetEnvInt("APP_MAX_TIME_REQUESTS_PER_SECONDS", 1),
			RequestBodyLimitInMegabyte: utils.GetEnvInt("APP_REQUEST_BODY_LIMIT_IN_MEGABYTE", 2),
		},
		JWT: JWT{
			Secret:                    utils.GetEnvString("JWT_SECRET", "anyjwt"),
			DoctorLegTokenExpInMinute: utils.GetEnvInt("JWT_DOCTOR_LEG_TOKEN_EXP_IN_MINUTE", 10),
		},
		PaymentGateway: PaymentGateway{
			BaseURL:   utils.GetEnvString("PAYMENT_GATEWAY_BASE_URL", "https://api.zeno.africa"),
			APIKey:    utils.GetEnvString("PAYMENT_GATEWAY_API_KEY", ""),
			SecretKey: utils.GetEnvString("PAYMENT_GATEWAY_SECRET_KEY", ""),
			AccountID: utils.GetEnvString("PAYMENT_GATEWAY_ACCOUNT_ID", ""),
			TestMode:  utils.GetEnvBool("PAYMENT_GATEWAY_TEST_MODE", true),
		},
		SMSProvider: SMSProvider{
			BaseURL:  utils.GetEnvString("SMS_PROVIDER_BASE_URL", "https://api.africastalking.com"),
			APIKey:   utils.GetEnvString("SMS_PROVIDER_API_KEY", ""),
			Username: utils.GetEnvString("SMS_PROVIDER_USERNAME", "sandbox"),
			SenderID: utils.GetEnvString("SMS_PROVIDER_SENDER_ID", "SMARTHEALTH"),
		},
		Voice: Voice{
			Provider:       utils.GetEnvString("VOICE_PROVIDER", "africastalking"),
			CallerID:       utils.GetEnvString("VOICE_CALLER_ID", ""),
			VoiceAPIKey:    utils.GetEnvString("VOICE_API_KEY", ""),
			VoiceUsername:  utils.GetEnvString("VOICE_USERNAME", "sandbox"),
			HoldMusicURL:   utils.GetEnvString("VOICE_HOLD_MUSIC_URL", ""),
			RecordMaxInSec: utils.GetEnvInt("VOICE_RECORD_MAX_IN_SECOND", 60),
		},
	}
}
