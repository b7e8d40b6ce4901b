package config

type (
	DriverConfig struct {
		MongoDB  MongoDB
		Redis    Redis
		Logger   Logger
		RabbitMQ RabbitMQ
		Minio    Minio
	}

	InternalConfig struct {
		App            App
		JWT            JWT
		PaymentGateway PaymentGateway
		SMSProvider    SMSProvider
		Voice          Voice
	}

	MongoDB struct {
		Port     string
		Host     string
		DbName   string
		Username string
		Password string
	}

	Redis struct {
		Host     string
		Port     string
		Password string
	}

	Logger struct {
		Level               string
		OutputFileName      string
		OutputErrorFileName string
	}

	RabbitMQ struct {
		Port     string
		Host     string
		Username string
		Password string
	}

	Minio struct {
		Port       string
		Host       string
		Username   string
		Password   string
		BucketName string
	}

	App struct {
		Env                        string
		Port                       string
		Version                    string
		Address                    string
		BaseURL                    string
		EndpointPrefix             string
		USSDShortCode              string
		DefaultLanguage            string
		ConsultationFee            float64
		TrialFreeConsultations     int
		SessionTTLInMinute         int
		SessionLockTTLInSecond     int
		LoginMaxAttempts           int
		LoginAttemptWindowInMinute int
		CallQueueTimeoutInMinute   int
		ProvisionalCaseTTLInHour   int
		OfferTTLInDay              int
		SweepIntervalInSecond      int
		RabbitMQSMSQueue           string
		RabbitMQSMSDeadLetterQueue string
		RedisRecordingArchiveQueue string
		MaxRequests                int
		ShutdownTimeout            int
		MaxTimeRequestsPerSeconds  int
		RequestBodyLimitInMegabyte int
	}

	JWT struct {
		Secret                    string
		DoctorLegTokenExpInMinute int
	}

	PaymentGateway struct {
		BaseURL   string
		APIKey    string
		SecretKey string
		AccountID string
		TestMode  bool
	}

	SMSProvider struct {
		BaseURL  string
		APIKey   string
		Username string
		SenderID string
	}

	Voice struct {
		Provider       string
		CallerID       string
		VoiceAPIKey    string
		VoiceUsername  string
		HoldMusicURL   string
		RecordMaxInSec int
	}
)
