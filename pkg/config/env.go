package config

const (
	EnvStoreBackend = "STORE_BACKEND"
	EnvDataDir      = "DATA_DIR"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvBaseURL  = "BASE_URL"
	EnvLogLevel = "LOG_LEVEL"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvSlotDurationMin = "SLOT_DURATION_MIN"
	EnvReminderLeadMin = "REMINDER_LEAD_MIN"
	EnvDefaultTimezone = "DEFAULT_TIMEZONE"
	EnvICSUIDDomain    = "ICS_UID_DOMAIN"
	EnvICSCacheDir     = "ICS_CACHE_DIR"

	EnvKafkaBrokers = "KAFKA_BROKERS"
	EnvKafkaTopic   = "KAFKA_TOPIC"
)
