package config

import "time"

const (
	BackendMongo = "mongo"
	BackendFile  = "file"
)

const (
	DefaultStoreBackend = BackendMongo
	DefaultDataDir      = "./data"

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "bookable"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort    = "8080"
	DefaultBaseURL = "http://localhost:8080"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultSlotDurationMin = 30
	DefaultReminderLeadMin = 15
	DefaultDefaultTimezone = "UTC"
	DefaultICSUIDDomain    = "bookable.local"
	DefaultICSCacheDir     = "" // empty disables the on-disk invite cache

	DefaultKafkaTopic = "meeting-events"
)
