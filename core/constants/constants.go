package constants

const (
	// Context keys
	ContextTokenData   = "token_data"
	ContextBearerToken = "bearer_token"

	// Database pool settings
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"

	// Redis key prefixes
	RedisKeyTokenBlacklist = "auth:blacklist:"

	// Token purposes
	TokenPurposeAccess = "access"
)
