package config

// EnvPrefix is passed to envconfig.Process; the struct tags already carry
// the full variable names so the prefix stays empty.
const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv       = "PANADERIA_APP_ENV"
	EnvPort         = "PANADERIA_APP_PORT"
	EnvLogLevel     = "PANADERIA_LOG_LEVEL"
	EnvDBDSN        = "PANADERIA_DB_DSN"
	EnvDBHost       = "PANADERIA_DB_HOST"
	EnvDBUser       = "PANADERIA_DB_USER"
	EnvDBName       = "PANADERIA_DB_NAME"
	EnvRedisURL     = "PANADERIA_REDIS_URL"
	EnvJWTSecret    = "PANADERIA_JWT_SECRET"
	EnvJWTIssuer    = "PANADERIA_JWT_ISSUER"
	EnvJWTExpMins   = "PANADERIA_JWT_EXPIRATION_MINUTES"
	EnvGCPProjectID = "PANADERIA_GCP_PROJECT_ID"

	EnvRefreshTokenTTLMinutes = "PANADERIA_REFRESH_TOKEN_TTL_MINUTES"

	EnvPubSubOrdersTopic = "PANADERIA_PUBSUB_ORDERS_TOPIC"
	EnvPubSubOrdersSub   = "PANADERIA_PUBSUB_ORDERS_SUBSCRIPTION"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
