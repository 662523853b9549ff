package config

// EnvPrefix namespaces every environment variable the service reads.
const EnvPrefix = "BESTIA"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "production"
)

// Supported database drivers.
const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

// Environment variable names, kept in one place so tests and deploy
// manifests reference the same strings.
const (
	EnvAppEnv   = "BESTIA_APP_ENV"
	EnvPort     = "BESTIA_APP_PORT"
	EnvDBDSN    = "BESTIA_DB_DSN"
	EnvDBHost   = "BESTIA_DB_HOST"
	EnvDBUser   = "BESTIA_DB_USER"
	EnvDBName   = "BESTIA_DB_NAME"
	EnvRedisURL = "BESTIA_REDIS_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
