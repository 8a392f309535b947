package config

const EnvPrefix = "PICKLE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	StoreDriverDynamoDB = "dynamodb"
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
	StoreDriverNone     = "none"

	NotifyDriverSNS  = "sns"
	NotifyDriverNone = "none"

	WriteReportingLenient = "lenient"
	WriteReportingStrict  = "strict"

	CartBackendSession = "session"
	CartBackendStore   = "store"

	PasswordStoragePlaintext = "plaintext"
	PasswordStorageArgon2id  = "argon2id"
)

const (
	EnvAppEnv          = "PICKLE_APP_ENV"
	EnvPort            = "PICKLE_APP_PORT"
	EnvLogLevel        = "PICKLE_LOG_LEVEL"
	EnvStoreDriver     = "PICKLE_STORE_DRIVER"
	EnvAWSRegion       = "PICKLE_AWS_REGION"
	EnvTableOrders     = "PICKLE_TABLE_ORDERS"
	EnvNotifyDriver    = "PICKLE_NOTIFY_DRIVER"
	EnvDBDSN           = "PICKLE_DB_DSN"
	EnvRedisURL        = "PICKLE_REDIS_URL"
	EnvRedisAddr       = "PICKLE_REDIS_ADDR"
	EnvWriteReporting  = "PICKLE_WRITE_REPORTING"
	EnvCartBackend     = "PICKLE_CART_BACKEND"
	EnvPasswordStorage = "PICKLE_PASSWORD_STORAGE"
	EnvTaxRate         = "PICKLE_TAX_RATE"
)
