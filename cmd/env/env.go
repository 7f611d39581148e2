package env

const (
	// Prefix is the env var prefix for all service configuration
	Prefix = "P2PCONV"

	// DBURLSuffix is the env var suffix for the Postgres connection string
	DBURLSuffix = "_DB_URL"
)
