package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names
// so the prefix only matters for fields without a tag.
const EnvPrefix = "PEGAWAI"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced outside struct tags (tests, docs).
const (
	EnvAppEnv    = "PEGAWAI_APP_ENV"
	EnvPort      = "PEGAWAI_APP_PORT"
	EnvRedisURL  = "PEGAWAI_REDIS_URL"
	EnvJWTSecret = "PEGAWAI_JWT_SECRET"
	EnvJWTIssuer = "PEGAWAI_JWT_ISSUER"
)
