package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Redis         RedisConfig
	Storage       StorageConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PEGAWAI_APP_ENV" required:"true"`
	Port         string `envconfig:"PEGAWAI_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PEGAWAI_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PEGAWAI_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"PEGAWAI_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PEGAWAI_REDIS_ADDR"`
	Password     string        `envconfig:"PEGAWAI_REDIS_PASSWORD"`
	DB           int           `envconfig:"PEGAWAI_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PEGAWAI_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PEGAWAI_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PEGAWAI_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PEGAWAI_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PEGAWAI_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// StorageConfig pins the generation suffix under which the collections are
// stored. Bumping it isolates incompatible record shapes from older deploys.
type StorageConfig struct {
	Generation string `envconfig:"PEGAWAI_STORAGE_GENERATION" default:"v2"`
}

type JWTConfig struct {
	Secret            string `envconfig:"PEGAWAI_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"PEGAWAI_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"PEGAWAI_JWT_EXPIRATION_MINUTES" default:"480"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PEGAWAI_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PEGAWAI_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PEGAWAI_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PEGAWAI_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PEGAWAI_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow       time.Duration `envconfig:"PEGAWAI_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginNokpLimit    int           `envconfig:"PEGAWAI_AUTH_RATE_LIMIT_LOGIN_NOKP_LIMIT" default:"5"`
	LoginIPLimit      int           `envconfig:"PEGAWAI_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow    time.Duration `envconfig:"PEGAWAI_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterNokpLimit int           `envconfig:"PEGAWAI_AUTH_RATE_LIMIT_REGISTER_NOKP_LIMIT" default:"3"`
	RegisterIPLimit   int           `envconfig:"PEGAWAI_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}
