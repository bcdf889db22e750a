package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Cart          CartConfig
	GCP           GCPConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"PANADERIA_APP_ENV" required:"true"`
	Port         string `envconfig:"PANADERIA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"PANADERIA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"PANADERIA_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"PANADERIA_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"PANADERIA_DB_DSN"`
	Driver string `envconfig:"PANADERIA_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"PANADERIA_DB_HOST"`
	LegacyPort     int    `envconfig:"PANADERIA_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"PANADERIA_DB_USER"`
	LegacyPassword string `envconfig:"PANADERIA_DB_PASSWORD"`
	LegacyName     string `envconfig:"PANADERIA_DB_NAME"`
	LegacySSLMode  string `envconfig:"PANADERIA_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"PANADERIA_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"PANADERIA_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"PANADERIA_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"PANADERIA_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"PANADERIA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"PANADERIA_REDIS_ADDR"`
	Password     string        `envconfig:"PANADERIA_REDIS_PASSWORD"`
	DB           int           `envconfig:"PANADERIA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"PANADERIA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"PANADERIA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"PANADERIA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"PANADERIA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"PANADERIA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"PANADERIA_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"PANADERIA_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"PANADERIA_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"PANADERIA_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"PANADERIA_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"PANADERIA_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"PANADERIA_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"PANADERIA_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"PANADERIA_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"PANADERIA_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"PANADERIA_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"PANADERIA_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"PANADERIA_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"PANADERIA_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"PANADERIA_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"PANADERIA_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"PANADERIA_AUTO_MIGRATE" default:"false"`
}

type CartConfig struct {
	SessionTTL       time.Duration `envconfig:"PANADERIA_CART_SESSION_TTL" default:"168h"`
	ShippingFeeCents int           `envconfig:"PANADERIA_CART_SHIPPING_FEE_CENTS" default:"5000"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"PANADERIA_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"PANADERIA_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"PANADERIA_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"PANADERIA_PUBSUB_ORDERS_TOPIC" required:"true"`
	OrdersSubscription string `envconfig:"PANADERIA_PUBSUB_ORDERS_SUBSCRIPTION" required:"true"`
}

type OutboxConfig struct {
	BatchSize      int    `envconfig:"PANADERIA_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int    `envconfig:"PANADERIA_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int    `envconfig:"PANADERIA_OUTBOX_MAX_ATTEMPTS" default:"10"`
	MetricsPort    string `envconfig:"PANADERIA_OUTBOX_METRICS_PORT" default:"9091"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
