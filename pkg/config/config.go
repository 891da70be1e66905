package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	// EnvPrefix is passed to envconfig so ad-hoc tooling can share it.
	EnvPrefix = "WRAPNTRACK"

	AppEnvDev  = "development"
	AppEnvProd = "production"

	EnvAppEnv = "WRAPNTRACK_APP_ENV"
	EnvDBDSN  = "WRAPNTRACK_DB_DSN"
	EnvDBHost = "WRAPNTRACK_DB_HOST"
	EnvDBUser = "WRAPNTRACK_DB_USER"
	EnvDBName = "WRAPNTRACK_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	Verification  VerificationConfig
	Orders        OrdersConfig
	AuthRateLimit AuthRateLimitConfig
	Mailer        MailerConfig
	Cron          CronConfig
	FeatureFlags  FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Verification.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"WRAPNTRACK_APP_ENV" required:"true"`
	Port         string `envconfig:"WRAPNTRACK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"WRAPNTRACK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"WRAPNTRACK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"WRAPNTRACK_DB_DSN"`
	Driver string `envconfig:"WRAPNTRACK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"WRAPNTRACK_DB_HOST"`
	LegacyPort     int    `envconfig:"WRAPNTRACK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"WRAPNTRACK_DB_USER"`
	LegacyPassword string `envconfig:"WRAPNTRACK_DB_PASSWORD"`
	LegacyName     string `envconfig:"WRAPNTRACK_DB_NAME"`
	LegacySSLMode  string `envconfig:"WRAPNTRACK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WRAPNTRACK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WRAPNTRACK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WRAPNTRACK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WRAPNTRACK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WRAPNTRACK_REDIS_URL"`
	Address      string        `envconfig:"WRAPNTRACK_REDIS_ADDR"`
	Password     string        `envconfig:"WRAPNTRACK_REDIS_PASSWORD"`
	DB           int           `envconfig:"WRAPNTRACK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WRAPNTRACK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WRAPNTRACK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WRAPNTRACK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WRAPNTRACK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WRAPNTRACK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"WRAPNTRACK_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"WRAPNTRACK_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"WRAPNTRACK_JWT_EXPIRATION_MINUTES" default:"1440"`
}

// TokenTTL returns the configured access token lifetime.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"WRAPNTRACK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"WRAPNTRACK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"WRAPNTRACK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"WRAPNTRACK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"WRAPNTRACK_ARGON_KEY_LEN" default:"32"`
}

// Code alphabets supported for verification codes.
const (
	CodeAlphabetNumeric = "numeric"
	CodeAlphabetAlpha   = "alpha"
)

// VerificationConfig drives the account verification flow: code shape, code
// lifetime, and whether registration hands back a token before the email is
// confirmed.
type VerificationConfig struct {
	CodeAlphabet        string        `envconfig:"WRAPNTRACK_VERIFICATION_CODE_ALPHABET" default:"numeric"`
	CodeLength          int           `envconfig:"WRAPNTRACK_VERIFICATION_CODE_LENGTH" default:"6"`
	CodeTTL             time.Duration `envconfig:"WRAPNTRACK_VERIFICATION_CODE_TTL" default:"24h"`
	IssueTokenOnRegister bool         `envconfig:"WRAPNTRACK_VERIFICATION_ISSUE_TOKEN_ON_REGISTER" default:"false"`
}

func (v VerificationConfig) validate() error {
	switch v.CodeAlphabet {
	case CodeAlphabetNumeric, CodeAlphabetAlpha:
	default:
		return fmt.Errorf("invalid verification code alphabet %q", v.CodeAlphabet)
	}
	if v.CodeLength <= 0 {
		return fmt.Errorf("verification code length must be positive")
	}
	if v.CodeTTL <= 0 {
		return fmt.Errorf("verification code ttl must be positive")
	}
	return nil
}

// OrdersConfig carries the order workflow knobs that differ between deployments.
type OrdersConfig struct {
	IDPrefix            string `envconfig:"WRAPNTRACK_ORDERS_ID_PREFIX" default:"WNT"`
	RequireLinesOnUpdate bool  `envconfig:"WRAPNTRACK_ORDERS_REQUIRE_LINES_ON_UPDATE" default:"true"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"WRAPNTRACK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"WRAPNTRACK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"WRAPNTRACK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"WRAPNTRACK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"WRAPNTRACK_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"WRAPNTRACK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type MailerConfig struct {
	APIKey      string        `envconfig:"WRAPNTRACK_MAILER_API_KEY"`
	BaseURL     string        `envconfig:"WRAPNTRACK_MAILER_BASE_URL"`
	DefaultFrom string        `envconfig:"WRAPNTRACK_MAILER_FROM_EMAIL" default:"no-reply@wrapntrack.app"`
	Timeout     time.Duration `envconfig:"WRAPNTRACK_MAILER_TIMEOUT" default:"10s"`
}

// Enabled reports whether an outbound mail provider is configured. Without a
// key the app falls back to the log-only sender.
func (m MailerConfig) Enabled() bool {
	return strings.TrimSpace(m.APIKey) != ""
}

type CronConfig struct {
	Interval time.Duration `envconfig:"WRAPNTRACK_CRON_INTERVAL" default:"10m"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"WRAPNTRACK_AUTO_MIGRATE" default:"false"`
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
