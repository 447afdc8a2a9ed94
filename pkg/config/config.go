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
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	Media         MediaConfig
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
	return &cfg, nil
}

type AppConfig struct {
	Env            string   `envconfig:"WEBSHOP_APP_ENV" required:"true"`
	Port           string   `envconfig:"WEBSHOP_APP_PORT" required:"true"`
	LogLevel       string   `envconfig:"WEBSHOP_LOG_LEVEL" default:"info"`
	LogWarnStack   bool     `envconfig:"WEBSHOP_LOG_WARN_STACK" default:"false"`
	AllowedOrigins []string `envconfig:"WEBSHOP_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"WEBSHOP_DB_DSN"`

	Host     string `envconfig:"WEBSHOP_DB_HOST"`
	Port     int    `envconfig:"WEBSHOP_DB_PORT" default:"5432"`
	User     string `envconfig:"WEBSHOP_DB_USER"`
	Password string `envconfig:"WEBSHOP_DB_PASSWORD"`
	Name     string `envconfig:"WEBSHOP_DB_NAME"`
	SSLMode  string `envconfig:"WEBSHOP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"WEBSHOP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"WEBSHOP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"WEBSHOP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"WEBSHOP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"WEBSHOP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"WEBSHOP_REDIS_ADDR"`
	Password     string        `envconfig:"WEBSHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"WEBSHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"WEBSHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"WEBSHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"WEBSHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"WEBSHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WEBSHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"WEBSHOP_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"WEBSHOP_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"WEBSHOP_JWT_EXPIRATION_MINUTES" required:"true"`
}

// AccessTokenTTL returns the configured access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"WEBSHOP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"WEBSHOP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"WEBSHOP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"WEBSHOP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"WEBSHOP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"WEBSHOP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUserLimit     int           `envconfig:"WEBSHOP_AUTH_RATE_LIMIT_LOGIN_USER_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"WEBSHOP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"WEBSHOP_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterUserLimit  int           `envconfig:"WEBSHOP_AUTH_RATE_LIMIT_REGISTER_USER_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"WEBSHOP_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type MediaConfig struct {
	UploadDir     string `envconfig:"WEBSHOP_MEDIA_UPLOAD_DIR" default:"uploads"`
	PublicBaseURL string `envconfig:"WEBSHOP_MEDIA_PUBLIC_BASE_URL" default:"/static"`
	MaxUploadMB   int    `envconfig:"WEBSHOP_MEDIA_MAX_UPLOAD_MB" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"WEBSHOP_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range fallbackDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
