package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "VELAMART_DB_DSN"
	EnvDBHost = "VELAMART_DB_HOST"
	EnvDBUser = "VELAMART_DB_USER"
	EnvDBName = "VELAMART_DB_NAME"
)

var requiredDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Cart     CartConfig
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
	Env          string `envconfig:"VELAMART_APP_ENV" required:"true"`
	Port         string `envconfig:"VELAMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"VELAMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"VELAMART_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"VELAMART_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"VELAMART_DB_DSN"`

	Host     string `envconfig:"VELAMART_DB_HOST"`
	Port     int    `envconfig:"VELAMART_DB_PORT" default:"5432"`
	User     string `envconfig:"VELAMART_DB_USER"`
	Password string `envconfig:"VELAMART_DB_PASSWORD"`
	Name     string `envconfig:"VELAMART_DB_NAME"`
	SSLMode  string `envconfig:"VELAMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"VELAMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"VELAMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"VELAMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"VELAMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"VELAMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"VELAMART_REDIS_ADDR"`
	Password     string        `envconfig:"VELAMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"VELAMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"VELAMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"VELAMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"VELAMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"VELAMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"VELAMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"VELAMART_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"VELAMART_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"VELAMART_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"VELAMART_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"VELAMART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"VELAMART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"VELAMART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"VELAMART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"VELAMART_ARGON_KEY_LEN" default:"32"`
}

// CartConfig controls the local cart snapshot blob.
type CartConfig struct {
	SnapshotPath string `envconfig:"VELAMART_CART_SNAPSHOT_PATH" default:"cart-storage.json"`
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
	for _, env := range requiredDBEnvVars {
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
