package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"

	defaultSessionSecret = "dev-session-secret"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Stream   string
}

type StorageConfig struct {
	Endpoint      string
	PublicURL     string
	AccessKey     string
	SecretKey     string
	BucketAvatars string
	UseSSL        bool
	Region        string
}

type SecurityConfig struct {
	SessionSecret string
	SessionTTL    time.Duration
	CookieName    string
	MaxSessions   int
}

type StoreConfig struct {
	Driver string
}

type WorkerConfig struct {
	Group         string
	Consumer      string
	ClaimInterval time.Duration
	CleanupSpec   string
}

type UploadConfig struct {
	MaxAvatarBytes int64
}

type SeedConfig struct {
	Enabled bool
}

type LoggingConfig struct {
	Level string
}

type AppConfig struct {
	Environment      string
	HTTP             HTTPConfig
	Postgres         PostgresConfig
	Redis            RedisConfig
	Storage          StorageConfig
	Security         SecurityConfig
	Store            StoreConfig
	Worker           WorkerConfig
	Upload           UploadConfig
	Seed             SeedConfig
	Logging          LoggingConfig
	AllowCORSOrigins []string
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("ALUMNI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// cronParser matches the scheduler's cron.WithSeconds layout.
var cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

func (c *AppConfig) validate() error {
	switch c.Store.Driver {
	case StoreDriverPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("config: postgres.dsn is required for the postgres store")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("config: unknown store driver %q", c.Store.Driver)
	}
	if c.IsProduction() && (c.Security.SessionSecret == "" || c.Security.SessionSecret == defaultSessionSecret) {
		return errors.New("config: security.sessionsecret must be set in production")
	}
	if c.Worker.ClaimInterval <= 0 {
		return fmt.Errorf("config: worker.claiminterval must be positive, got %s", c.Worker.ClaimInterval)
	}
	if _, err := cronParser.Parse(c.Worker.CleanupSpec); err != nil {
		return fmt.Errorf("config: worker.cleanupspec %q: %w", c.Worker.CleanupSpec, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "15s")
	v.SetDefault("http.idletimeout", "60s")

	// Empty defaults register the keys so AutomaticEnv values reach Unmarshal.
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("postgres.maxopen", 30)
	v.SetDefault("postgres.maxidle", 10)
	v.SetDefault("postgres.connmaxlifetime", "30m")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.stream", "alumni:tasks")

	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.publicurl", "")
	v.SetDefault("storage.accesskey", "")
	v.SetDefault("storage.secretkey", "")
	v.SetDefault("storage.bucketavatars", "alumni-avatars")
	v.SetDefault("storage.usessl", false)
	v.SetDefault("storage.region", "us-east-1")

	v.SetDefault("security.sessionsecret", defaultSessionSecret)
	v.SetDefault("security.sessionttl", "24h")
	v.SetDefault("security.cookiename", "alumni.sid")
	v.SetDefault("security.maxsessions", 10)

	v.SetDefault("store.driver", StoreDriverPostgres)

	v.SetDefault("worker.group", "alumni-workers")
	v.SetDefault("worker.consumer", "worker-1")
	v.SetDefault("worker.claiminterval", "10s")
	v.SetDefault("worker.cleanupspec", "0 0 * * * *")

	v.SetDefault("upload.maxavatarbytes", 2<<20)

	v.SetDefault("seed.enabled", true)

	v.SetDefault("logging.level", "info")

	v.SetDefault("allowcorsorigins", "")
}
