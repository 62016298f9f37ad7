package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers understood by Load.
const (
	StorageBolt     = "bolt"
	StoragePostgres = "postgres"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName       string
	Environment   string
	HTTP          HTTPConfig
	Storage       StorageConfig
	Database      DatabaseConfig
	Migrations    MigrationsConfig
	Redis         RedisConfig
	Events        EventsConfig
	AI            AIConfig
	Communication CommunicationConfig
	Scheduler     SchedulerConfig
	Notifications NotificationsConfig
	JWT           JWTConfig
	Context       ContextConfig
	Logger        LoggerConfig
}

type HTTPConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	MaxConn      int
}

type StorageConfig struct {
	Driver   string
	BoltPath string
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	SSLMode         string
}

type MigrationsConfig struct {
	Enabled bool
	Path    string
}

// RedisConfig is optional; an empty URL disables every Redis-backed feature.
type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

// Enabled reports whether a Redis URL was configured.
func (c RedisConfig) Enabled() bool {
	return c.URL != ""
}

type EventsConfig struct {
	Sinks           []string
	RedisPrefix     string
	NatsURL         string
	NatsSubject     string
	StreamBuffer    int
	StreamHeartbeat time.Duration
}

type AIConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	RequestTimeout time.Duration
}

// Configured reports whether a remote model credential is present.
func (c AIConfig) Configured() bool {
	return c.APIKey != ""
}

type CommunicationConfig struct {
	GmailClientID     string
	GmailClientSecret string
	DiscordBotToken   string
	SnapshotPrefix    string
}

type SchedulerConfig struct {
	Enabled                bool
	AccountabilityEvery    time.Duration
	InsightsEvery          time.Duration
	CommunicationSyncEvery time.Duration
}

type NotificationsConfig struct {
	Enabled bool
}

type JWTConfig struct {
	Secret string
	Issuer string
}

// Enabled reports whether API requests must carry a bearer token.
func (c JWTConfig) Enabled() bool {
	return c.Secret != ""
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

// Load reads configuration from environment variables (optionally .env)
// and applies sane defaults so the service can boot in any environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "productivity"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:         getString("SERVER_HOST", "127.0.0.1"),
			Port:         getString("SERVER_PORT", "8080"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			MaxConn:      getInt("SERVER_MAX_CONN", 0),
		},
		Storage: StorageConfig{
			Driver:   strings.ToLower(getString("STORAGE_DRIVER", StorageBolt)),
			BoltPath: getString("BOLTDB_PATH", "./data/productivity.db"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			Host:            getString("DB_HOST", "localhost"),
			Port:            getString("DB_PORT", "5432"),
			Name:            getString("DB_NAME", "productivity"),
			User:            getString("DB_USER", "productivity"),
			Password:        os.Getenv("DB_PASSWORD"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 2),
			MaxConnLifetime: getDuration("DB_CONN_LIFETIME", time.Hour),
			SSLMode:         getString("DB_SSLMODE", "disable"),
		},
		Migrations: MigrationsConfig{
			Enabled: getBool("RUN_MIGRATIONS", true),
			Path:    getString("MIGRATIONS_PATH", "./assets/migrations"),
		},
		Redis: RedisConfig{
			URL:      os.Getenv("REDIS_URL"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		Events: EventsConfig{
			Sinks:           getList("EVENT_SINKS"),
			RedisPrefix:     getString("EVENT_REDIS_PREFIX", "productivity:events:"),
			NatsURL:         os.Getenv("NATS_URL"),
			NatsSubject:     getString("EVENT_NATS_SUBJECT", "productivity.events"),
			StreamBuffer:    getInt("EVENT_STREAM_BUFFER", 32),
			StreamHeartbeat: getDuration("EVENT_STREAM_HEARTBEAT", 15*time.Second),
		},
		AI: AIConfig{
			APIKey:         os.Getenv("OPENAI_API_KEY"),
			BaseURL:        strings.TrimRight(getString("OPENAI_BASE_URL", "https://api.openai.com/v1"), "/"),
			Model:          getString("OPENAI_MODEL", "gpt-3.5-turbo"),
			RequestTimeout: getDuration("OPENAI_TIMEOUT", 30*time.Second),
		},
		Communication: CommunicationConfig{
			GmailClientID:     os.Getenv("GMAIL_CLIENT_ID"),
			GmailClientSecret: os.Getenv("GMAIL_CLIENT_SECRET"),
			DiscordBotToken:   os.Getenv("DISCORD_BOT_TOKEN"),
			SnapshotPrefix:    getString("COMMUNICATION_SNAPSHOT_PREFIX", "communication:snapshot:"),
		},
		Scheduler: SchedulerConfig{
			Enabled:                getBool("SCHEDULER_ENABLED", true),
			AccountabilityEvery:    getDuration("ACCOUNTABILITY_INTERVAL", time.Hour),
			InsightsEvery:          getDuration("INSIGHTS_INTERVAL", 30*time.Minute),
			CommunicationSyncEvery: getDuration("COMMUNICATION_SYNC_INTERVAL", 15*time.Minute),
		},
		Notifications: NotificationsConfig{
			Enabled: getBool("NOTIFICATIONS_ENABLED", true),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
			Issuer: getString("JWT_ISSUER", "productivity"),
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 5*time.Second),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
	}

	switch cfg.Storage.Driver {
	case StorageBolt, StoragePostgres:
	default:
		return nil, fmt.Errorf("config: unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	for _, sink := range cfg.Events.Sinks {
		switch sink {
		case "redis":
			if !cfg.Redis.Enabled() {
				return nil, fmt.Errorf("config: event sink redis requires REDIS_URL")
			}
		case "nats":
			if cfg.Events.NatsURL == "" {
				return nil, fmt.Errorf("config: event sink nats requires NATS_URL")
			}
		default:
			return nil, fmt.Errorf("config: unknown event sink %q", sink)
		}
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = buildPostgresURL(cfg)
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func buildPostgresURL(cfg *Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

func getList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}
