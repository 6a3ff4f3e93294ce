package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendRedis    = "redis"

	DefaultJWTSecret = "leetracker-dev-secret"
)

// loadDotEnv is swapped out in tests.
var loadDotEnv = func() error { return godotenv.Load() }

type Config struct {
	Port               string         `yaml:"port"`
	LogLevel           string         `yaml:"log_level"`
	CORSAllowedOrigins []string       `yaml:"cors_allowed_origins"`
	Storage            StorageConfig  `yaml:"storage"`
	Admin              AdminConfig    `yaml:"admin"`
	Snapshot           SnapshotConfig `yaml:"snapshot"`
}

type StorageConfig struct {
	Backend         string         `yaml:"backend"`
	SQLitePath      string         `yaml:"sqlite_path"`
	Postgres        PostgresConfig `yaml:"postgres"`
	MongoURI        string         `yaml:"mongo_uri"`
	MongoDB         string         `yaml:"mongo_db"`
	MongoCollection string         `yaml:"mongo_collection"`
	RedisAddr       string         `yaml:"redis_addr"`
	RedisPassword   string         `yaml:"redis_password"`
	RedisDB         int            `yaml:"redis_db"`
	RedisKeyPrefix  string         `yaml:"redis_key_prefix"`
}

type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DB       string `yaml:"db"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN renders the libpq keyword form gorm's postgres driver expects.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.DB, p.SSLMode)
}

// admin gate credentials, compared in-process
type AdminConfig struct {
	Username  string        `yaml:"username"`
	Password  string        `yaml:"password"`
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type SnapshotConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"` // cron, e.g. "0 3 * * *"
	Dir      string `yaml:"dir"`
}

func defaults() *Config {
	return &Config{
		Port:               "8080",
		LogLevel:           "info",
		CORSAllowedOrigins: []string{"*"},
		Storage: StorageConfig{
			Backend:    BackendSQLite,
			SQLitePath: "leetracker.db",
			Postgres: PostgresConfig{
				Host:    "localhost",
				Port:    "5432",
				SSLMode: "disable",
			},
			MongoDB:         "leetracker",
			MongoCollection: "tracker_state",
			RedisAddr:       "localhost:6379",
			RedisKeyPrefix:  "leetracker",
		},
		Admin: AdminConfig{
			Username:  "admin",
			Password:  "admin",
			JWTSecret: DefaultJWTSecret,
			TokenTTL:  12 * time.Hour,
		},
		Snapshot: SnapshotConfig{
			Enabled:  false,
			Schedule: "0 3 * * *",
			Dir:      "./snapshots",
		},
	}
}

// LoadConfig layers defaults, an optional YAML file named by CONFIG_FILE, an
// optional .env file and finally the process environment.
func LoadConfig() (*Config, error) {
	if err := loadDotEnv(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, config); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(config); err != nil {
		return nil, err
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func loadFile(path string, config *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, config); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(config *Config) error {
	config.Port = getEnvOrDefault("PORT", config.Port)
	config.LogLevel = getEnvOrDefault("LOG_LEVEL", config.LogLevel)
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		config.CORSAllowedOrigins = splitList(origins)
	}

	s := &config.Storage
	s.Backend = strings.ToLower(getEnvOrDefault("STORAGE_BACKEND", s.Backend))
	s.SQLitePath = getEnvOrDefault("SQLITE_PATH", s.SQLitePath)
	s.Postgres.Host = getEnvOrDefault("POSTGRES_HOST", s.Postgres.Host)
	s.Postgres.Port = getEnvOrDefault("POSTGRES_PORT", s.Postgres.Port)
	s.Postgres.User = getEnvOrDefault("POSTGRES_USER", s.Postgres.User)
	s.Postgres.Password = getEnvOrDefault("POSTGRES_PASSWORD", s.Postgres.Password)
	s.Postgres.DB = getEnvOrDefault("POSTGRES_DB", s.Postgres.DB)
	s.Postgres.SSLMode = getEnvOrDefault("POSTGRES_SSLMODE", s.Postgres.SSLMode)
	s.MongoURI = getEnvOrDefault("MONGO_URI", s.MongoURI)
	s.MongoDB = getEnvOrDefault("MONGO_DB_NAME", s.MongoDB)
	s.MongoCollection = getEnvOrDefault("MONGO_COLLECTION", s.MongoCollection)
	s.RedisAddr = getEnvOrDefault("REDIS_ADDR", s.RedisAddr)
	s.RedisPassword = getEnvOrDefault("REDIS_PASSWORD", s.RedisPassword)
	s.RedisKeyPrefix = getEnvOrDefault("REDIS_KEY_PREFIX", s.RedisKeyPrefix)
	db, err := getEnvInt("REDIS_DB", s.RedisDB)
	if err != nil {
		return err
	}
	s.RedisDB = db

	a := &config.Admin
	a.Username = getEnvOrDefault("ADMIN_USERNAME", a.Username)
	a.Password = getEnvOrDefault("ADMIN_PASSWORD", a.Password)
	a.JWTSecret = getEnvOrDefault("JWT_SECRET", a.JWTSecret)
	if raw := os.Getenv("ADMIN_TOKEN_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid ADMIN_TOKEN_TTL %q: %w", raw, err)
		}
		a.TokenTTL = ttl
	}

	snap := &config.Snapshot
	if raw := os.Getenv("SNAPSHOT_ENABLED"); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid SNAPSHOT_ENABLED %q: %w", raw, err)
		}
		snap.Enabled = enabled
	}
	snap.Schedule = getEnvOrDefault("SNAPSHOT_SCHEDULE", snap.Schedule)
	snap.Dir = getEnvOrDefault("SNAPSHOT_DIR", snap.Dir)
	return nil
}

func validateConfig(config *Config) error {
	if config.Port == "" {
		return errors.New("port must not be empty")
	}

	s := config.Storage
	switch s.Backend {
	case BackendMemory:
	case BackendSQLite:
		if s.SQLitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite backend")
		}
	case BackendPostgres:
		if s.Postgres.User == "" || s.Postgres.Password == "" || s.Postgres.DB == "" {
			return errors.New("POSTGRES_USER, POSTGRES_PASSWORD and POSTGRES_DB are required for the postgres backend")
		}
	case BackendMongo:
		if s.MongoURI == "" {
			return errors.New("MONGO_URI is required for the mongo backend")
		}
	case BackendRedis:
		if s.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for the redis backend")
		}
	default:
		return errors.New("unsupported storage backend: " + s.Backend)
	}

	if config.Admin.Username == "" || config.Admin.Password == "" {
		return errors.New("admin credentials must not be empty")
	}
	if config.Admin.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if config.Admin.TokenTTL <= 0 {
		return errors.New("admin token TTL must be positive")
	}

	if config.Snapshot.Enabled {
		if config.Snapshot.Dir == "" {
			return errors.New("SNAPSHOT_DIR is required when snapshots are enabled")
		}
		if _, err := cron.ParseStandard(config.Snapshot.Schedule); err != nil {
			return fmt.Errorf("invalid SNAPSHOT_SCHEDULE: %w", err)
		}
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
