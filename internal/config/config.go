package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "STOREFRONT_"

// Storage backends for the ledgers
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendDynamoDB = "dynamodb"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	API      APIConfig      `yaml:"api"`
	Storage  StorageConfig  `yaml:"storage"`
	Database DatabaseConfig `yaml:"database"`
	DynamoDB DynamoDBConfig `yaml:"dynamodb"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Auth     AuthConfig     `yaml:"auth"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Cache    CacheConfig    `yaml:"cache"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type StorageConfig struct {
	Backend string `yaml:"backend"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

type DynamoDBConfig struct {
	Region   string `yaml:"region"`
	Table    string `yaml:"table"`
	Endpoint string `yaml:"endpoint"`
}

type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Prefetch int    `yaml:"prefetch"`
}

// AuthConfig controls how the caller identity is taken from the bearer
// token. Without a secret the token can only be decoded, so that mode must
// be switched on explicitly with AllowUnverified.
type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	AllowUnverified bool   `yaml:"allow_unverified"`
}

type LedgerConfig struct {
	MaxPending int `yaml:"max_pending"`
	MaxHistory int `yaml:"max_history"`
}

type CacheConfig struct {
	MaxEntries   int `yaml:"max_entries"`
	StaleSeconds int `yaml:"stale_seconds"`
}

func (c CacheConfig) StaleTime() time.Duration {
	return time.Duration(c.StaleSeconds) * time.Second
}

type LogConfig struct {
	Level string `yaml:"level"`
}

func defaults() Config {
	return Config{
		Server:   ServerConfig{Port: 3000},
		API:      APIConfig{TimeoutSeconds: 10},
		Storage:  StorageConfig{Backend: BackendMemory},
		Database: DatabaseConfig{Host: "localhost", Port: 5432, User: "storefront", Database: "storefront"},
		DynamoDB: DynamoDBConfig{Region: "us-west-2", Table: "storefront-ledgers"},
		RabbitMQ: RabbitMQConfig{Host: "localhost", Port: 5672, User: "guest", Password: "guest", Prefetch: 10},
		Ledger:   LedgerConfig{MaxPending: 20, MaxHistory: 50},
		Cache:    CacheConfig{MaxEntries: 512, StaleSeconds: 30},
		Log:      LogConfig{Level: "info"},
	}
}

// Load reads the YAML file at path over the defaults, then applies .env and
// STOREFRONT_* environment overrides. A missing file is not an error when
// path is empty.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"API_BASE_URL":      &cfg.API.BaseURL,
		"STORAGE_BACKEND":   &cfg.Storage.Backend,
		"DATABASE_HOST":     &cfg.Database.Host,
		"DATABASE_USER":     &cfg.Database.User,
		"DATABASE_PASSWORD": &cfg.Database.Password,
		"DATABASE_NAME":     &cfg.Database.Database,
		"DYNAMODB_REGION":   &cfg.DynamoDB.Region,
		"DYNAMODB_TABLE":    &cfg.DynamoDB.Table,
		"DYNAMODB_ENDPOINT": &cfg.DynamoDB.Endpoint,
		"RABBITMQ_HOST":     &cfg.RabbitMQ.Host,
		"RABBITMQ_USER":     &cfg.RabbitMQ.User,
		"RABBITMQ_PASSWORD": &cfg.RabbitMQ.Password,
		"AUTH_JWT_SECRET":   &cfg.Auth.JWTSecret,
		"LOG_LEVEL":         &cfg.Log.Level,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(envPrefix + name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"SERVER_PORT":   &cfg.Server.Port,
		"DATABASE_PORT": &cfg.Database.Port,
		"RABBITMQ_PORT": &cfg.RabbitMQ.Port,
	}
	for name, dst := range ints {
		v, ok := os.LookupEnv(envPrefix + name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", envPrefix, name, err)
		}
		*dst = n
	}

	bools := map[string]*bool{
		"RABBITMQ_ENABLED":      &cfg.RabbitMQ.Enabled,
		"AUTH_ALLOW_UNVERIFIED": &cfg.Auth.AllowUnverified,
	}
	for name, dst := range bools {
		v, ok := os.LookupEnv(envPrefix + name)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", envPrefix, name, err)
		}
		*dst = b
	}
	return nil
}

func (c *Config) Validate() error {
	var problems []string
	if c.API.BaseURL == "" {
		problems = append(problems, "api.base_url is required")
	}
	switch c.Storage.Backend {
	case BackendMemory, BackendPostgres, BackendDynamoDB:
	default:
		problems = append(problems, fmt.Sprintf("storage.backend must be one of memory, postgres, dynamodb (got %q)", c.Storage.Backend))
	}
	if c.Auth.JWTSecret == "" && !c.Auth.AllowUnverified {
		problems = append(problems, "auth.jwt_secret is required unless auth.allow_unverified is set")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, "server.port must be between 1 and 65535")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ValidateSubscriber checks the settings the notification subscriber needs.
// The subscriber writes into ledgers the gateway reads, so they must live in
// shared storage.
func (c *Config) ValidateSubscriber() error {
	if !c.RabbitMQ.Enabled {
		return errors.New("notification-subscriber needs rabbitmq.enabled")
	}
	if c.Storage.Backend == BackendMemory {
		return errors.New("notification-subscriber needs a shared storage.backend (postgres or dynamodb)")
	}
	return nil
}
