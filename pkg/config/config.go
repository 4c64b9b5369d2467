package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	KnowledgeEmbedded = "embedded"
	KnowledgeFile     = "file"
	KnowledgePostgres = "postgres"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Knowledge KnowledgeConfig
	Chat      ChatConfig
	Logger    LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	AllowOrigins string
	StaticDir    string
}

type StorageConfig struct {
	Driver string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
}

type KnowledgeConfig struct {
	Source string
	Path   string
}

type ChatConfig struct {
	HistoryLimit     int
	MaxMessageLength int
}

func Load() (*Config, error) {
	// .env is optional; plain environment variables work too (Docker/K8s)
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	var errs []error
	readTimeout := getEnvInt("SERVER_READ_TIMEOUT", 30, &errs)
	writeTimeout := getEnvInt("SERVER_WRITE_TIMEOUT", 30, &errs)
	jwtExp := getEnvInt("JWT_EXPIRATION_HOURS", 24, &errs)
	historyLimit := getEnvInt("CHAT_HISTORY_LIMIT", 50, &errs)
	maxMessageLength := getEnvInt("CHAT_MAX_MESSAGE_LENGTH", 1000, &errs)

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
			AllowOrigins: getEnv("CORS_ALLOW_ORIGINS", "*"),
			StaticDir:    getEnv("WEB_STATIC_DIR", ""),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageMemory)),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "oscar"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "your-secret-key-change-in-production"),
			Expiration: time.Duration(jwtExp) * time.Hour,
		},
		Knowledge: KnowledgeConfig{
			Source: strings.ToLower(getEnv("KNOWLEDGE_SOURCE", KnowledgeEmbedded)),
			Path:   getEnv("KNOWLEDGE_PATH", ""),
		},
		Chat: ChatConfig{
			HistoryLimit:     historyLimit,
			MaxMessageLength: maxMessageLength,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	errs = append(errs, cfg.validate()...)
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() []error {
	var errs []error

	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StorageMemory, StoragePostgres, c.Storage.Driver))
	}

	switch c.Knowledge.Source {
	case KnowledgeEmbedded:
	case KnowledgeFile:
		if c.Knowledge.Path == "" {
			errs = append(errs, errors.New("KNOWLEDGE_PATH is required when KNOWLEDGE_SOURCE=file"))
		}
	case KnowledgePostgres:
		if c.Storage.Driver != StoragePostgres {
			errs = append(errs, errors.New("KNOWLEDGE_SOURCE=postgres requires STORAGE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("KNOWLEDGE_SOURCE must be one of embedded, file, postgres, got %q", c.Knowledge.Source))
	}

	if c.Chat.HistoryLimit <= 0 {
		errs = append(errs, errors.New("CHAT_HISTORY_LIMIT must be positive"))
	}
	if c.Chat.MaxMessageLength <= 0 {
		errs = append(errs, errors.New("CHAT_MAX_MESSAGE_LENGTH must be positive"))
	}

	return errs
}

// DSN returns a libpq style connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int, errs *[]error) int {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return value
}
