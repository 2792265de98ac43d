package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Page    PageConfig
	Auth    AuthConfig
	Session SessionConfig
	Events  EventsConfig
	Sample  SampleConfig
	Ai      AIConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	UploadMaxMB        int
}

type PageConfig struct {
	Variant          int
	Title            string
	Icon             string
	CustomConfigPath string // TOML: data.encoding_options, data.encoding_default, chat.providers
}

type AuthConfig struct {
	Source      string // "file" | "secrets"; empty means the variant default
	ConfigPath  string
	SecretsPath string
}

type SessionConfig struct {
	Store      string // "memory" | "redis"
	RedisURL   string
	TTL        time.Duration
	CookieName string
	// Secret seals chat API keys in the redis store.
	Secret string
}

type EventsConfig struct {
	NatsURL string // empty keeps events in-process
	Topic   string
}

type SampleConfig struct {
	Path        string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3Object    string
	S3UseSSL    bool
}

type AIConfig struct {
	Model   string
	BaseURL string
	Timeout time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			UploadMaxMB:        getEnvAsInt("UPLOAD_MAX_MB", 200),
		},
		Page: PageConfig{
			Variant:          getEnvAsInt("PAGE_VARIANT", 5),
			Title:            getEnv("PAGE_TITLE", "Data Analysis Dashboard"),
			Icon:             getEnv("PAGE_ICON", "🐍"),
			CustomConfigPath: getEnv("PAGE_CONFIG_PATH", ".streamlit/custom_config.toml"),
		},
		Auth: AuthConfig{
			Source:      getEnv("AUTH_SOURCE", ""),
			ConfigPath:  getEnv("AUTH_CONFIG_PATH", "config.yaml"),
			SecretsPath: getEnv("AUTH_SECRETS_PATH", ".streamlit/secrets.toml"),
		},
		Session: SessionConfig{
			Store:      getEnv("SESSION_STORE", "memory"),
			RedisURL:   getEnv("REDIS_URL", "redis://localhost:6379"),
			TTL:        getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			CookieName: getEnv("SESSION_COOKIE_NAME", "explorer_session"),
			Secret:     getEnv("SESSION_SECRET", ""),
		},
		Events: EventsConfig{
			NatsURL: getEnv("NATS_URL", ""),
			Topic:   getEnv("EVENTS_TOPIC", "explorer.activity"),
		},
		Sample: SampleConfig{
			Path:        getEnv("SAMPLE_DATA_PATH", "data/titanic.csv"),
			S3Endpoint:  getEnv("SAMPLE_S3_ENDPOINT", ""),
			S3AccessKey: getEnv("SAMPLE_S3_ACCESS_KEY", ""),
			S3SecretKey: getEnv("SAMPLE_S3_SECRET_KEY", ""),
			S3Bucket:    getEnv("SAMPLE_S3_BUCKET", ""),
			S3Object:    getEnv("SAMPLE_S3_OBJECT", "titanic.csv"),
			S3UseSSL:    getEnvAsBool("SAMPLE_S3_USE_SSL", false),
		},
		Ai: AIConfig{
			Model:   getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
			BaseURL: getEnv("OPENAI_BASE_URL", ""),
			Timeout: getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
