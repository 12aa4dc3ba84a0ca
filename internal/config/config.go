package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App                 AppConfig
	Database            DatabaseConfig
	SMTP                SMTPConfig
	LLM                 LLMConfig
	RateLimit           RateLimitConfig
	KeyEncryptionSecret string
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

// LLMConfig is the bootstrap completion setup. Provider, model and the
// token limits can be overridden at runtime through ai_settings rows;
// the keys here are the server-wide fallbacks behind per-user stored keys.
type LLMConfig struct {
	Provider              string // "openai", "anthropic" or "ollama"
	Model                 string
	OpenAIKey             string
	AnthropicKey          string
	OllamaBaseURL         string
	MaxTokens             int
	MaxHistoryTurns       int
	MaxContextTokens      int // 0 disables the token budget
	RequestTimeoutSeconds int
}

type RateLimitConfig struct {
	Limit         int // messages per window per user, 0 disables
	WindowSeconds int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log.csv"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "AI Assistant"),
		},
		LLM: LLMConfig{
			Provider:              getEnv("LLM_PROVIDER", "openai"),
			Model:                 getEnv("LLM_MODEL", "gpt-4"),
			OpenAIKey:             getEnv("OPENAI_API_KEY", ""),
			AnthropicKey:          getEnv("ANTHROPIC_API_KEY", ""),
			OllamaBaseURL:         getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			MaxTokens:             getEnvAsInt("LLM_MAX_TOKENS", 1500),
			MaxHistoryTurns:       getEnvAsInt("LLM_MAX_HISTORY_TURNS", 6),
			MaxContextTokens:      getEnvAsInt("LLM_MAX_CONTEXT_TOKENS", 0),
			RequestTimeoutSeconds: getEnvAsInt("LLM_REQUEST_TIMEOUT_SECONDS", 120),
		},
		RateLimit: RateLimitConfig{
			Limit:         getEnvAsInt("CHAT_RATE_LIMIT", 20),
			WindowSeconds: getEnvAsInt("CHAT_RATE_WINDOW_SECONDS", 60),
		},
		KeyEncryptionSecret: getEnv("KEY_ENCRYPTION_SECRET", ""),
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
