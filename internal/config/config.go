package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// JWTConfig は管理者トークン交換で発行する JWT の設定。
type JWTConfig struct {
	Issuer string
	Secret []byte
	TTL    time.Duration
}

// OpenAIConfig は LLM と書き起こしに使う OpenAI API の設定。
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	ChatModel   string
	AudioModel  string
	Temperature float64
	Timeout     time.Duration
}

// HeyGenConfig はアバター API 中継の設定。
type HeyGenConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// SessionConfig はセッションストアのドライバ選択。
type SessionConfig struct {
	StoreType     string
	TTL           time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Addr                         string
	MongoURI                     string
	MongoDatabase                string
	ConfigCollection             string
	SummaryCollection            string
	GroupCollection              string
	GroupSummaryCollection       string
	FailedNotificationCollection string
	Timeout                      time.Duration
	Timezone                     string
	ServerLog                    *log.Logger
	AdminToken                   string
	JWT                          JWTConfig
	OpenAI                       OpenAIConfig
	HeyGen                       HeyGenConfig
	Session                      SessionConfig
	PromptsPath                  string
	PublicClientURL              string
	NotifyWebhookURL             string
	NotifyTimeout                time.Duration
	AllowedOrigins               []string
}

// Load reads environment variables and returns a fully populated Config.
func Load() Config {
	// .env はローカル開発用。無ければ環境変数だけで動く。
	_ = godotenv.Load()

	timeout := 10 * time.Second
	if v := os.Getenv("MONGO_CONNECT_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			timeout = parsed
		}
	}

	adminToken := strings.TrimSpace(os.Getenv("ADMIN_TOKEN"))
	if adminToken == "" {
		log.Fatal("ADMIN_TOKEN must be configured")
	}

	jwtSecret := strings.TrimSpace(os.Getenv("ADMIN_JWT_SECRET"))
	if jwtSecret == "" {
		log.Fatal("ADMIN_JWT_SECRET must be configured")
	}
	jwtTTL := 12 * time.Hour
	if raw := strings.TrimSpace(os.Getenv("ADMIN_JWT_TTL")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			jwtTTL = parsed
		}
	}

	openAITemperature := 0.7
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TEMPERATURE")); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			openAITemperature = parsed
		}
	}
	openAITimeout := 60 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			openAITimeout = parsed
		}
	}

	heyGenTimeout := 30 * time.Second
	if raw := strings.TrimSpace(os.Getenv("HEYGEN_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			heyGenTimeout = parsed
		}
	}

	sessionTTL := 2 * time.Hour
	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			sessionTTL = parsed
		}
	}
	redisDB := 0
	if raw := strings.TrimSpace(os.Getenv("SESSION_REDIS_DB")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			redisDB = parsed
		}
	}

	notifyTimeout := 3 * time.Second
	if raw := strings.TrimSpace(os.Getenv("NOTIFY_WEBHOOK_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			notifyTimeout = parsed
		}
	}

	cfg := Config{
		Addr:                         envOrDefault("HTTP_ADDR", ":8787"),
		MongoURI:                     envOrDefault("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:                envOrDefault("MONGO_DB", "interview-hub"),
		ConfigCollection:             envOrDefault("CONFIG_COLLECTION", "interview_configs"),
		SummaryCollection:            envOrDefault("SUMMARY_COLLECTION", "summaries"),
		GroupCollection:              envOrDefault("GROUP_COLLECTION", "groups"),
		GroupSummaryCollection:       envOrDefault("GROUP_SUMMARY_COLLECTION", "group_summaries"),
		FailedNotificationCollection: envOrDefault("FAILED_NOTIFICATION_COLLECTION", "failed_notifications"),
		Timeout:                      timeout,
		Timezone:                     envOrDefault("TIMEZONE", "Asia/Tokyo"),
		ServerLog:                    log.New(os.Stdout, "[interview-hub-api] ", log.LstdFlags|log.Lshortfile),
		AdminToken:                   adminToken,
		JWT: JWTConfig{
			Issuer: envOrDefault("ADMIN_JWT_ISSUER", "interview-hub-api"),
			Secret: []byte(jwtSecret),
			TTL:    jwtTTL,
		},
		OpenAI: OpenAIConfig{
			APIKey:      strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
			BaseURL:     strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")),
			ChatModel:   envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
			AudioModel:  envOrDefault("OPENAI_AUDIO_MODEL", "whisper-1"),
			Temperature: openAITemperature,
			Timeout:     openAITimeout,
		},
		HeyGen: HeyGenConfig{
			APIKey:  strings.TrimSpace(os.Getenv("HEYGEN_API_KEY")),
			BaseURL: strings.TrimSpace(os.Getenv("HEYGEN_BASE_URL")),
			Timeout: heyGenTimeout,
		},
		Session: SessionConfig{
			StoreType:     envOrDefault("SESSION_STORE", "memory"),
			TTL:           sessionTTL,
			RedisAddr:     envOrDefault("SESSION_REDIS_ADDR", "redis:6379"),
			RedisPassword: os.Getenv("SESSION_REDIS_PASSWORD"),
			RedisDB:       redisDB,
		},
		PromptsPath:      strings.TrimSpace(os.Getenv("PROMPTS_PATH")),
		PublicClientURL:  envOrDefault("PUBLIC_CLIENT_URL", "http://localhost:5173"),
		NotifyWebhookURL: strings.TrimSpace(os.Getenv("NOTIFY_WEBHOOK_URL")),
		NotifyTimeout:    notifyTimeout,
		AllowedOrigins:   parseList("API_ALLOWED_ORIGINS", []string{"*"}),
	}

	cfg.ServerLog.Printf("loaded config: sessionStore=%q promptsPath=%q publicClientURL=%q", cfg.Session.StoreType, cfg.PromptsPath, cfg.PublicClientURL)

	return cfg
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
