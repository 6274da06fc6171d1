package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv        string
	Port          string
	PublicBaseURL string
	FrontendURL   string
	CorsOrigins   []string

	DatabaseURL string

	JWTSecret string
	JWTTTL    time.Duration

	AadhaarPepper  string
	GoogleClientID string

	GeminiAPIKey     string
	GeminiModel      string
	GeminiBaseURL    string
	LLMTimeout       time.Duration
	ChatRetention    time.Duration
	ChatContextTurns int

	KafkaBroker   string
	KafkaTopic    string
	KafkaUsername string
	KafkaPassword string

	SendGridAPIKey string
	MailFromName   string
	MailFromEmail  string

	RollbarToken string

	UploadDir       string
	OSSEndpoint     string
	OSSAccessKey    string
	OSSSecretKey    string
	OSSBucket       string
	OSSPublicPrefix string

	AdminEmail    string
	AdminPassword string
}

// =======================
// ENV LOADER
// =======================
func LoadEnv() *Config {
	if GetEnv("APP_ENV", "development") != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ .env not found, using system environment")
		} else {
			log.Println("✅ .env loaded")
		}
	} else {
		log.Println("🚀 Running in production, using system environment")
	}

	cfg := &Config{
		AppEnv:        GetEnv("APP_ENV", "development"),
		Port:          GetEnv("PORT", "3000"),
		PublicBaseURL: strings.TrimRight(GetEnv("PUBLIC_BASE_URL", "http://localhost:3000"), "/"),
		FrontendURL:   strings.TrimRight(GetEnv("FRONTEND_URL", "http://localhost:5173"), "/"),
		CorsOrigins:   splitList(GetEnv("CORS_ORIGINS", "http://localhost:5173")),

		DatabaseURL: databaseURL(),

		JWTSecret: GetEnv("JWT_SECRET"),
		JWTTTL:    time.Duration(envInt("JWT_TTL_HOURS", 24)) * time.Hour,

		GoogleClientID: GetEnv("GOOGLE_CLIENT_ID"),

		GeminiAPIKey:     GetEnv("GEMINI_API_KEY"),
		GeminiModel:      GetEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL:    GetEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		LLMTimeout:       time.Duration(envInt("LLM_TIMEOUT_SECONDS", 30)) * time.Second,
		ChatRetention:    time.Duration(envInt("CHAT_RETENTION_DAYS", 30)) * 24 * time.Hour,
		ChatContextTurns: envInt("CHAT_CONTEXT_WINDOW", 10),

		KafkaBroker:   GetEnv("KAFKA_BROKER"),
		KafkaTopic:    GetEnv("KAFKA_TOPIC", "edudbt.events"),
		KafkaUsername: GetEnv("KAFKA_USERNAME"),
		KafkaPassword: GetEnv("KAFKA_PASSWORD"),

		SendGridAPIKey: GetEnv("SENDGRID_API_KEY"),
		MailFromName:   GetEnv("MAIL_FROM_NAME", "EduDBT"),
		MailFromEmail:  GetEnv("MAIL_FROM", "no-reply@edudbt.in"),

		RollbarToken: GetEnv("ROLLBAR_TOKEN"),

		UploadDir:       GetEnv("UPLOAD_DIR", "./uploads"),
		OSSEndpoint:     GetEnv("ALI_OSS_ENDPOINT"),
		OSSAccessKey:    GetEnv("ALI_OSS_ACCESS_KEY"),
		OSSSecretKey:    GetEnv("ALI_OSS_SECRET_KEY"),
		OSSBucket:       GetEnv("ALI_OSS_BUCKET"),
		OSSPublicPrefix: GetEnv("ALI_OSS_PREFIX", "edudbt"),

		AdminEmail:    GetEnv("ADMIN_EMAIL", "admin@edudbt.in"),
		AdminPassword: GetEnv("ADMIN_PASSWORD"),
	}
	cfg.AadhaarPepper = GetEnv("AADHAAR_PEPPER", cfg.JWTSecret)

	if cfg.JWTSecret == "" {
		log.Println("❌ JWT_SECRET is not set!")
	} else {
		log.Println("✅ JWT_SECRET loaded.")
	}
	if cfg.GeminiAPIKey == "" {
		log.Println("⚠️ GEMINI_API_KEY is not set, chatbot will answer with the fallback message")
	}
	if cfg.GoogleClientID == "" {
		log.Println("⚠️ GOOGLE_CLIENT_ID is not set, Google login disabled")
	}
	return cfg
}

func (c *Config) IsProduction() bool { return c.AppEnv == "production" }

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if (!exists || value == "") && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func envInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		log.Printf("⚠️ %s=%q is not a positive number, using %d", key, v, def)
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// DATABASE_URL wins; otherwise the DSN is built from the DB_* variables.
func databaseURL() string {
	if u := GetEnv("DATABASE_URL"); u != "" {
		return u
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=edudbt&options=-c statement_timeout=5000",
		GetEnv("DB_USER", "postgres"),
		GetEnv("DB_PASSWORD"),
		GetEnv("DB_HOST", "localhost"),
		GetEnv("DB_PORT", "5432"),
		GetEnv("DB_NAME", "edudbt"),
		GetEnv("DB_SSLMODE", "disable"),
	)
}
