package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	Port        string
	DatabaseURL string
	SslCertPath string

	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string

	GroqAPIKey  string
	GroqBaseURL string
	GroqModel   string

	GeminiAPIKey string
	EmbedModel   string
	EmbedDim     int

	ChunkSize     int
	ChunkOverlap  int
	IngestWorkers int
	IngestQueue   int

	OCRLanguage string

	JWTSecret string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	AbogadoEmail string
	CronSpec     string
}

// LoadConfig reads the environment (plus an optional .env file) and returns
// the fully resolved configuration. Clients are constructed from this at
// process start and injected; nothing reads the environment afterwards.
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		Env:         getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "3000"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		SslCertPath: getEnv("SSL_CERT_PATH", ""),

		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", "us-east-1"),
		BucketName:   getEnv("BUCKET_NAME", "jurisia-docs"),

		GroqAPIKey:  getEnv("GROQ_API_KEY", os.Getenv("OPENAI_API_KEY")),
		GroqBaseURL: getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:   getEnv("GROQ_MODEL", "llama-3.3-70b-versatile"),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		EmbedModel:   getEnv("EMBED_MODEL", "text-embedding-004"),
		EmbedDim:     getEnvInt("EMBED_DIM", 768),

		ChunkSize:     getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap:  getEnvInt("CHUNK_OVERLAP", 200),
		IngestWorkers: getEnvInt("INGEST_WORKERS", 2),
		IngestQueue:   getEnvInt("INGEST_QUEUE", 64),

		OCRLanguage: getEnv("OCR_LANGUAGE", "spa"),

		JWTSecret: getEnv("JWT_SECRET", "juris_secret_2026"),

		SMTPHost:     getEnv("EMAIL_HOST", ""),
		SMTPPort:     getEnvInt("EMAIL_PORT", 587),
		SMTPUser:     getEnv("EMAIL_USER", ""),
		SMTPPassword: getEnv("EMAIL_PASS", ""),
		AbogadoEmail: getEnv("ABOGADO_EMAIL", ""),
		CronSpec:     getEnv("ALERT_CRON", "0 8 * * *"),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}
