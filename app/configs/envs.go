package configs

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type ENV struct {
	AppEnv             string
	Port               string
	BackendURL         string
	FrontendURL        string
	CORSAllowedOrigins []string

	DBDriver     string
	DBHost       string
	DBUser       string
	DBPassword   string
	DBName       string
	DBPort       string
	DBMaxRetries int

	JWTSecret  string
	JWTTTL     time.Duration
	AppAuthKey string
	AppEncKey  string
	CSRFKey    string

	LogLevel    string
	LogEncoding string

	EmailBackend         string
	EmailHost            string
	EmailPort            string
	EmailUsername        string
	EmailPassword        string
	EmailFrom            string
	GmailCredentialsFile string
	GmailTokenFile       string

	ImageHost          string
	ImgBBAPIKey        string
	ImageUploadTimeout time.Duration
	MinioEndpoint      string
	MinioAccessKey     string
	MinioSecretKey     string
	MinioBucket        string
	MinioUseSSL        bool
	MinioPublicURL     string

	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	CategoryCacheTTL time.Duration
}

func LoadEnv() ENV {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using process environment")
	}

	return ENV{
		AppEnv:             getEnv("APP_ENV", "development"),
		Port:               getEnv("APP_PORT", ":8000"),
		BackendURL:         strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8000"), "/"),
		FrontendURL:        strings.TrimRight(getEnv("FRONTEND_URL", "http://localhost:3000"), "/"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		DBDriver:     getEnv("DB_DRIVER", "mysql"),
		DBHost:       getEnv("DB_HOST", "127.0.0.1"),
		DBUser:       getEnv("DB_USER", "root"),
		DBPassword:   os.Getenv("DB_PASSWORD"),
		DBName:       getEnv("DB_NAME", "sellup"),
		DBPort:       getEnv("DB_PORT", "3306"),
		DBMaxRetries: getEnvInt("DB_MAX_RETRIES", 5),

		JWTSecret:  os.Getenv("JWT_SECRET"),
		JWTTTL:     getEnvDuration("JWT_TTL", 24*time.Hour),
		AppAuthKey: os.Getenv("APP_AUTH_KEY"),
		AppEncKey:  os.Getenv("APP_ENC_KEY"),
		CSRFKey:    os.Getenv("CSRF_KEY"),

		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogEncoding: getEnv("LOG_ENCODING", "json"),

		EmailBackend:         getEnv("EMAIL_BACKEND", "log"),
		EmailHost:            getEnv("EMAIL_HOST", "smtp.gmail.com"),
		EmailPort:            getEnv("EMAIL_PORT", "587"),
		EmailUsername:        os.Getenv("EMAIL_USERNAME"),
		EmailPassword:        os.Getenv("EMAIL_PASSWORD"),
		EmailFrom:            getEnv("EMAIL_FROM", os.Getenv("EMAIL_USERNAME")),
		GmailCredentialsFile: getEnv("GMAIL_CREDENTIALS_FILE", "credentials.json"),
		GmailTokenFile:       getEnv("GMAIL_TOKEN_FILE", "token.json"),

		ImageHost:          getEnv("IMAGE_HOST", "imgbb"),
		ImgBBAPIKey:        os.Getenv("IMGBB_API_KEY"),
		ImageUploadTimeout: getEnvDuration("IMAGE_UPLOAD_TIMEOUT", 15*time.Second),
		MinioEndpoint:      os.Getenv("MINIO_ENDPOINT"),
		MinioAccessKey:     os.Getenv("MINIO_ACCESS_KEY"),
		MinioSecretKey:     os.Getenv("MINIO_SECRET_KEY"),
		MinioBucket:        getEnv("MINIO_BUCKET", "listing-images"),
		MinioUseSSL:        getEnvBool("MINIO_USE_SSL", false),
		MinioPublicURL:     os.Getenv("MINIO_PUBLIC_URL"),

		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		CategoryCacheTTL: getEnvDuration("CATEGORY_CACHE_TTL", 10*time.Minute),
	}
}

func (e ENV) IsProduction() bool {
	return e.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("invalid integer for %s: %q, using %d", key, value, fallback)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("invalid duration for %s: %q, using %s", key, value, fallback)
		return fallback
	}
	return d
}

func getEnvSlice(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
