package utils

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the api-server needs. All values have dev
// defaults so the server starts with no environment at all; every external
// dependency degrades gracefully when unreachable.
type Config struct {
	Addr        string
	DatasetPath string

	GoogleBooksAPIKey  string
	GoogleBooksBaseURL string

	RedisAddr string
	RedisDB   int

	RasaURL string

	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration

	AdminUser         string
	AdminPassword     string // plaintext fallback for dev
	AdminPasswordHash string // bcrypt hash, preferred when set
}

// Load reads configuration from the environment, after loading a .env file
// if one is present in the working directory.
func Load() Config {
	// missing .env is fine
	_ = godotenv.Load()

	return Config{
		Addr:        envOr("BOOKBOT_ADDR", ":8000"),
		DatasetPath: envOr("BOOKBOT_DATASET", "data/books.csv"),

		GoogleBooksAPIKey:  os.Getenv("GOOGLE_BOOKS_API_KEY"),
		GoogleBooksBaseURL: envOr("GOOGLE_BOOKS_BASE_URL", "https://www.googleapis.com/books/v1/volumes"),

		RedisAddr: envOr("BOOKBOT_REDIS_ADDR", "localhost:6379"),
		RedisDB:   envInt("BOOKBOT_REDIS_DB", 0),

		RasaURL: envOr("BOOKBOT_RASA_URL", "http://localhost:5005/webhooks/rest/webhook"),

		JWTSecret:   envOr("BOOKBOT_JWT_SECRET", "dev-secret-change-me"),
		JWTIssuer:   envOr("BOOKBOT_JWT_ISSUER", "bookbot"),
		JWTDuration: time.Duration(envInt("BOOKBOT_JWT_TTL_HOURS", 24)) * time.Hour,

		AdminUser:         envOr("BOOKBOT_ADMIN_USER", "admin"),
		AdminPassword:     envOr("BOOKBOT_ADMIN_PASSWORD", "change-me"),
		AdminPasswordHash: os.Getenv("BOOKBOT_ADMIN_PASSWORD_HASH"),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
