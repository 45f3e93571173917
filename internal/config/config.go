package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr    string
	APIBaseURL    string
	PublicBaseURL string
	JWTSecret     []byte
	DatabaseURL   string
	SQLitePath    string
	ESURL         string
	ESUser        string
	ESPassword    string
	KafkaAddress  string
	LogLevel      string
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func must(v string, name string) string {
	if v == "" {
		log.Fatalf("missing required env %s", name)
	}
	return v
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		ListenAddr:    getenv("LISTEN_ADDR", ":8080"),
		APIBaseURL:    must(os.Getenv("API_BASE_URL"), "API_BASE_URL"),
		PublicBaseURL: getenv("PUBLIC_BASE_URL", "http://localhost:8080"),
		JWTSecret:     []byte(must(os.Getenv("JWT_HS256_SECRET"), "JWT_HS256_SECRET")),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SQLitePath:    getenv("SQLITE_PATH", "storefront.db"),
		ESURL:         os.Getenv("ES_URL"),
		ESUser:        os.Getenv("ES_USER"),
		ESPassword:    os.Getenv("ES_PASSWORD"),
		KafkaAddress:  os.Getenv("KAFKA_ADDRESS"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
	}
	return cfg
}
