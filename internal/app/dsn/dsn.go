package dsn

import (
	"fmt"
	"os"
)

// FromEnv собирает DSN для PostgreSQL из переменных окружения.
// DATABASE_URL, если задан, используется как есть.
func FromEnv() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host, ok := os.LookupEnv("DB_HOST")
	if !ok || host == "" {
		return ""
	}
	port := getEnv("DB_PORT", "5432")
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASS")
	dbname := os.Getenv("DB_NAME")
	sslmode := getEnv("DB_SSLMODE", "disable")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pass, dbname, sslmode)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
