package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Storage
	StorageDriver string // "postgres" or "sqlite"
	SQLitePath    string

	// Database (postgres driver)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret       string
	JWTAccessExpiry time.Duration

	// Bootstrap admin (seeded at startup; registration with this email also
	// gets the admin role)
	AdminEmail    string
	AdminName     string
	AdminPassword string

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	// Optional .env for local development; real env vars win.
	_ = godotenv.Load()

	return &Config{
		StorageDriver: getEnv("STORAGE_DRIVER", "sqlite"),
		SQLitePath:    getEnv("SQLITE_PATH", "skillflow.db"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "skillflow_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: parseDuration(getEnv("JWT_ACCESS_EXPIRY", "24h")),

		AdminEmail:    getEnv("ADMIN_EMAIL", "hamidulhaquetitas@gmail.com"),
		AdminName:     getEnv("ADMIN_NAME", "Super Admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		Port:        getEnv("PORT", "5000"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}
