package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Addr                    string
	DatabaseURL             string
	Environment             string
	CompanyName             string
	MigrationsDir           string
	RunMigrations           bool
	DefaultPaymentFrequency string
	MaxBodyBytes            int64
	MetricsEnabled          bool
}

func Load() Config {
	return Config{
		Addr:                    getEnv("APP_ADDR", ":8080"),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		Environment:             getEnv("APP_ENV", "development"),
		CompanyName:             getEnv("COMPANY_NAME", "MSA Payroll Services"),
		MigrationsDir:           getEnv("MIGRATIONS_DIR", "migrations"),
		RunMigrations:           getEnvBool("RUN_MIGRATIONS", true),
		DefaultPaymentFrequency: getEnv("DEFAULT_PAYMENT_FREQUENCY", "Bi-Weekly"),
		MaxBodyBytes:            int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		MetricsEnabled:          getEnvBool("METRICS_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	switch c.DefaultPaymentFrequency {
	case "Bi-Weekly", "Monthly":
	default:
		return fmt.Errorf("DEFAULT_PAYMENT_FREQUENCY must be Bi-Weekly or Monthly")
	}
	return nil
}
