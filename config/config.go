// config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all environment-driven settings. Load is called once from main
// after godotenv has populated the environment.
type Config struct {
	Port   string
	DBName string

	JWTAccessSecret  string
	JWTRefreshSecret string

	AccessTokenLifetime           time.Duration
	RefreshTokenLifetime          time.Duration
	PhoneVerificationCodeLifetime time.Duration

	MustVerifyPhoneNumber bool

	SMSUsername string
	SMSPassword string
	SMSSenderID string
	SMSAPIPath  string
}

// Load reads configuration from the environment. Both JWT secrets are
// mandatory; everything else falls back to a sensible default.
func Load() *Config {
	cfg := &Config{
		Port:   getEnv("PORT", "8080"),
		DBName: getEnv("DB_NAME", "tukprojects"),

		JWTAccessSecret:  os.Getenv("JWT_ACCESS_SECRET"),
		JWTRefreshSecret: os.Getenv("JWT_REFRESH_SECRET"),

		AccessTokenLifetime:           secondsEnv("ACCESS_TOKEN_LIFETIME_IN_SECONDS", 900),
		RefreshTokenLifetime:          secondsEnv("REFRESH_TOKEN_LIFETIME_IN_SECONDS", 604800),
		PhoneVerificationCodeLifetime: secondsEnv("PHONE_VERIFICATION_CODE_LIFETIME_IN_SECONDS", 300),

		MustVerifyPhoneNumber: boolEnv("MUST_VERIFY_PHONE_NUMBER", false),

		SMSUsername: os.Getenv("SMS_USERNAME"),
		SMSPassword: os.Getenv("SMS_PASSWORD"),
		SMSSenderID: getEnv("SMS_SENDER_ID", "TUK Projects"),
		SMSAPIPath:  os.Getenv("SMS_API_PATH"),
	}

	if cfg.JWTAccessSecret == "" {
		log.Fatal("JWT_ACCESS_SECRET environment variable is required")
	}
	if cfg.JWTRefreshSecret == "" {
		log.Fatal("JWT_REFRESH_SECRET environment variable is required")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func secondsEnv(key string, fallback int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
		log.Printf("Warning: invalid value for %s, using default", key)
	}
	return time.Duration(fallback) * time.Second
}

func boolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
		log.Printf("Warning: invalid value for %s, using default", key)
	}
	return fallback
}
