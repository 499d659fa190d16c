package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all settings read from the environment.
type Config struct {
	ServerPort  string
	Environment string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret string

	RateLimitEnabled bool
	RateLimitRPS     int
	RateLimitBurst   int
}

// Load reads .env (if present) and builds the configuration from
// environment variables with development defaults.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8090"),
		Environment: getEnv("ENVIRONMENT", "development"),

		DBUser:     getEnv("DB_USER", "polluser"),
		DBPassword: getEnv("DB_PASSWORD", "pollpassword"),
		DBHost:     getEnv("DB_HOST", "mysql"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBName:     getEnv("DB_NAME", "pollsdb"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),

		RateLimitEnabled: getEnv("ENABLE_RATE_LIMIT", "false") == "true",
		RateLimitRPS:     getEnvInt("GLOBAL_RATE_LIMIT", 100),
		RateLimitBurst:   getEnvInt("GLOBAL_RATE_BURST", 200),
	}
	return cfg
}

// getEnv returns the environment variable value or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
