package config

import (
	"os"
	"strconv"
	"time"
)

const (
	defaultTMDBBaseURL  = "https://api.themoviedb.org/3"
	defaultTMDBImageURL = "https://image.tmdb.org/t/p/w200"
	defaultRandomMax    = 500
	defaultPageSize     = 12
	defaultSessionTTL   = 30 * time.Minute
)

// TMDBConfig is everything the movie client needs to reach the metadata service.
type TMDBConfig struct {
	APIKey        string
	BaseURL       string
	ImageBaseURL  string
	RandomPageMax int
	Timeout       time.Duration
}

type ServerConfig struct {
	Port         string
	PageSize     int
	SecureCookie bool
}

type SessionConfig struct {
	Backend string // "memory" or "redis"
	TTL     time.Duration
}

func LoadTMDB() TMDBConfig {
	return TMDBConfig{
		APIKey:        GetEnv("TMDB_API_KEY", ""),
		BaseURL:       GetEnv("TMDB_BASE_URL", defaultTMDBBaseURL),
		ImageBaseURL:  GetEnv("TMDB_IMAGE_BASE_URL", defaultTMDBImageURL),
		RandomPageMax: GetEnvAsInt("TMDB_RANDOM_PAGE_MAX", defaultRandomMax),
		Timeout:       GetEnvAsDuration("TMDB_TIMEOUT", 15*time.Second),
	}
}

func LoadServer() ServerConfig {
	return ServerConfig{
		Port:         GetEnv("PORT", "8080"),
		PageSize:     GetEnvAsInt("PAGE_SIZE", defaultPageSize),
		SecureCookie: GetEnvAsBool("COOKIE_SECURE", false),
	}
}

func LoadSession() SessionConfig {
	return SessionConfig{
		Backend: GetEnv("SESSION_BACKEND", "memory"),
		TTL:     GetEnvAsDuration("SESSION_TTL", defaultSessionTTL),
	}
}

// RedisConfig returns host, port, password
func RedisConfig() (string, string, string) {
	host := GetEnv("R_HOST", "redis")
	port := GetEnv("R_PORT", "6379")
	password := GetEnv("R_PASS", "")
	return host, port, password
}

// GetEnv retrieves values from environment files based on the key it matches,
// returns a string (value) if not empty
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvAsInt falls back to defaultValue when the variable is unset, not a
// number, or not positive.
func GetEnvAsInt(key string, defaultValue int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 1 {
		return defaultValue
	}
	return val
}

func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := time.ParseDuration(valStr)
	if err != nil || val <= 0 {
		return defaultValue
	}
	return val
}

// GetEnvAsBool accepts anything strconv.ParseBool does.
func GetEnvAsBool(key string, defaultValue bool) bool {
	val, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return val
}
