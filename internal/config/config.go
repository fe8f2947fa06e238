package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server settings read from the environment.
type Config struct {
	DatabaseURL         string
	RedisURL            string
	BearerToken         string
	OpenWeatherAPIKey   string
	Port                string
	WeatherCacheTTL     time.Duration
	WeatherFetchTimeout time.Duration
	ChatPageSize        int
	RateLimitPerMinute  int
}

// Load reads an optional env file and then the process environment.
// Variables already set in the environment win over the file.
// DATABASE_URL and BEARER_TOKEN are required.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := Config{
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		BearerToken:       os.Getenv("BEARER_TOKEN"),
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		Port:              getEnv("PORT", "8080"),
	}

	if cfg.DatabaseURL == "" {
		return Config{}, missing("DATABASE_URL")
	}
	if cfg.BearerToken == "" {
		return Config{}, missing("BEARER_TOKEN")
	}

	cacheSeconds, err := intEnv("WEATHER_CACHE_SECONDS", 3600)
	if err != nil {
		return Config{}, err
	}
	cfg.WeatherCacheTTL = time.Duration(cacheSeconds) * time.Second

	cfg.WeatherFetchTimeout, err = durationEnv("WEATHER_FETCH_TIMEOUT", 5*time.Second)
	if err != nil {
		return Config{}, err
	}

	if cfg.ChatPageSize, err = intEnv("CHAT_PAGE_SIZE", 100); err != nil {
		return Config{}, err
	}
	if cfg.RateLimitPerMinute, err = intEnv("RATE_LIMIT_PER_MINUTE", 60); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func missing(key string) error {
	return fmt.Errorf("required environment variable %s not set", key)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, v)
	}
	return n, nil
}

// durationEnv accepts Go duration strings ("5s", "750ms") or plain seconds.
func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	if n, err := strconv.Atoi(v); err == nil && n > 0 {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, v)
	}
	return d, nil
}
