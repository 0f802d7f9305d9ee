package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port               string
	DBConnectionString string
	// GitHubToken is the service-level PAT used as the fallback credential
	// and as the only credential for scheduled syncs. Optional: without it
	// the service operates anonymously at reduced rate limits.
	GitHubToken      string
	GitHubAPIBaseURL string
	SyncInterval     time.Duration
	// SyncSecret protects the operator resync endpoint. Empty disables the endpoint.
	SyncSecret string
}

func Load() (*Config, error) {
	port := getEnv("PORT", "8080")
	dbConnStr := getEnv("DB_CONNECTION_STRING", "")
	githubToken := getEnv("GITHUB_TOKEN", "")
	apiBaseURL := getEnv("GITHUB_API_BASE_URL", "https://api.github.com")
	syncSecret := getEnv("SYNC_SECRET", "")

	syncInterval, err := strconv.Atoi(getEnv("SYNC_INTERVAL_MINUTES", "15"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:               port,
		DBConnectionString: dbConnStr,
		GitHubToken:        githubToken,
		GitHubAPIBaseURL:   apiBaseURL,
		SyncInterval:       time.Duration(syncInterval) * time.Minute,
		SyncSecret:         syncSecret,
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
