package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr           string
	SearchTimeout      time.Duration
	LogLevel           string
	LogFormat          string
	UserAgent          string
	SourcesFile        string
	BannedTermsFile    string
	AdultKeywordsFile  string
	DisableAdultFilter bool
	RedisURL           string
	MongoURI           string
	MongoDB            string
	JWTSecret          string
	SiteUsername       string
	SitePassword       string
	SessionDuration    time.Duration
	CacheTTL           time.Duration
	CacheDisabled      bool
}

func LoadConfig() Config {
	return Config{
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		SearchTimeout:      time.Duration(getEnvInt("SEARCH_TIMEOUT_SECONDS", 20)) * time.Second,
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
		UserAgent:          getEnv("SEARCH_USER_AGENT", "vodhub/1.0"),
		SourcesFile:        getEnv("SOURCES_FILE", "config/sources.json"),
		BannedTermsFile:    getEnv("BANNED_TERMS_FILE", ""),
		AdultKeywordsFile:  getEnv("ADULT_KEYWORDS_FILE", ""),
		DisableAdultFilter: getEnvBool("DISABLE_YELLOW_FILTER", false),
		RedisURL:           getEnv("REDIS_URL", ""),
		MongoURI:           getEnv("MONGO_URI", ""),
		MongoDB:            getEnv("MONGO_DB", "vodhub"),
		JWTSecret:          strings.TrimSpace(os.Getenv("JWT_SECRET")),
		SiteUsername:       getEnv("SITE_USERNAME", "admin"),
		SitePassword:       strings.TrimSpace(os.Getenv("SITE_PASSWORD")),
		SessionDuration:    time.Duration(getEnvInt("SESSION_DURATION_HOURS", 24*7)) * time.Hour,
		CacheTTL:           time.Duration(getEnvInt("SITE_CACHE_TTL_SECONDS", 300)) * time.Second,
		CacheDisabled:      getEnvBool("SEARCH_CACHE_DISABLED", false),
	}
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
