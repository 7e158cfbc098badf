package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DatabaseURL      string
	JWTSecret        string
	JWTAccessExpiry  time.Duration
	JWTRefreshExpiry time.Duration

	KakaoAPIBaseURL string

	SolarAPIKey  string
	SolarBaseURL string
	SolarModel   string
	SolarTimeout time.Duration

	// TimezoneOffsetHours is the fixed offset all natural-language times are
	// interpreted in. KST (UTC+9) in the source domain.
	TimezoneOffsetHours int

	// AnalysisCacheMaxAge is the freshness window for cached AI analyses.
	AnalysisCacheMaxAge time.Duration
	// AnalysisRetention is how long analysis rows are kept before the
	// retention janitor purges them.
	AnalysisRetention time.Duration

	ParseRateLimit int // parse calls per user per minute
	WriteRateLimit int // event writes per user per minute
	ReadRateLimit  int // event reads per user per minute
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	accessExpiry := 15 * time.Minute
	if exp := os.Getenv("JWT_ACCESS_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			accessExpiry = parsed
		}
	}

	refreshExpiry := 168 * time.Hour // 7 days
	if exp := os.Getenv("JWT_REFRESH_EXPIRY"); exp != "" {
		if parsed, err := time.ParseDuration(exp); err == nil {
			refreshExpiry = parsed
		}
	}

	solarTimeout := 15 * time.Second
	if t := os.Getenv("SOLAR_TIMEOUT"); t != "" {
		if parsed, err := time.ParseDuration(t); err == nil {
			solarTimeout = parsed
		}
	}

	cacheMaxAge := 24 * time.Hour
	if t := os.Getenv("ANALYSIS_CACHE_MAX_AGE"); t != "" {
		if parsed, err := time.ParseDuration(t); err == nil {
			cacheMaxAge = parsed
		}
	}

	retention := 30 * 24 * time.Hour
	if t := os.Getenv("ANALYSIS_RETENTION"); t != "" {
		if parsed, err := time.ParseDuration(t); err == nil {
			retention = parsed
		}
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		DatabaseURL:         getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=linq port=5432 sslmode=disable"),
		JWTSecret:           getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		JWTAccessExpiry:     accessExpiry,
		JWTRefreshExpiry:    refreshExpiry,
		KakaoAPIBaseURL:     getEnv("KAKAO_API_BASE_URL", "https://kapi.kakao.com"),
		SolarAPIKey:         getEnv("SOLAR_API_KEY", ""),
		SolarBaseURL:        getEnv("SOLAR_BASE_URL", "https://api.upstage.ai/v1/solar"),
		SolarModel:          getEnv("SOLAR_MODEL", "solar-1-mini-chat"),
		SolarTimeout:        solarTimeout,
		TimezoneOffsetHours: getEnvInt("TIMEZONE_OFFSET_HOURS", 9),
		AnalysisCacheMaxAge: cacheMaxAge,
		AnalysisRetention:   retention,
		ParseRateLimit:      getEnvInt("PARSE_RATE_LIMIT", 30),
		WriteRateLimit:      getEnvInt("WRITE_RATE_LIMIT", 60),
		ReadRateLimit:       getEnvInt("READ_RATE_LIMIT", 100),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
