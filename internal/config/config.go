package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                     string
	AllowOrigins             []string
	JWTSecret                string
	AccessTokenTTL           time.Duration
	ChallengeTTL             time.Duration
	FirestoreProjectID       string
	FirestoreCredentialsFile string
	TournamentCollection     string
	ProtocolEndpoint         string
	ProtocolAPIKey           string
	ProtocolTimeout          time.Duration
	AdminSecretKey           string
	DatabaseURL              string
	LogstashTCPAddr          string
	LogLevel                 string
	ClaimRateLimit           float64
	ClaimRateBurst           int
	EnableSwagger            bool
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	rateLimit := 1.0
	if v, err := strconv.ParseFloat(getenv("CLAIM_RATE_LIMIT", "1"), 64); err == nil && v >= 0 {
		rateLimit = v
	}

	rateBurst := 5
	if v, err := strconv.Atoi(getenv("CLAIM_RATE_BURST", "5")); err == nil && v > 0 {
		rateBurst = v
	}

	return Config{
		Port:                     getenv("PORT", "8080"),
		AllowOrigins:             splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		JWTSecret:                must("JWT_SECRET"),
		AccessTokenTTL:           duration("ACCESS_TOKEN_TTL", 12*time.Hour),
		ChallengeTTL:             duration("CHALLENGE_TTL", 5*time.Minute),
		FirestoreProjectID:       must("FIRESTORE_PROJECT_ID"),
		FirestoreCredentialsFile: getenv("FIRESTORE_CREDENTIALS_FILE", ""),
		TournamentCollection:     getenv("TOURNAMENT_COLLECTION", "tournaments"),
		ProtocolEndpoint:         must("PROTOCOL_ENDPOINT"),
		ProtocolAPIKey:           getenv("PROTOCOL_API_KEY", ""),
		ProtocolTimeout:          duration("PROTOCOL_TIMEOUT", 30*time.Second),
		AdminSecretKey:           must("ADMIN_SECRET_KEY"),
		DatabaseURL:              getenv("DATABASE_URL", ""),
		LogstashTCPAddr:          getenv("LOGSTASH_TCP_ADDR", ""),
		LogLevel:                 getenv("LOG_LEVEL", "info"),
		ClaimRateLimit:           rateLimit,
		ClaimRateBurst:           rateBurst,
		EnableSwagger:            getenv("ENABLE_SWAGGER", "true") == "true",
	}
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func duration(k string, d time.Duration) time.Duration {
	raw := getenv(k, "")
	if raw == "" {
		return d
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		log.Printf("Warning: invalid %s %q, using %s", k, raw, d)
		return d
	}
	return parsed
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
