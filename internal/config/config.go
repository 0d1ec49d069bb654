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
	Port            string
	Env             string
	DBDSN           string
	LogLevel        string
	LogFile         string
	RedisAddr       string
	DigestCacheTTL  time.Duration
	ExpirySweepCron string
	SeedDemo        bool
	BodyLimit       int
	RateLimitPerMin int
}

func Load() Config {
	// .env is optional; real env vars win.
	_ = godotenv.Load()

	cfg := Config{
		Port:            getenv("PORT", "8000"),
		Env:             strings.ToLower(getenv("APP_ENV", "development")),
		DBDSN:           getenv("DB_DSN", "shopledger.db"), // sqlite file in project root
		LogLevel:        getenv("LOG_LEVEL", "info"),
		LogFile:         getenv("LOG_FILE", ""),
		RedisAddr:       getenv("REDIS_ADDR", ""),
		DigestCacheTTL:  getenvDuration("DIGEST_CACHE_TTL", time.Minute),
		ExpirySweepCron: getenv("EXPIRY_SWEEP_CRON", ""),
		SeedDemo:        getenvBool("SEED_DEMO", false),
		BodyLimit:       getenvInt("BODY_LIMIT", 1<<20),
		RateLimitPerMin: getenvInt("RATE_LIMIT_PER_MIN", 120),
	}
	log.Printf("[config] PORT=%s APP_ENV=%s DB_DSN=%s LOG_LEVEL=%s REDIS_ADDR=%s EXPIRY_SWEEP_CRON=%q",
		cfg.Port, cfg.Env, cfg.DBDSN, cfg.LogLevel, cfg.RedisAddr, cfg.ExpirySweepCron)
	return cfg
}

func (c Config) Production() bool {
	return c.Env == "production" || c.Env == "prod"
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}
