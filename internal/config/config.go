package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only acceptable for local sqlite development.
const DefaultJWTSecret = "dev-secret-change-me"

type Config struct {
	Port         string
	DBDriver     string
	DBDSN        string
	JWTSecret    string
	JWTTTL       time.Duration
	LogFile      string
	SeedDemo     bool
	RedisAddr    string
	RedisPass    string
	RedisDB      int
	KafkaBrokers []string
	KafkaTopic   string
	CORSOrigins  string
	CookieSecure bool
}

// Load reads the environment, after merging an optional .env file.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Println("[config] loaded .env")
	}

	cfg := Config{
		Port:         env("PORT", "8080"),
		DBDriver:     env("DB_DRIVER", "sqlite"),
		DBDSN:        env("DB_DSN", "shopfront.db"),
		JWTSecret:    env("JWT_SECRET", DefaultJWTSecret),
		JWTTTL:       envDuration("JWT_TTL", 7*24*time.Hour),
		LogFile:      env("LOG_FILE", "./shopfront.log"),
		SeedDemo:     envBool("SEED_DEMO", true),
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:      envInt("REDIS_DB", 0),
		KafkaBrokers: envList("KAFKA_BROKERS"),
		KafkaTopic:   env("KAFKA_TOPIC", "orders"),
		CORSOrigins:  env("CORS_ORIGINS", "*"),
		CookieSecure: envBool("COOKIE_SECURE", false),
	}
	log.Printf("[config] PORT=%s DB_DRIVER=%s DB_DSN=%s JWT_SECRET=%s JWT_TTL=%s LOG_FILE=%s SEED_DEMO=%t REDIS_ADDR=%s KAFKA_BROKERS=%s KAFKA_TOPIC=%s",
		cfg.Port, cfg.DBDriver, mask(cfg.DBDSN), mask(cfg.JWTSecret), cfg.JWTTTL, cfg.LogFile, cfg.SeedDemo,
		cfg.RedisAddr, strings.Join(cfg.KafkaBrokers, ","), cfg.KafkaTopic)
	if cfg.JWTSecret == DefaultJWTSecret {
		log.Println("[warn] JWT_SECRET not set; using the development default, tokens can be forged")
	}
	return cfg
}

// Validate rejects configurations that must not serve real traffic: the
// default JWT secret is refused outside sqlite.
func (c Config) Validate() error {
	if c.JWTSecret == DefaultJWTSecret && c.DBDriver != "sqlite" {
		return errors.New("JWT_SECRET must be set when DB_DRIVER is not sqlite")
	}
	if len(c.JWTSecret) < 8 {
		return errors.New("JWT_SECRET must be at least 8 characters")
	}
	return nil
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return b
}

func envInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func envList(key string) []string {
	var out []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// mask keeps only a short prefix of secrets and DSNs for logging.
func mask(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:4] + "****"
}
