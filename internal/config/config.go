package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            string
	Backend         string // sqlite | redis | memory
	DBDSN           string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	LogFile         string
	TemplatesDir    string
	APIKey          string
	AIModel         string
	AIEndpoint      string
	AITimeout       time.Duration
	ImportStrict    bool
	SeedOnStart     bool
	DefaultMinStock int
}

func Load() Config {
	cfg := Config{
		Port:            getEnv("PORT", "8081"),
		Backend:         getEnv("STORE_BACKEND", "sqlite"),
		DBDSN:           getEnv("DB_DSN", "plenapos.db"), // sqlite file in working dir
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getInt("REDIS_DB", 0),
		LogFile:         os.Getenv("LOG_FILE"),
		TemplatesDir:    getEnv("TEMPLATES_DIR", "./web/templates"),
		APIKey:          os.Getenv("API_KEY"),
		AIModel:         getEnv("AI_MODEL", "gemini-2.5-flash"),
		AIEndpoint:      getEnv("AI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta"),
		AITimeout:       getDuration("AI_TIMEOUT", 15*time.Second),
		ImportStrict:    getBool("IMPORT_STRICT", false),
		SeedOnStart:     getBool("SEED_ON_START", true),
		DefaultMinStock: getInt("LOW_STOCK_DEFAULT", 10),
	}
	// never print the API key itself
	log.Printf("[config] PORT=%s STORE_BACKEND=%s DB_DSN=%s REDIS_ADDR=%s LOG_FILE=%s AI_MODEL=%s AI_ENABLED=%t IMPORT_STRICT=%t",
		cfg.Port, cfg.Backend, cfg.DBDSN, cfg.RedisAddr, cfg.LogFile, cfg.AIModel, cfg.APIKey != "", cfg.ImportStrict)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return n
}

func getBool(key string, def bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
