package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	StoreMemory = "memory"
	StoreMySQL  = "mysql"
)

type Config struct {
	AppEnv          string
	LogLevel        string
	HTTPAddr        string
	MetricsAddr     string
	Store           string
	FixturesPath    string
	MySQLDSN        string
	RedisAddr       string // empty disables the cache
	RedisDB         int
	RedisPass       string
	CacheTTL        time.Duration
	SnapshotRefresh string
	CRMWebhookURL   string
	CRMKey          string
	CRMRPS          int
	SeedWorkers     int
	MeiliHost       string
	MeiliKey        string
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric env value")
		}
		return def
	}
	c := Config{
		AppEnv:          env("APP_ENV", "prod"),
		LogLevel:        env("LOG_LEVEL", "info"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     env("METRICS_ADDR", ":9100"),
		Store:           strings.ToLower(env("STORE", StoreMemory)),
		FixturesPath:    os.Getenv("FIXTURES_PATH"),
		MySQLDSN:        env("MYSQL_DSN", "root:root@tcp(localhost:3306)/estate?parseTime=true&charset=utf8mb4&loc=UTC"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPass:       env("REDIS_PASSWORD", ""),
		RedisDB:         atoi("REDIS_DB", 0),
		CacheTTL:        time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		SnapshotRefresh: env("SNAPSHOT_REFRESH", "@every 5m"),
		CRMWebhookURL:   os.Getenv("CRM_WEBHOOK_URL"),
		CRMKey:          os.Getenv("CRM_API_KEY"),
		CRMRPS:          atoi("CRM_RPS", 5),
		SeedWorkers:     atoi("SEED_WORKERS", 8),
		MeiliHost:       os.Getenv("MEILI_HOST"),
		MeiliKey:        os.Getenv("MEILI_API_KEY"),
	}
	if c.Store != StoreMemory && c.Store != StoreMySQL {
		log.Warn().Str("store", c.Store).Msg("unknown STORE, using memory")
		c.Store = StoreMemory
	}
	if c.SeedWorkers <= 0 {
		c.SeedWorkers = 1
	}
	if c.CRMWebhookURL != "" && c.CRMKey == "" {
		log.Warn().Msg("CRM_API_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
