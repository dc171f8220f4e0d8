package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Common contains Elasticsearch parameters shared by every service that touches snapshots.
type Common struct {
	ElasticsearchAddr  string
	ElasticsearchIndex string
}

// Kafka describes the saved-snapshot topic.
type Kafka struct {
	KafkaBrokers []string
	KafkaTopic   string
}

// API holds configuration for the insights provider.
type API struct {
	Common
	Kafka
	BindAddr      string
	InsightsDelay time.Duration
	SearchDelay   time.Duration
	WeatherDelay  time.Duration
	DefaultPage   int
	MaxPage       int
	CacheBackend  string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RateLimit     float64
	RateBurst     int
	RateIdleTTL   time.Duration
}

// Worker holds configuration for the Kafka -> Elasticsearch snapshot worker.
type Worker struct {
	Common
	Kafka
	KafkaConsumer    string
	KeywordLimit     int
	KeywordMinLength int
	DedupeCapacity   int
	DedupeTTL        time.Duration
	BatchSize        int
}

// Retention configures the snapshot cleanup loop.
type Retention struct {
	Common
	Interval  time.Duration
	MaxAge    time.Duration
	BatchSize int
}

// Dashboard configures the dashboard backend.
type Dashboard struct {
	BindAddr        string
	ProviderURL     string
	ProviderTimeout time.Duration
	DefaultLocation string
	SessionTTL      time.Duration
	ErrorScope      string
}

const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"

	ErrorScopeWeather = "weather"
	ErrorScopeAll     = "all"
)

func loadCommon() Common {
	return Common{
		ElasticsearchAddr:  getEnv("ELASTICSEARCH_ADDR", "http://elasticsearch:9200"),
		ElasticsearchIndex: getEnv("ELASTICSEARCH_INDEX", "insight_snapshots"),
	}
}

func loadKafka(defaultBrokers string) Kafka {
	return Kafka{
		KafkaBrokers: splitAndTrim(getEnv("KAFKA_BROKERS", defaultBrokers)),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "insights_saved"),
	}
}

// LoadAPI builds an API config from environment variables and an optional .env file.
// KAFKA_BROKERS may be left empty, in which case saved snapshots are indexed directly.
func LoadAPI() (*API, error) {
	loadDotEnv()

	bind := getEnv("API_BIND_ADDR", "")
	if bind == "" {
		bind = "0.0.0.0:" + getEnv("PORT", "3001")
	}

	c := &API{
		Common:        loadCommon(),
		Kafka:         loadKafka(""),
		BindAddr:      bind,
		InsightsDelay: getDuration("API_INSIGHTS_DELAY", "1200ms"),
		SearchDelay:   getDuration("API_SEARCH_DELAY", "800ms"),
		WeatherDelay:  getDuration("API_WEATHER_DELAY", "500ms"),
		DefaultPage:   getInt("API_PAGE_SIZE", 20),
		MaxPage:       getInt("API_MAX_PAGE_SIZE", 100),
		CacheBackend:  strings.ToLower(getEnv("API_CACHE_BACKEND", CacheMemory)),
		CacheTTL:      getDuration("API_CACHE_TTL", "1m"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),
		RateLimit:     getFloat("API_RATE_LIMIT", 10),
		RateBurst:     getInt("API_RATE_BURST", 20),
		RateIdleTTL:   getDuration("API_RATE_IDLE_TTL", "10m"),
	}

	if c.DefaultPage <= 0 {
		return nil, fmt.Errorf("API_PAGE_SIZE must be positive")
	}
	if c.MaxPage <= 0 {
		return nil, fmt.Errorf("API_MAX_PAGE_SIZE must be positive")
	}
	if c.DefaultPage > c.MaxPage {
		return nil, fmt.Errorf("API_PAGE_SIZE cannot exceed API_MAX_PAGE_SIZE")
	}
	if c.InsightsDelay < 0 || c.SearchDelay < 0 || c.WeatherDelay < 0 {
		return nil, fmt.Errorf("simulated delays cannot be negative")
	}
	switch c.CacheBackend {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		return nil, fmt.Errorf("API_CACHE_BACKEND must be one of memory, redis, none")
	}
	if c.RateLimit <= 0 {
		return nil, fmt.Errorf("API_RATE_LIMIT must be positive")
	}
	if c.RateBurst <= 0 {
		return nil, fmt.Errorf("API_RATE_BURST must be positive")
	}

	return c, nil
}

// LoadWorker builds a Worker config from environment variables.
func LoadWorker() (*Worker, error) {
	loadDotEnv()

	c := &Worker{
		Common:           loadCommon(),
		Kafka:            loadKafka("kafka:9092"),
		KafkaConsumer:    getEnv("KAFKA_CONSUMER_GROUP", "insights-worker"),
		KeywordLimit:     getInt("WORKER_KEYWORD_LIMIT", 8),
		KeywordMinLength: getInt("WORKER_KEYWORD_MIN_LEN", 4),
		DedupeCapacity:   getInt("WORKER_DEDUPE_CAPACITY", 20000),
		DedupeTTL:        getDuration("WORKER_DEDUPE_TTL", "24h"),
		BatchSize:        getInt("WORKER_BATCH_SIZE", 10),
	}

	if len(c.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS must contain at least one broker")
	}
	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("WORKER_BATCH_SIZE must be positive")
	}
	if c.DedupeCapacity <= 0 {
		return nil, fmt.Errorf("WORKER_DEDUPE_CAPACITY must be positive")
	}
	if c.KeywordLimit <= 0 {
		return nil, fmt.Errorf("WORKER_KEYWORD_LIMIT must be positive")
	}
	if c.KeywordMinLength < 0 {
		return nil, fmt.Errorf("WORKER_KEYWORD_MIN_LEN cannot be negative")
	}

	return c, nil
}

// LoadRetention builds a Retention config from environment variables.
func LoadRetention() (*Retention, error) {
	loadDotEnv()

	c := &Retention{
		Common:    loadCommon(),
		Interval:  getDuration("RETENTION_CRON", "24h"),
		MaxAge:    getDuration("RETENTION_MAX_AGE", "720h"),
		BatchSize: getInt("RETENTION_BATCH_SIZE", 500),
	}

	if c.MaxAge <= 0 {
		return nil, fmt.Errorf("RETENTION_MAX_AGE must be positive")
	}
	if c.Interval <= 0 {
		return nil, fmt.Errorf("RETENTION_CRON must be positive")
	}
	if c.BatchSize <= 0 {
		return nil, fmt.Errorf("RETENTION_BATCH_SIZE must be positive")
	}

	return c, nil
}

// LoadDashboard builds a Dashboard config from environment variables.
func LoadDashboard() (*Dashboard, error) {
	loadDotEnv()

	c := &Dashboard{
		BindAddr:        getEnv("DASHBOARD_BIND_ADDR", "0.0.0.0:3000"),
		ProviderURL:     strings.TrimRight(getEnv("DASHBOARD_PROVIDER_URL", "http://localhost:3001"), "/"),
		ProviderTimeout: getDuration("DASHBOARD_PROVIDER_TIMEOUT", "10s"),
		DefaultLocation: getEnv("DASHBOARD_DEFAULT_LOCATION", "Kingston"),
		SessionTTL:      getDuration("DASHBOARD_SESSION_TTL", "30m"),
		ErrorScope:      strings.ToLower(getEnv("DASHBOARD_ERROR_SCOPE", ErrorScopeWeather)),
	}

	if c.ProviderTimeout <= 0 {
		return nil, fmt.Errorf("DASHBOARD_PROVIDER_TIMEOUT must be positive")
	}
	if c.SessionTTL <= 0 {
		return nil, fmt.Errorf("DASHBOARD_SESSION_TTL must be positive")
	}
	if c.ErrorScope != ErrorScopeWeather && c.ErrorScope != ErrorScopeAll {
		return nil, fmt.Errorf("DASHBOARD_ERROR_SCOPE must be weather or all")
	}

	return c, nil
}

func loadDotEnv() {
	// A missing .env file is the normal case outside local development.
	_ = godotenv.Load()
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key, fallback string) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, fallback)); err == nil {
		return d
	}
	d, err := time.ParseDuration(fallback)
	if err != nil {
		panic(fmt.Sprintf("invalid fallback duration %q: %v", fallback, err))
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
