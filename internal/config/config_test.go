package config_test

import (
	"testing"
	"time"

	"github.com/DeafMist/livewise-insights/internal/config"
	"github.com/stretchr/testify/require"
)

func TestLoadAPIDefaults(t *testing.T) {
	for _, key := range []string{
		"API_BIND_ADDR", "PORT", "KAFKA_BROKERS", "KAFKA_TOPIC", "ELASTICSEARCH_ADDR",
		"ELASTICSEARCH_INDEX", "API_INSIGHTS_DELAY", "API_CACHE_BACKEND", "API_CACHE_TTL",
	} {
		t.Setenv(key, "")
	}

	cfg, err := config.LoadAPI()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0:3001", cfg.BindAddr)
	require.Empty(t, cfg.KafkaBrokers)
	require.Equal(t, "insights_saved", cfg.KafkaTopic)
	require.Equal(t, "http://elasticsearch:9200", cfg.ElasticsearchAddr)
	require.Equal(t, "insight_snapshots", cfg.ElasticsearchIndex)
	require.Equal(t, 1200*time.Millisecond, cfg.InsightsDelay)
	require.Equal(t, 800*time.Millisecond, cfg.SearchDelay)
	require.Equal(t, 500*time.Millisecond, cfg.WeatherDelay)
	require.Equal(t, config.CacheMemory, cfg.CacheBackend)
	require.Equal(t, time.Minute, cfg.CacheTTL)
}

func TestLoadAPIOverrides(t *testing.T) {
	t.Setenv("API_BIND_ADDR", "")
	t.Setenv("PORT", "4000")
	t.Setenv("KAFKA_BROKERS", "broker-a:29092, broker-b:29093")
	t.Setenv("API_INSIGHTS_DELAY", "10ms")
	t.Setenv("API_CACHE_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("API_RATE_LIMIT", "2.5")
	t.Setenv("API_RATE_BURST", "4")
	t.Setenv("API_RATE_IDLE_TTL", "90s")

	cfg, err := config.LoadAPI()
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0:4000", cfg.BindAddr)
	require.Equal(t, []string{"broker-a:29092", "broker-b:29093"}, cfg.KafkaBrokers)
	require.Equal(t, 10*time.Millisecond, cfg.InsightsDelay)
	require.Equal(t, config.CacheRedis, cfg.CacheBackend)
	require.Equal(t, "cache:6380", cfg.RedisAddr)
	require.Equal(t, 2, cfg.RedisDB)
	require.Equal(t, 2.5, cfg.RateLimit)
	require.Equal(t, 4, cfg.RateBurst)
	require.Equal(t, 90*time.Second, cfg.RateIdleTTL)
}

func TestLoadAPIRejectsUnknownCacheBackend(t *testing.T) {
	t.Setenv("API_CACHE_BACKEND", "memcached")

	_, err := config.LoadAPI()
	require.Error(t, err)
}

func TestLoadAPIRejectsPageSizeAboveMax(t *testing.T) {
	t.Setenv("API_PAGE_SIZE", "50")
	t.Setenv("API_MAX_PAGE_SIZE", "10")

	_, err := config.LoadAPI()
	require.Error(t, err)
}

func TestLoadWorkerDefaults(t *testing.T) {
	t.Setenv("ELASTICSEARCH_ADDR", "")
	t.Setenv("ELASTICSEARCH_INDEX", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("KAFKA_TOPIC", "")
	t.Setenv("KAFKA_CONSUMER_GROUP", "")

	cfg, err := config.LoadWorker()
	require.NoError(t, err)

	require.Equal(t, "http://elasticsearch:9200", cfg.ElasticsearchAddr)
	require.Equal(t, "insight_snapshots", cfg.ElasticsearchIndex)
	require.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	require.Equal(t, "insights_saved", cfg.KafkaTopic)
	require.Equal(t, "insights-worker", cfg.KafkaConsumer)
	require.Equal(t, 24*time.Hour, cfg.DedupeTTL)
}

func TestLoadWorkerOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker-a:29092")
	t.Setenv("KAFKA_CONSUMER_GROUP", "custom-group")
	t.Setenv("WORKER_KEYWORD_LIMIT", "12")
	t.Setenv("WORKER_KEYWORD_MIN_LEN", "5")
	t.Setenv("WORKER_DEDUPE_CAPACITY", "5")
	t.Setenv("WORKER_DEDUPE_TTL", "48h")
	t.Setenv("WORKER_BATCH_SIZE", "3")

	cfg, err := config.LoadWorker()
	require.NoError(t, err)

	require.Equal(t, "custom-group", cfg.KafkaConsumer)
	require.Equal(t, 12, cfg.KeywordLimit)
	require.Equal(t, 5, cfg.KeywordMinLength)
	require.Equal(t, 5, cfg.DedupeCapacity)
	require.Equal(t, 48*time.Hour, cfg.DedupeTTL)
	require.Equal(t, 3, cfg.BatchSize)
}

func TestLoadWorkerInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("WORKER_DEDUPE_TTL", "soon")

	cfg, err := config.LoadWorker()
	require.NoError(t, err)
	require.Equal(t, 24*time.Hour, cfg.DedupeTTL)
}

func TestLoadRetention(t *testing.T) {
	t.Setenv("ELASTICSEARCH_ADDR", "http://ret-es:9200")
	t.Setenv("ELASTICSEARCH_INDEX", "ret-index")
	t.Setenv("RETENTION_CRON", "12h")
	t.Setenv("RETENTION_MAX_AGE", "36h")
	t.Setenv("RETENTION_BATCH_SIZE", "123")

	cfg, err := config.LoadRetention()
	require.NoError(t, err)

	require.Equal(t, 12*time.Hour, cfg.Interval)
	require.Equal(t, 36*time.Hour, cfg.MaxAge)
	require.Equal(t, 123, cfg.BatchSize)
	require.Equal(t, "http://ret-es:9200", cfg.ElasticsearchAddr)
	require.Equal(t, "ret-index", cfg.ElasticsearchIndex)
}

func TestLoadDashboard(t *testing.T) {
	t.Setenv("DASHBOARD_BIND_ADDR", ":9090")
	t.Setenv("DASHBOARD_PROVIDER_URL", "http://provider:3001/")
	t.Setenv("DASHBOARD_DEFAULT_LOCATION", "")
	t.Setenv("DASHBOARD_ERROR_SCOPE", "ALL")

	cfg, err := config.LoadDashboard()
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.BindAddr)
	require.Equal(t, "http://provider:3001", cfg.ProviderURL)
	require.Equal(t, "Kingston", cfg.DefaultLocation)
	require.Equal(t, 10*time.Second, cfg.ProviderTimeout)
	require.Equal(t, 30*time.Minute, cfg.SessionTTL)
	require.Equal(t, config.ErrorScopeAll, cfg.ErrorScope)
}

func TestLoadDashboardRejectsUnknownErrorScope(t *testing.T) {
	t.Setenv("DASHBOARD_ERROR_SCOPE", "crime")

	_, err := config.LoadDashboard()
	require.Error(t, err)
}
