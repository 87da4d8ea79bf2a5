package adapters

import (
	"time"

	"github.com/shard-legends/alchemy-service/internal/storage"
	"github.com/shard-legends/alchemy-service/pkg/metrics"
)

// MetricsAdapter адаптирует metrics для storage.MetricsInterface
type MetricsAdapter struct{}

// NewMetricsAdapter создает новый адаптер для метрик
func NewMetricsAdapter() storage.MetricsInterface {
	return &MetricsAdapter{}
}

// IncDBQuery увеличивает счетчик запросов к БД
func (a *MetricsAdapter) IncDBQuery(operation string) {
	metrics.DBQueriesTotal.WithLabelValues(operation).Inc()
}

// IncCacheHit увеличивает счетчик попаданий в кеш
func (a *MetricsAdapter) IncCacheHit(cacheType string) {
	metrics.CacheRequestsTotal.WithLabelValues(cacheType, "hit").Inc()
}

// IncCacheMiss увеличивает счетчик промахов кеша
func (a *MetricsAdapter) IncCacheMiss(cacheType string) {
	metrics.CacheRequestsTotal.WithLabelValues(cacheType, "miss").Inc()
}

// ObserveDBQueryDuration записывает время выполнения запроса к БД
func (a *MetricsAdapter) ObserveDBQueryDuration(operation string, duration time.Duration) {
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
