package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы варки для меток
const (
	CraftOutcomeSuccess    = "success"
	CraftOutcomeFailure    = "failure"
	CraftOutcomeError      = "error"
	CraftOutcomeInProgress = "in_progress"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alchemy_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "alchemy_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alchemy_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"query_type"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "alchemy_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"query_type"},
	)

	CacheRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alchemy_cache_requests_total",
			Help: "Total number of cache lookups by result",
		},
		[]string{"cache", "result"},
	)

	CraftAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alchemy_craft_attempts_total",
			Help: "Total number of craft attempts by outcome",
		},
		[]string{"outcome"},
	)

	PotionsGrantedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alchemy_potions_granted_total",
			Help: "Total number of potions granted to players",
		},
		[]string{"potion", "rarity"},
	)

	IngredientsConsumedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alchemy_ingredients_consumed_total",
			Help: "Total number of ingredient units consumed by crafting",
		},
	)

	IngredientsPurchasedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alchemy_ingredients_purchased_total",
			Help: "Total number of ingredient units bought in the shop",
		},
	)

	AggregatesComputedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alchemy_aggregates_computed_total",
			Help: "Total number of mixture aggregates computed by resulting rarity",
		},
		[]string{"rarity"},
	)

	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alchemy_events_published_total",
			Help: "Total number of live update events published",
		},
		[]string{"type", "status"},
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "alchemy_catalog_potions",
			Help: "Number of potions in the loaded catalog",
		},
	)

	ServiceUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "alchemy_service_uptime_seconds",
			Help: "Time since Alchemy Service started in seconds",
		},
	)

	ServiceInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "alchemy_service_info",
			Help: "Alchemy Service information",
		},
		[]string{"version", "build_time"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordCraft(outcome string) {
	CraftAttemptsTotal.WithLabelValues(outcome).Inc()
}

func RecordPotionGranted(potion, rarity string) {
	PotionsGrantedTotal.WithLabelValues(potion, rarity).Inc()
}

func RecordIngredientsConsumed(count int) {
	IngredientsConsumedTotal.Add(float64(count))
}

func RecordIngredientsPurchased(count int) {
	IngredientsPurchasedTotal.Add(float64(count))
}

func RecordAggregate(rarity string) {
	AggregatesComputedTotal.WithLabelValues(rarity).Inc()
}

func RecordEvent(eventType, status string) {
	EventsPublishedTotal.WithLabelValues(eventType, status).Inc()
}
