package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shard-legends/alchemy-service/internal/database"
	"github.com/shard-legends/alchemy-service/internal/handlers"
	customMiddleware "github.com/shard-legends/alchemy-service/internal/middleware"
)

// routerDeps - зависимости публичного и внутреннего роутеров
type routerDeps struct {
	Handlers       *handlers.Handlers
	Auth           func(http.Handler) http.Handler
	RequestTimeout time.Duration
}

func baseRouter(timeout time.Duration) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Recovery())
	r.Use(customMiddleware.Logging())
	r.Use(customMiddleware.Metrics())
	r.Use(middleware.Timeout(timeout))
	return r
}

// newPublicRouter собирает игровые маршруты /alchemy, все под JWT
func newPublicRouter(deps routerDeps) chi.Router {
	r := baseRouter(deps.RequestTimeout)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	h := deps.Handlers.Alchemy
	r.Route("/alchemy", func(r chi.Router) {
		r.Use(deps.Auth)

		r.Get("/ingredients", h.GetIngredients)
		r.Get("/potions", h.GetPotions)
		r.Get("/catalog", h.GetCatalog)

		r.Route("/shop", func(r chi.Router) {
			r.Get("/", h.GetShop)
			r.Post("/purchase", h.Purchase)
		})

		r.Post("/mixture/preview", h.PreviewMixture)
		r.Post("/craft", h.Craft)

		r.Route("/formulas", func(r chi.Router) {
			r.Get("/", h.GetFormulas)
			r.Post("/", h.SaveFormula)
		})
	})

	return r
}

// newInternalRouter собирает служебные маршруты: health, ready, metrics
func newInternalRouter(deps routerDeps) chi.Router {
	r := baseRouter(deps.RequestTimeout)

	r.Get("/health", deps.Handlers.Health.Health)
	r.Get("/ready", deps.Handlers.Health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// poolStats отдает статистику пула для /health
type poolStats struct {
	db *database.DB
}

func (p poolStats) PoolStats() handlers.DatabasePoolStats {
	stats := p.db.Stats()
	return handlers.DatabasePoolStats{
		TotalConns:    stats.TotalConns(),
		IdleConns:     stats.IdleConns(),
		AcquiredConns: stats.AcquiredConns(),
	}
}
