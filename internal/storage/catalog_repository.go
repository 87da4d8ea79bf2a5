package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shard-legends/alchemy-service/internal/alchemy"
)

// catalogRepository реализует CatalogRepository
type catalogRepository struct {
	db       DatabaseInterface
	cache    CacheInterface
	metrics  MetricsInterface
	cacheTTL time.Duration
}

// NewCatalogRepository создает новый экземпляр репозитория справочника зелий
func NewCatalogRepository(deps *RepositoryDependencies) CatalogRepository {
	return &catalogRepository{
		db:       deps.DB,
		cache:    deps.Cache,
		metrics:  deps.MetricsCollector,
		cacheTTL: cacheTTLOrDefault(deps.CatalogCacheTTL),
	}
}

// GetCatalog возвращает справочник зелий (через кеш)
func (r *catalogRepository) GetCatalog(ctx context.Context) (alchemy.Catalog, error) {
	if potions, err := r.getCachedPotions(ctx); err == nil && potions != nil {
		r.metrics.IncCacheHit("potion_catalog")
		return alchemy.NewCatalog(potions), nil
	}
	r.metrics.IncCacheMiss("potion_catalog")

	return r.ReloadCatalog(ctx)
}

// ReloadCatalog перечитывает справочник из базы и обновляет кеш
func (r *catalogRepository) ReloadCatalog(ctx context.Context) (alchemy.Catalog, error) {
	potions, err := r.loadPotions(ctx)
	if err != nil {
		return nil, err
	}

	// Ошибку кеша не пробрасываем - справочник уже прочитан
	_ = r.setCachedPotions(ctx, potions)

	return alchemy.NewCatalog(potions), nil
}

func (r *catalogRepository) loadPotions(ctx context.Context) ([]alchemy.Potion, error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveDBQueryDuration("get_potion_catalog", time.Since(start))
	}()
	r.metrics.IncDBQuery("get_potion_catalog")

	query := `
		SELECT id, name, description, rarity, magic_school, primary_attribute,
			` + weightColumns + `
		FROM alchemy.potion_catalog
		ORDER BY sort_order, name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query potion catalog: %w", err)
	}
	defer rows.Close()

	potions := []alchemy.Potion{}
	for rows.Next() {
		var p alchemy.Potion
		dest := []interface{}{
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Rarity,
			&p.MagicSchool,
			&p.PrimaryAttribute,
		}
		dest = append(dest, weightDest(&p.Weights)...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan catalog potion: %w", err)
		}
		potions = append(potions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return potions, nil
}

// getCachedPotions читает справочник из кеша
func (r *catalogRepository) getCachedPotions(ctx context.Context) ([]alchemy.Potion, error) {
	data, err := r.cache.Get(ctx, CacheKeyPotionCatalog)
	if err != nil || data == "" {
		return nil, err
	}

	var potions []alchemy.Potion
	if err := json.Unmarshal([]byte(data), &potions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached catalog: %w", err)
	}
	return potions, nil
}

// setCachedPotions сохраняет справочник в кеш
func (r *catalogRepository) setCachedPotions(ctx context.Context, potions []alchemy.Potion) error {
	data, err := json.Marshal(potions)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	return r.cache.Set(ctx, CacheKeyPotionCatalog, string(data), r.cacheTTL)
}
