package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	dberrors "github.com/shard-legends/alchemy-service/internal/errors"
	"github.com/shard-legends/alchemy-service/internal/models"
)

// shopRepository реализует ShopRepository
type shopRepository struct {
	db       DatabaseInterface
	cache    CacheInterface
	metrics  MetricsInterface
	cacheTTL time.Duration
}

// NewShopRepository создает новый экземпляр репозитория лавки
func NewShopRepository(deps *RepositoryDependencies) ShopRepository {
	return &shopRepository{
		db:       deps.DB,
		cache:    deps.Cache,
		metrics:  deps.MetricsCollector,
		cacheTTL: cacheTTLOrDefault(deps.CatalogCacheTTL),
	}
}

const shopIngredientColumns = `
	id, name, description, rarity, magic_school, primary_attribute, is_active,
	` + weightColumns

func scanShopIngredient(row Row) (models.ShopIngredient, error) {
	var si models.ShopIngredient
	dest := []interface{}{
		&si.ID,
		&si.Name,
		&si.Description,
		&si.Rarity,
		&si.MagicSchool,
		&si.PrimaryAttribute,
		&si.IsActive,
	}
	dest = append(dest, weightDest(&si.Weights)...)

	err := row.Scan(dest...)
	return si, err
}

// GetShopIngredients возвращает активные ингредиенты лавки
func (r *shopRepository) GetShopIngredients(ctx context.Context) ([]models.ShopIngredient, error) {
	if cached, err := r.cache.Get(ctx, CacheKeyShop); err == nil && cached != "" {
		var items []models.ShopIngredient
		if err := json.Unmarshal([]byte(cached), &items); err == nil {
			r.metrics.IncCacheHit("shop_ingredients")
			return items, nil
		}
	}
	r.metrics.IncCacheMiss("shop_ingredients")

	start := time.Now()
	defer func() {
		r.metrics.ObserveDBQueryDuration("get_shop_ingredients", time.Since(start))
	}()
	r.metrics.IncDBQuery("get_shop_ingredients")

	query := `SELECT ` + shopIngredientColumns + `
		FROM alchemy.shop_ingredients
		WHERE is_active = true
		ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query shop ingredients: %w", err)
	}
	defer rows.Close()

	items := []models.ShopIngredient{}
	for rows.Next() {
		si, err := scanShopIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shop ingredient: %w", err)
		}
		items = append(items, si)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	if data, err := json.Marshal(items); err == nil {
		// Ошибка кеша не должна ломать чтение
		_ = r.cache.Set(ctx, CacheKeyShop, string(data), r.cacheTTL)
	}

	return items, nil
}

// GetShopIngredientByID возвращает ингредиент лавки по ID
func (r *shopRepository) GetShopIngredientByID(ctx context.Context, id uuid.UUID) (*models.ShopIngredient, error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveDBQueryDuration("get_shop_ingredient_by_id", time.Since(start))
	}()
	r.metrics.IncDBQuery("get_shop_ingredient_by_id")

	query := `SELECT ` + shopIngredientColumns + `
		FROM alchemy.shop_ingredients
		WHERE id = $1 AND is_active = true`

	si, err := scanShopIngredient(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberrors.HandleDatabaseError(err, "get_shop_ingredient_by_id")
	}

	return &si, nil
}

func cacheTTLOrDefault(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return time.Hour
	}
	return ttl
}
