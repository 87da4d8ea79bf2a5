package storage

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shard-legends/alchemy-service/internal/alchemy"
)

// NewRepository создает новый экземпляр Repository со всеми репозиториями
func NewRepository(deps *RepositoryDependencies) *Repository {
	ingredients := NewIngredientRepository(deps)
	potions := NewPotionRepository(deps)

	return &Repository{
		Ingredient: ingredients,
		Shop:       NewShopRepository(deps),
		Potion:     potions,
		Catalog:    NewCatalogRepository(deps),
		Formula:    NewFormulaRepository(deps),
		Craft:      NewCraftRepository(deps, ingredients, potions),
	}
}

// Ключи кеша
const (
	CacheKeyPotionCatalog = "alchemy:potion_catalog"
	CacheKeyShop          = "alchemy:shop_ingredients"
)

// weightColumns - колонки весов в порядке полей alchemy.Weights
const weightColumns = `abjuration, conjuration, divination, enchantment, evocation, illusion, necromancy, transmutation`

// weightDest возвращает указатели на веса для Scan
func weightDest(w *alchemy.Weights) []interface{} {
	return []interface{}{
		&w.Abjuration,
		&w.Conjuration,
		&w.Divination,
		&w.Enchantment,
		&w.Evocation,
		&w.Illusion,
		&w.Necromancy,
		&w.Transmutation,
	}
}

// weightArgs возвращает веса как аргументы запроса
func weightArgs(w alchemy.Weights) []interface{} {
	return []interface{}{
		w.Abjuration,
		w.Conjuration,
		w.Divination,
		w.Enchantment,
		w.Evocation,
		w.Illusion,
		w.Necromancy,
		w.Transmutation,
	}
}

// isNoRows сообщает что запрос не вернул строк
func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
