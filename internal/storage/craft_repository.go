package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shard-legends/alchemy-service/internal/alchemy"
	"github.com/shard-legends/alchemy-service/internal/models"
)

// craftRepository реализует CraftRepository поверх репозиториев ингредиентов и зелий
type craftRepository struct {
	db          DatabaseInterface
	metrics     MetricsInterface
	ingredients IngredientRepository
	potions     PotionRepository
}

// NewCraftRepository создает новый экземпляр единицы работы для варки
func NewCraftRepository(deps *RepositoryDependencies, ingredients IngredientRepository, potions PotionRepository) CraftRepository {
	return &craftRepository{
		db:          deps.DB,
		metrics:     deps.MetricsCollector,
		ingredients: ingredients,
		potions:     potions,
	}
}

// CommitCraft в одной транзакции списывает ингредиенты и, если potion не nil, выдает зелье.
// Списание происходит и при неудачной варке.
func (r *craftRepository) CommitCraft(ctx context.Context, playerID uuid.UUID, ingredientIDs []uuid.UUID, potion *alchemy.Potion) ([]models.ConsumedIngredient, *models.OwnedPotion, error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveDBQueryDuration("commit_craft", time.Since(start))
	}()

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	consumed, err := r.ingredients.ConsumeIngredients(ctx, tx, playerID, ingredientIDs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to consume ingredients: %w", err)
	}

	var owned *models.OwnedPotion
	if potion != nil {
		owned, err = r.potions.GrantPotion(ctx, tx, playerID, *potion)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to grant potion: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return consumed, owned, nil
}
