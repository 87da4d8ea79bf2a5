package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	dberrors "github.com/shard-legends/alchemy-service/internal/errors"
	"github.com/shard-legends/alchemy-service/internal/models"
)

// ingredientRepository реализует IngredientRepository
type ingredientRepository struct {
	db      DatabaseInterface
	metrics MetricsInterface
}

// NewIngredientRepository создает новый экземпляр репозитория ингредиентов
func NewIngredientRepository(deps *RepositoryDependencies) IngredientRepository {
	return &ingredientRepository{
		db:      deps.DB,
		metrics: deps.MetricsCollector,
	}
}

const playerIngredientColumns = `
	id, player_id, shop_ingredient_id, name, rarity, magic_school, primary_attribute, quantity,
	` + weightColumns + `,
	created_at, updated_at`

func scanPlayerIngredient(row Row) (models.PlayerIngredient, error) {
	var pi models.PlayerIngredient
	dest := []interface{}{
		&pi.ID,
		&pi.PlayerID,
		&pi.ShopIngredientID,
		&pi.Name,
		&pi.Rarity,
		&pi.MagicSchool,
		&pi.PrimaryAttribute,
		&pi.Quantity,
	}
	dest = append(dest, weightDest(&pi.Weights)...)
	dest = append(dest, &pi.CreatedAt, &pi.UpdatedAt)

	err := row.Scan(dest...)
	return pi, err
}

// GetPlayerIngredients возвращает все ингредиенты игрока с ненулевым количеством
func (r *ingredientRepository) GetPlayerIngredients(ctx context.Context, playerID uuid.UUID) ([]models.PlayerIngredient, error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveDBQueryDuration("get_player_ingredients", time.Since(start))
	}()
	r.metrics.IncDBQuery("get_player_ingredients")

	query := `SELECT ` + playerIngredientColumns + `
		FROM alchemy.player_ingredients
		WHERE player_id = $1 AND quantity > 0
		ORDER BY name`

	rows, err := r.db.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query player ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := []models.PlayerIngredient{}
	for rows.Next() {
		pi, err := scanPlayerIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player ingredient: %w", err)
		}
		ingredients = append(ingredients, pi)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return ingredients, nil
}

// GetPlayerIngredientsByIDs возвращает ингредиенты игрока по списку ID
func (r *ingredientRepository) GetPlayerIngredientsByIDs(ctx context.Context, playerID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]models.PlayerIngredient, error) {
	result := make(map[uuid.UUID]models.PlayerIngredient)
	if len(ids) == 0 {
		return result, nil
	}

	start := time.Now()
	defer func() {
		r.metrics.ObserveDBQueryDuration("get_player_ingredients_by_ids", time.Since(start))
	}()
	r.metrics.IncDBQuery("get_player_ingredients_by_ids")

	query := `SELECT ` + playerIngredientColumns + `
		FROM alchemy.player_ingredients
		WHERE player_id = $1 AND id = ANY($2)`

	rows, err := r.db.Query(ctx, query, playerID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query player ingredients by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		pi, err := scanPlayerIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player ingredient: %w", err)
		}
		result[pi.ID] = pi
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// AddIngredient увеличивает запас ингредиента или создает новую запись
func (r *ingredientRepository) AddIngredient(ctx context.Context, playerID uuid.UUID, shopIngredient models.ShopIngredient, quantity int) (*models.PlayerIngredient, error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveDBQueryDuration("add_ingredient", time.Since(start))
	}()
	r.metrics.IncDBQuery("add_ingredient")

	query := `
		INSERT INTO alchemy.player_ingredients (
			id, player_id, shop_ingredient_id, name, rarity, magic_school, primary_attribute, quantity,
			` + weightColumns + `
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14, $15, $16
		)
		ON CONFLICT (player_id, shop_ingredient_id)
		DO UPDATE SET quantity = alchemy.player_ingredients.quantity + EXCLUDED.quantity, updated_at = NOW()
		RETURNING ` + playerIngredientColumns

	args := []interface{}{
		uuid.New(),
		playerID,
		shopIngredient.ID,
		shopIngredient.Name,
		shopIngredient.Rarity,
		shopIngredient.MagicSchool,
		shopIngredient.PrimaryAttribute,
		quantity,
	}
	args = append(args, weightArgs(shopIngredient.Weights)...)

	pi, err := scanPlayerIngredient(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, dberrors.HandleDatabaseError(err, "add_ingredient")
	}

	return &pi, nil
}

// ConsumeIngredients списывает по одной единице на каждый слот и удаляет записи с нулевым остатком.
// Один и тот же ID может встречаться несколько раз - тогда он списывается несколько раз.
func (r *ingredientRepository) ConsumeIngredients(ctx context.Context, q Querier, playerID uuid.UUID, ids []uuid.UUID) ([]models.ConsumedIngredient, error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveDBQueryDuration("consume_ingredients", time.Since(start))
	}()

	decrementQuery := `
		UPDATE alchemy.player_ingredients
		SET quantity = quantity - 1, updated_at = NOW()
		WHERE id = $1 AND player_id = $2 AND quantity > 0
		RETURNING name, quantity`

	deleteQuery := `DELETE FROM alchemy.player_ingredients WHERE id = $1 AND player_id = $2 AND quantity = 0`

	consumed := make([]models.ConsumedIngredient, 0, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}

		r.metrics.IncDBQuery("consume_ingredient")
		item := models.ConsumedIngredient{IngredientID: id}
		err := q.QueryRow(ctx, decrementQuery, id, playerID).Scan(&item.Name, &item.RemainingQuantity)
		if err != nil {
			if isNoRows(err) {
				return nil, &dberrors.InsufficientIngredientError{
					IngredientID: id.String(),
					Requested:    1,
					Available:    0,
				}
			}
			return nil, dberrors.HandleDatabaseError(err, "consume_ingredient")
		}

		if item.RemainingQuantity == 0 {
			r.metrics.IncDBQuery("delete_ingredient")
			if err := q.Exec(ctx, deleteQuery, id, playerID); err != nil {
				return nil, dberrors.HandleDatabaseError(err, "delete_ingredient")
			}
			item.Removed = true
		}

		consumed = append(consumed, item)
	}

	return consumed, nil
}
