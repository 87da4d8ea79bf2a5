package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shard-legends/alchemy-service/internal/alchemy"
	dberrors "github.com/shard-legends/alchemy-service/internal/errors"
	"github.com/shard-legends/alchemy-service/internal/models"
)

// potionRepository реализует PotionRepository
type potionRepository struct {
	db      DatabaseInterface
	metrics MetricsInterface
}

// NewPotionRepository создает новый экземпляр репозитория зелий игроков
func NewPotionRepository(deps *RepositoryDependencies) PotionRepository {
	return &potionRepository{
		db:      deps.DB,
		metrics: deps.MetricsCollector,
	}
}

const ownedPotionColumns = `
	id, player_id, catalog_potion_id, quantity, name, description, rarity, magic_school, primary_attribute,
	` + weightColumns + `,
	created_at, updated_at`

func scanOwnedPotion(row Row) (models.OwnedPotion, error) {
	var op models.OwnedPotion
	dest := []interface{}{
		&op.ID,
		&op.PlayerID,
		&op.CatalogPotionID,
		&op.Quantity,
		&op.Name,
		&op.Description,
		&op.Rarity,
		&op.MagicSchool,
		&op.PrimaryAttribute,
	}
	dest = append(dest, weightDest(&op.Weights)...)
	dest = append(dest, &op.CreatedAt, &op.UpdatedAt)

	err := row.Scan(dest...)
	return op, err
}

// GetPlayerPotions возвращает зелья игрока
func (r *potionRepository) GetPlayerPotions(ctx context.Context, playerID uuid.UUID) ([]models.OwnedPotion, error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveDBQueryDuration("get_player_potions", time.Since(start))
	}()
	r.metrics.IncDBQuery("get_player_potions")

	query := `SELECT ` + ownedPotionColumns + `
		FROM alchemy.player_potions
		WHERE player_id = $1
		ORDER BY name`

	rows, err := r.db.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query player potions: %w", err)
	}
	defer rows.Close()

	potions := []models.OwnedPotion{}
	for rows.Next() {
		op, err := scanOwnedPotion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player potion: %w", err)
		}
		potions = append(potions, op)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return potions, nil
}

// GrantPotion находит запись зелья игрока по имени и увеличивает количество, либо создает новую
// с копией всех полей справочника
func (r *potionRepository) GrantPotion(ctx context.Context, q Querier, playerID uuid.UUID, potion alchemy.Potion) (*models.OwnedPotion, error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveDBQueryDuration("grant_potion", time.Since(start))
	}()

	r.metrics.IncDBQuery("find_player_potion")
	var existingID uuid.UUID
	findQuery := `
		SELECT id FROM alchemy.player_potions
		WHERE player_id = $1 AND name = $2
		FOR UPDATE`
	err := q.QueryRow(ctx, findQuery, playerID, potion.Name).Scan(&existingID)
	switch {
	case err == nil:
		return r.incrementPotion(ctx, q, existingID)
	case !isNoRows(err):
		return nil, dberrors.HandleDatabaseError(err, "find_player_potion")
	}

	r.metrics.IncDBQuery("create_player_potion")
	insertQuery := `
		INSERT INTO alchemy.player_potions (
			id, player_id, catalog_potion_id, quantity, name, description, rarity, magic_school, primary_attribute,
			` + weightColumns + `
		) VALUES (
			$1, $2, $3, 1, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14, $15, $16
		)
		RETURNING ` + ownedPotionColumns

	args := []interface{}{
		uuid.New(),
		playerID,
		potion.ID,
		potion.Name,
		potion.Description,
		potion.Rarity,
		potion.MagicSchool,
		potion.PrimaryAttribute,
	}
	args = append(args, weightArgs(potion.Weights)...)

	op, err := scanOwnedPotion(q.QueryRow(ctx, insertQuery, args...))
	if err != nil {
		return nil, dberrors.HandleDatabaseError(err, "create_player_potion")
	}

	return &op, nil
}

func (r *potionRepository) incrementPotion(ctx context.Context, q Querier, id uuid.UUID) (*models.OwnedPotion, error) {
	r.metrics.IncDBQuery("increment_player_potion")
	query := `
		UPDATE alchemy.player_potions
		SET quantity = quantity + 1, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + ownedPotionColumns

	op, err := scanOwnedPotion(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, dberrors.HandleDatabaseError(err, "increment_player_potion")
	}
	return &op, nil
}
