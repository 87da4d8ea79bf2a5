package storage

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	dberrors "github.com/shard-legends/alchemy-service/internal/errors"
	"github.com/shard-legends/alchemy-service/internal/models"
)

// formulaRepository реализует FormulaRepository
type formulaRepository struct {
	db      DatabaseInterface
	metrics MetricsInterface
}

// NewFormulaRepository создает новый экземпляр репозитория формул
func NewFormulaRepository(deps *RepositoryDependencies) FormulaRepository {
	return &formulaRepository{
		db:      deps.DB,
		metrics: deps.MetricsCollector,
	}
}

// GetPlayerFormulas возвращает формулы игрока
func (r *formulaRepository) GetPlayerFormulas(ctx context.Context, playerID uuid.UUID) ([]models.Formula, error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveDBQueryDuration("get_player_formulas", time.Since(start))
	}()
	r.metrics.IncDBQuery("get_player_formulas")

	query := `
		SELECT id, player_id, ingredient_names, potion_name, potion_description,
			potion_rarity, potion_magic_school, potion_primary_attribute, created_at
		FROM alchemy.formulas
		WHERE player_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query formulas: %w", err)
	}
	defer rows.Close()

	formulas := []models.Formula{}
	for rows.Next() {
		var f models.Formula
		if err := rows.Scan(
			&f.ID,
			&f.PlayerID,
			&f.IngredientNames,
			&f.PotionName,
			&f.PotionDescription,
			&f.PotionRarity,
			&f.PotionMagicSchool,
			&f.PotionPrimaryAttribute,
			&f.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan formula: %w", err)
		}
		formulas = append(formulas, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return formulas, nil
}

// FormulaExists проверяет есть ли у игрока формула с тем же зельем и тем же набором ингредиентов.
// Порядок ингредиентов не важен, пустые слоты не учитываются.
func (r *formulaRepository) FormulaExists(ctx context.Context, playerID uuid.UUID, potionName string, ingredientNames []string) (bool, error) {
	start := time.Now()
	defer func() {
		r.metrics.ObserveDBQueryDuration("formula_exists", time.Since(start))
	}()
	r.metrics.IncDBQuery("formula_exists")

	query := `
		SELECT ingredient_names
		FROM alchemy.formulas
		WHERE player_id = $1 AND potion_name = $2`

	rows, err := r.db.Query(ctx, query, playerID, potionName)
	if err != nil {
		return false, fmt.Errorf("failed to query formulas: %w", err)
	}
	defer rows.Close()

	wanted := models.NormalizeIngredientNames(ingredientNames)
	for rows.Next() {
		var names []string
		if err := rows.Scan(&names); err != nil {
			return false, fmt.Errorf("failed to scan formula ingredients: %w", err)
		}
		if slices.Equal(models.NormalizeIngredientNames(names), wanted) {
			return true, nil
		}
	}

	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("rows iteration error: %w", err)
	}

	return false, nil
}

// SaveFormula сохраняет новую формулу
func (r *formulaRepository) SaveFormula(ctx context.Context, formula *models.Formula) error {
	start := time.Now()
	defer func() {
		r.metrics.ObserveDBQueryDuration("save_formula", time.Since(start))
	}()
	r.metrics.IncDBQuery("save_formula")

	if formula.ID == uuid.Nil {
		formula.ID = uuid.New()
	}
	if formula.CreatedAt.IsZero() {
		formula.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO alchemy.formulas (
			id, player_id, ingredient_names, potion_name, potion_description,
			potion_rarity, potion_magic_school, potion_primary_attribute, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)`

	err := r.db.Exec(ctx, query,
		formula.ID,
		formula.PlayerID,
		formula.IngredientNames,
		formula.PotionName,
		formula.PotionDescription,
		formula.PotionRarity,
		formula.PotionMagicSchool,
		formula.PotionPrimaryAttribute,
		formula.CreatedAt,
	)
	if err != nil {
		return dberrors.HandleDatabaseError(err, "save_formula")
	}

	return nil
}
