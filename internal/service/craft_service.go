package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shard-legends/alchemy-service/internal/alchemy"
	"github.com/shard-legends/alchemy-service/internal/events"
	dberrors "github.com/shard-legends/alchemy-service/internal/errors"
	"github.com/shard-legends/alchemy-service/internal/models"
	"github.com/shard-legends/alchemy-service/internal/storage"
	"github.com/shard-legends/alchemy-service/pkg/metrics"
	"go.uber.org/zap"
)

// craftLockKeyPrefix - префикс ключа блокировки варки игрока
const craftLockKeyPrefix = "craft_lock:"

const defaultCraftLockTTL = 10 * time.Second

// craftService реализует CraftService
type craftService struct {
	ingredients storage.IngredientRepository
	formulas    storage.FormulaRepository
	craft       storage.CraftRepository
	cache       storage.CacheInterface
	catalog     CatalogService
	matcher     *alchemy.Matcher
	publisher   events.Publisher
	logger      *zap.Logger
	lockTTL     time.Duration
}

// NewCraftService создает новый сервис варки
func NewCraftService(deps *ServiceDependencies, catalog CatalogService) CraftService {
	lockTTL := deps.CraftLockTTL
	if lockTTL <= 0 {
		lockTTL = defaultCraftLockTTL
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &craftService{
		ingredients: deps.Repository.Ingredient,
		formulas:    deps.Repository.Formula,
		craft:       deps.Repository.Craft,
		cache:       deps.Cache,
		catalog:     catalog,
		matcher:     alchemy.NewMatcher(deps.CoinFlip),
		publisher:   publisher,
		logger:      logger,
		lockTTL:     lockTTL,
	}
}

// PreviewMixture вычисляет агрегат котла без побочных эффектов
func (s *craftService) PreviewMixture(ctx context.Context, playerID uuid.UUID, slots []uuid.UUID) (alchemy.MixtureProperties, error) {
	mixture, err := s.resolveMixture(ctx, playerID, slots)
	if err != nil {
		return alchemy.InitialAggregate(), err
	}

	agg := alchemy.ComputeAggregate(mixture[:])
	metrics.RecordAggregate(string(agg.Rarity))
	return agg, nil
}

// CraftPotion варит зелье.
//
// Ингредиенты списываются при любом исходе, зелье выдается только при совпадении.
// Списание и выдача выполняются в одной транзакции.
func (s *craftService) CraftPotion(ctx context.Context, playerID uuid.UUID, slots []uuid.UUID) (*models.CraftResult, error) {
	release, err := s.acquireLock(ctx, playerID)
	if err != nil {
		if errors.Is(err, ErrCraftInProgress) {
			metrics.RecordCraft(metrics.CraftOutcomeInProgress)
		}
		return nil, err
	}
	defer release()

	mixture, err := s.resolveMixture(ctx, playerID, slots)
	if err != nil {
		return nil, err
	}

	catalog, err := s.catalog.GetCatalog(ctx)
	if err != nil {
		metrics.RecordCraft(metrics.CraftOutcomeError)
		return nil, err
	}

	agg := alchemy.ComputeAggregate(mixture[:])
	metrics.RecordAggregate(string(agg.Rarity))
	potion, matched := s.matcher.Match(agg, catalog)

	result := &models.CraftResult{
		Success:        matched,
		Potion:         potion,
		Mixture:        mixture,
		Aggregate:      agg,
		Consumed:       []models.ConsumedIngredient{},
		ResetMixture:   alchemy.EmptyMixture(),
		ResetAggregate: alchemy.InitialAggregate(),
	}

	ids := contributorIDs(mixture)
	if len(ids) > 0 {
		consumed, owned, err := s.craft.CommitCraft(ctx, playerID, ids, potion)
		if err != nil {
			metrics.RecordCraft(metrics.CraftOutcomeError)
			return nil, fmt.Errorf("failed to commit craft: %w", err)
		}
		result.Consumed = consumed
		result.OwnedPotion = owned
		metrics.RecordIngredientsConsumed(len(consumed))
	}

	craftEvent := events.CraftCompleted{Success: matched, Consumed: ids}
	if matched {
		metrics.RecordCraft(metrics.CraftOutcomeSuccess)
		metrics.RecordPotionGranted(potion.Name, string(potion.Rarity))
		craftEvent.PotionName = potion.Name
		craftEvent.PotionRarity = potion.Rarity
		if result.OwnedPotion != nil {
			craftEvent.PotionQuantity = result.OwnedPotion.Quantity
		}
	} else {
		metrics.RecordCraft(metrics.CraftOutcomeFailure)
	}
	s.publisher.PublishCraftCompleted(ctx, playerID, craftEvent)

	s.logger.Info("Craft completed",
		zap.String("player_id", playerID.String()),
		zap.Bool("success", matched),
		zap.String("rarity", string(agg.Rarity)),
		zap.String("primary_attribute", string(agg.PrimaryAttribute)),
		zap.Int("consumed", len(result.Consumed)))

	return result, nil
}

// IsFormulaKnown проверяет сохранена ли уже такая формула
func (s *craftService) IsFormulaKnown(ctx context.Context, playerID uuid.UUID, req *models.SaveFormulaRequest) (bool, error) {
	potion, err := s.formulaPotion(ctx, req.PotionName)
	if err != nil {
		return false, err
	}

	known, err := s.formulas.FormulaExists(ctx, playerID, potion.Name, req.IngredientNames)
	if err != nil {
		return false, fmt.Errorf("failed to check formula: %w", err)
	}
	return known, nil
}

// SaveFormula сохраняет формулу. Для неудачной варки используется заглушка зелья.
func (s *craftService) SaveFormula(ctx context.Context, playerID uuid.UUID, req *models.SaveFormulaRequest) (*models.Formula, error) {
	names := models.NormalizeIngredientNames(req.IngredientNames)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: formula needs at least one ingredient", models.ErrInvalidMixture)
	}
	if len(names) > alchemy.MixtureSlots {
		return nil, fmt.Errorf("%w: at most %d ingredients allowed", models.ErrInvalidMixture, alchemy.MixtureSlots)
	}

	potion, err := s.formulaPotion(ctx, req.PotionName)
	if err != nil {
		return nil, err
	}

	formula := &models.Formula{
		PlayerID:               playerID,
		IngredientNames:        names,
		PotionName:             potion.Name,
		PotionDescription:      potion.Description,
		PotionRarity:           potion.Rarity,
		PotionMagicSchool:      potion.MagicSchool,
		PotionPrimaryAttribute: potion.PrimaryAttribute,
	}
	if err := s.formulas.SaveFormula(ctx, formula); err != nil {
		return nil, fmt.Errorf("failed to save formula: %w", err)
	}

	s.logger.Info("Formula saved",
		zap.String("player_id", playerID.String()),
		zap.String("potion", formula.PotionName),
		zap.Strings("ingredients", names))

	return formula, nil
}

// GetFormulas возвращает формулы игрока
func (s *craftService) GetFormulas(ctx context.Context, playerID uuid.UUID) ([]models.Formula, error) {
	formulas, err := s.formulas.GetPlayerFormulas(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get formulas: %w", err)
	}
	return formulas, nil
}

// formulaPotion возвращает зелье справочника либо заглушку для пустого имени
func (s *craftService) formulaPotion(ctx context.Context, name string) (alchemy.Potion, error) {
	if name == "" || name == alchemy.EmptyPotionName {
		return alchemy.EmptyPotion(), nil
	}
	potion, err := s.catalog.FindPotion(ctx, name)
	if err != nil {
		return alchemy.Potion{}, err
	}
	return *potion, nil
}

// resolveMixture раскладывает слоты по запасам игрока.
// uuid.Nil - пустой слот; повтор одного ID требует соответствующего количества.
func (s *craftService) resolveMixture(ctx context.Context, playerID uuid.UUID, slots []uuid.UUID) (alchemy.Mixture, error) {
	mixture := alchemy.EmptyMixture()
	if err := models.ValidateMixtureSlots(slots); err != nil {
		return mixture, err
	}

	uses := make(map[uuid.UUID]int)
	ids := make([]uuid.UUID, 0, len(slots))
	for _, id := range slots {
		if id == alchemy.EmptyIngredientID {
			continue
		}
		if uses[id] == 0 {
			ids = append(ids, id)
		}
		uses[id]++
	}
	if len(ids) == 0 {
		return mixture, nil
	}

	owned, err := s.ingredients.GetPlayerIngredientsByIDs(ctx, playerID, ids)
	if err != nil {
		return mixture, fmt.Errorf("failed to load mixture ingredients: %w", err)
	}

	for _, id := range ids {
		item, ok := owned[id]
		if !ok {
			return mixture, fmt.Errorf("%w: ingredient %s is not owned by player", models.ErrInvalidMixture, id)
		}
		if item.Quantity < uses[id] {
			return mixture, &dberrors.InsufficientIngredientError{
				IngredientID: id.String(),
				Name:         item.Name,
				Requested:    uses[id],
				Available:    item.Quantity,
			}
		}
		if err := models.ValidateIngredient(item.Ingredient); err != nil {
			return mixture, err
		}
	}

	for i, id := range slots {
		if id != alchemy.EmptyIngredientID {
			mixture[i] = owned[id].Ingredient
		}
	}
	return mixture, nil
}

// acquireLock захватывает блокировку варки игрока и возвращает функцию освобождения
func (s *craftService) acquireLock(ctx context.Context, playerID uuid.UUID) (func(), error) {
	key := craftLockKeyPrefix + playerID.String()
	acquired, err := s.cache.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339Nano), s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire craft lock: %w", err)
	}
	if !acquired {
		return nil, ErrCraftInProgress
	}

	return func() {
		if err := s.cache.Del(context.WithoutCancel(ctx), key); err != nil {
			s.logger.Warn("Failed to release craft lock", zap.String("player_id", playerID.String()), zap.Error(err))
		}
	}, nil
}

// contributorIDs возвращает ID непустых слотов в порядке слотов
func contributorIDs(mixture alchemy.Mixture) []uuid.UUID {
	ids := make([]uuid.UUID, 0, alchemy.MixtureSlots)
	for _, ingredient := range mixture.Contributors() {
		ids = append(ids, ingredient.ID)
	}
	return ids
}
