package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shard-legends/alchemy-service/internal/events"
	dberrors "github.com/shard-legends/alchemy-service/internal/errors"
	"github.com/shard-legends/alchemy-service/internal/models"
	"github.com/shard-legends/alchemy-service/internal/storage"
	"github.com/shard-legends/alchemy-service/pkg/metrics"
	"go.uber.org/zap"
)

// inventoryService реализует InventoryService
type inventoryService struct {
	ingredients storage.IngredientRepository
	potions     storage.PotionRepository
	shop        storage.ShopRepository
	publisher   events.Publisher
	logger      *zap.Logger
}

// NewInventoryService создает новый сервис запасов
func NewInventoryService(deps *ServiceDependencies) InventoryService {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &inventoryService{
		ingredients: deps.Repository.Ingredient,
		potions:     deps.Repository.Potion,
		shop:        deps.Repository.Shop,
		publisher:   publisher,
		logger:      logger,
	}
}

func (s *inventoryService) GetIngredients(ctx context.Context, playerID uuid.UUID) ([]models.PlayerIngredient, error) {
	ingredients, err := s.ingredients.GetPlayerIngredients(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredients: %w", err)
	}
	return ingredients, nil
}

func (s *inventoryService) GetPotions(ctx context.Context, playerID uuid.UUID) ([]models.OwnedPotion, error) {
	potions, err := s.potions.GetPlayerPotions(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get potions: %w", err)
	}
	return potions, nil
}

func (s *inventoryService) GetShop(ctx context.Context) ([]models.ShopIngredient, error) {
	items, err := s.shop.GetShopIngredients(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}
	return items, nil
}

// Purchase добавляет ингредиент из лавки в запас игрока:
// увеличивает количество существующей записи или создает новую
func (s *inventoryService) Purchase(ctx context.Context, playerID uuid.UUID, req *models.PurchaseRequest) (*models.PlayerIngredient, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", models.ErrInvalidIngredient)
	}

	item, err := s.shop.GetShopIngredientByID(ctx, req.ShopIngredientID)
	if err != nil {
		if dberrors.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrShopIngredientNotFound, req.ShopIngredientID)
		}
		return nil, fmt.Errorf("failed to get shop ingredient: %w", err)
	}
	if !item.IsActive {
		return nil, fmt.Errorf("%w: %s", ErrShopIngredientNotFound, req.ShopIngredientID)
	}

	owned, err := s.ingredients.AddIngredient(ctx, playerID, *item, req.Quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to add ingredient: %w", err)
	}

	metrics.RecordIngredientsPurchased(req.Quantity)
	s.publisher.PublishIngredientPurchased(ctx, playerID, events.IngredientPurchased{
		IngredientID: owned.ID,
		Name:         owned.Name,
		Quantity:     req.Quantity,
		Total:        owned.Quantity,
	})

	s.logger.Info("Ingredient purchased",
		zap.String("player_id", playerID.String()),
		zap.String("ingredient", owned.Name),
		zap.Int("quantity", req.Quantity),
		zap.Int("total", owned.Quantity))

	return owned, nil
}
