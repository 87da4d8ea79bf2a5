package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shard-legends/alchemy-service/internal/alchemy"
	"github.com/shard-legends/alchemy-service/internal/events"
	"github.com/shard-legends/alchemy-service/internal/models"
	"github.com/shard-legends/alchemy-service/internal/storage"
	"github.com/stretchr/testify/mock"
)

// MockIngredientRepository - мок для storage.IngredientRepository
type MockIngredientRepository struct {
	mock.Mock
}

func (m *MockIngredientRepository) GetPlayerIngredients(ctx context.Context, playerID uuid.UUID) ([]models.PlayerIngredient, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PlayerIngredient), args.Error(1)
}

func (m *MockIngredientRepository) GetPlayerIngredientsByIDs(ctx context.Context, playerID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]models.PlayerIngredient, error) {
	args := m.Called(ctx, playerID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]models.PlayerIngredient), args.Error(1)
}

func (m *MockIngredientRepository) AddIngredient(ctx context.Context, playerID uuid.UUID, shopIngredient models.ShopIngredient, quantity int) (*models.PlayerIngredient, error) {
	args := m.Called(ctx, playerID, shopIngredient, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PlayerIngredient), args.Error(1)
}

func (m *MockIngredientRepository) ConsumeIngredients(ctx context.Context, q storage.Querier, playerID uuid.UUID, ids []uuid.UUID) ([]models.ConsumedIngredient, error) {
	args := m.Called(ctx, q, playerID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ConsumedIngredient), args.Error(1)
}

// MockPotionRepository - мок для storage.PotionRepository
type MockPotionRepository struct {
	mock.Mock
}

func (m *MockPotionRepository) GetPlayerPotions(ctx context.Context, playerID uuid.UUID) ([]models.OwnedPotion, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.OwnedPotion), args.Error(1)
}

func (m *MockPotionRepository) GrantPotion(ctx context.Context, q storage.Querier, playerID uuid.UUID, potion alchemy.Potion) (*models.OwnedPotion, error) {
	args := m.Called(ctx, q, playerID, potion)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.OwnedPotion), args.Error(1)
}

// MockShopRepository - мок для storage.ShopRepository
type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) GetShopIngredients(ctx context.Context) ([]models.ShopIngredient, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ShopIngredient), args.Error(1)
}

func (m *MockShopRepository) GetShopIngredientByID(ctx context.Context, id uuid.UUID) (*models.ShopIngredient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ShopIngredient), args.Error(1)
}

// MockCatalogRepository - мок для storage.CatalogRepository
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) GetCatalog(ctx context.Context) (alchemy.Catalog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(alchemy.Catalog), args.Error(1)
}

func (m *MockCatalogRepository) ReloadCatalog(ctx context.Context) (alchemy.Catalog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(alchemy.Catalog), args.Error(1)
}

// MockFormulaRepository - мок для storage.FormulaRepository
type MockFormulaRepository struct {
	mock.Mock
}

func (m *MockFormulaRepository) GetPlayerFormulas(ctx context.Context, playerID uuid.UUID) ([]models.Formula, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Formula), args.Error(1)
}

func (m *MockFormulaRepository) FormulaExists(ctx context.Context, playerID uuid.UUID, potionName string, ingredientNames []string) (bool, error) {
	args := m.Called(ctx, playerID, potionName, ingredientNames)
	return args.Bool(0), args.Error(1)
}

func (m *MockFormulaRepository) SaveFormula(ctx context.Context, formula *models.Formula) error {
	args := m.Called(ctx, formula)
	return args.Error(0)
}

// MockCraftRepository - мок для storage.CraftRepository
type MockCraftRepository struct {
	mock.Mock
}

func (m *MockCraftRepository) CommitCraft(ctx context.Context, playerID uuid.UUID, ingredientIDs []uuid.UUID, potion *alchemy.Potion) ([]models.ConsumedIngredient, *models.OwnedPotion, error) {
	args := m.Called(ctx, playerID, ingredientIDs, potion)
	var consumed []models.ConsumedIngredient
	if args.Get(0) != nil {
		consumed = args.Get(0).([]models.ConsumedIngredient)
	}
	var owned *models.OwnedPotion
	if args.Get(1) != nil {
		owned = args.Get(1).(*models.OwnedPotion)
	}
	return consumed, owned, args.Error(2)
}

// MockCache - мок для storage.CacheInterface
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, value, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Del(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Health(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockPublisher - мок для events.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishCraftCompleted(ctx context.Context, playerID uuid.UUID, payload events.CraftCompleted) {
	m.Called(ctx, playerID, payload)
}

func (m *MockPublisher) PublishIngredientPurchased(ctx context.Context, playerID uuid.UUID, payload events.IngredientPurchased) {
	m.Called(ctx, playerID, payload)
}
