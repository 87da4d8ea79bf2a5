package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shard-legends/alchemy-service/internal/alchemy"
	"github.com/shard-legends/alchemy-service/internal/events"
	"github.com/shard-legends/alchemy-service/internal/models"
	"github.com/shard-legends/alchemy-service/internal/storage"
	"go.uber.org/zap"
)

var (
	// ErrCraftInProgress возвращается, если у игрока уже идет варка
	ErrCraftInProgress = errors.New("craft already in progress")

	// ErrPotionNotFound возвращается, если зелья нет в справочнике
	ErrPotionNotFound = errors.New("potion not found in catalog")

	// ErrShopIngredientNotFound возвращается, если ингредиент не продается
	ErrShopIngredientNotFound = errors.New("shop ingredient not found")
)

// CraftService определяет интерфейс варки зелий и работы с формулами
type CraftService interface {
	// PreviewMixture вычисляет агрегат котла без побочных эффектов
	PreviewMixture(ctx context.Context, playerID uuid.UUID, slots []uuid.UUID) (alchemy.MixtureProperties, error)

	// CraftPotion варит зелье: списывает ингредиенты и выдает зелье при совпадении
	CraftPotion(ctx context.Context, playerID uuid.UUID, slots []uuid.UUID) (*models.CraftResult, error)

	// IsFormulaKnown проверяет сохранена ли уже такая формула
	IsFormulaKnown(ctx context.Context, playerID uuid.UUID, req *models.SaveFormulaRequest) (bool, error)

	// SaveFormula сохраняет формулу. Проверка "уже известна" выполняется вызывающим через IsFormulaKnown.
	SaveFormula(ctx context.Context, playerID uuid.UUID, req *models.SaveFormulaRequest) (*models.Formula, error)

	// GetFormulas возвращает формулы игрока
	GetFormulas(ctx context.Context, playerID uuid.UUID) ([]models.Formula, error)
}

// InventoryService определяет интерфейс запасов игрока и лавки
type InventoryService interface {
	GetIngredients(ctx context.Context, playerID uuid.UUID) ([]models.PlayerIngredient, error)
	GetPotions(ctx context.Context, playerID uuid.UUID) ([]models.OwnedPotion, error)
	GetShop(ctx context.Context) ([]models.ShopIngredient, error)

	// Purchase добавляет ингредиент из лавки в запас игрока
	Purchase(ctx context.Context, playerID uuid.UUID, req *models.PurchaseRequest) (*models.PlayerIngredient, error)
}

// CatalogService определяет интерфейс справочника зелий
type CatalogService interface {
	// GetCatalog возвращает загруженный справочник, при первом обращении загружает его
	GetCatalog(ctx context.Context) (alchemy.Catalog, error)

	// FindPotion ищет зелье по имени
	FindPotion(ctx context.Context, name string) (*alchemy.Potion, error)

	// Refresh перечитывает справочник из хранилища
	Refresh(ctx context.Context) (int, error)
}

// ServiceDependencies содержит зависимости для создания сервисов
type ServiceDependencies struct {
	Repository   *storage.Repository
	Cache        storage.CacheInterface
	Publisher    events.Publisher
	Logger       *zap.Logger
	CoinFlip     alchemy.CoinFlip
	CraftLockTTL time.Duration
}

// Service объединяет все сервисы
type Service struct {
	Craft     CraftService
	Inventory InventoryService
	Catalog   CatalogService
}

// NewService создает новый экземпляр Service со всеми сервисами
func NewService(deps *ServiceDependencies) *Service {
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	catalog := NewCatalogService(deps.Repository.Catalog, deps.Logger)
	return &Service{
		Craft:     NewCraftService(deps, catalog),
		Inventory: NewInventoryService(deps),
		Catalog:   catalog,
	}
}
