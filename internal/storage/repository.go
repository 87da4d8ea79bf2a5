package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shard-legends/alchemy-service/internal/alchemy"
	"github.com/shard-legends/alchemy-service/internal/models"
)

// IngredientRepository определяет интерфейс для работы с ингредиентами игроков
type IngredientRepository interface {
	// GetPlayerIngredients возвращает все ингредиенты игрока с ненулевым количеством
	GetPlayerIngredients(ctx context.Context, playerID uuid.UUID) ([]models.PlayerIngredient, error)

	// GetPlayerIngredientsByIDs возвращает ингредиенты игрока по списку ID
	GetPlayerIngredientsByIDs(ctx context.Context, playerID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]models.PlayerIngredient, error)

	// AddIngredient увеличивает запас ингредиента или создает новую запись
	AddIngredient(ctx context.Context, playerID uuid.UUID, shopIngredient models.ShopIngredient, quantity int) (*models.PlayerIngredient, error)

	// ConsumeIngredients списывает по одной единице на каждый слот и удаляет записи с нулевым остатком
	ConsumeIngredients(ctx context.Context, q Querier, playerID uuid.UUID, ids []uuid.UUID) ([]models.ConsumedIngredient, error)
}

// ShopRepository определяет интерфейс для работы с ассортиментом лавки
type ShopRepository interface {
	// GetShopIngredients возвращает активные ингредиенты лавки
	GetShopIngredients(ctx context.Context) ([]models.ShopIngredient, error)

	// GetShopIngredientByID возвращает ингредиент лавки по ID
	GetShopIngredientByID(ctx context.Context, id uuid.UUID) (*models.ShopIngredient, error)
}

// PotionRepository определяет интерфейс для работы с зельями игроков
type PotionRepository interface {
	// GetPlayerPotions возвращает зелья игрока
	GetPlayerPotions(ctx context.Context, playerID uuid.UUID) ([]models.OwnedPotion, error)

	// GrantPotion находит запись зелья игрока по имени и увеличивает количество, либо создает новую
	GrantPotion(ctx context.Context, q Querier, playerID uuid.UUID, potion alchemy.Potion) (*models.OwnedPotion, error)
}

// CatalogRepository определяет интерфейс для работы со справочником зелий
type CatalogRepository interface {
	// GetCatalog возвращает справочник зелий (через кеш)
	GetCatalog(ctx context.Context) (alchemy.Catalog, error)

	// ReloadCatalog перечитывает справочник из базы и обновляет кеш
	ReloadCatalog(ctx context.Context) (alchemy.Catalog, error)
}

// FormulaRepository определяет интерфейс для работы с сохраненными формулами
type FormulaRepository interface {
	// GetPlayerFormulas возвращает формулы игрока
	GetPlayerFormulas(ctx context.Context, playerID uuid.UUID) ([]models.Formula, error)

	// FormulaExists проверяет есть ли у игрока формула с тем же зельем и тем же набором ингредиентов
	FormulaExists(ctx context.Context, playerID uuid.UUID, potionName string, ingredientNames []string) (bool, error)

	// SaveFormula сохраняет новую формулу
	SaveFormula(ctx context.Context, formula *models.Formula) error
}

// CraftRepository определяет единицу работы для варки
type CraftRepository interface {
	// CommitCraft в одной транзакции списывает ингредиенты и, если potion не nil, выдает зелье
	CommitCraft(ctx context.Context, playerID uuid.UUID, ingredientIDs []uuid.UUID, potion *alchemy.Potion) ([]models.ConsumedIngredient, *models.OwnedPotion, error)
}

// Repository объединяет все репозитории
type Repository struct {
	Ingredient IngredientRepository
	Shop       ShopRepository
	Potion     PotionRepository
	Catalog    CatalogRepository
	Formula    FormulaRepository
	Craft      CraftRepository
}

// RepositoryDependencies содержит зависимости для создания репозиториев
type RepositoryDependencies struct {
	DB               DatabaseInterface
	Cache            CacheInterface
	MetricsCollector MetricsInterface
	CatalogCacheTTL  time.Duration
}

// Querier - общее подмножество методов базы и транзакции
type Querier interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) Row
	Query(ctx context.Context, query string, args ...interface{}) (Rows, error)
	Exec(ctx context.Context, query string, args ...interface{}) error
}

// DatabaseInterface определяет интерфейс для работы с базой данных
type DatabaseInterface interface {
	Querier
	BeginTx(ctx context.Context) (Tx, error)
	Health(ctx context.Context) error
}

// CacheInterface определяет интерфейс для работы с кешем
type CacheInterface interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, key string) error
	Health(ctx context.Context) error
}

// MetricsInterface определяет интерфейс для сбора метрик
type MetricsInterface interface {
	IncDBQuery(operation string)
	IncCacheHit(cacheType string)
	IncCacheMiss(cacheType string)
	ObserveDBQueryDuration(operation string, duration time.Duration)
}

// Row интерфейс для работы с результатом одной строки
type Row interface {
	Scan(dest ...interface{}) error
}

// Rows интерфейс для работы с результатом множества строк
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
	Close()
}

// Tx интерфейс для работы с транзакциями
type Tx interface {
	Querier
	Commit() error
	Rollback() error
}
