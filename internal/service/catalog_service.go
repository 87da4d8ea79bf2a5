package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/shard-legends/alchemy-service/internal/alchemy"
	"github.com/shard-legends/alchemy-service/internal/models"
	"github.com/shard-legends/alchemy-service/internal/storage"
	"github.com/shard-legends/alchemy-service/pkg/metrics"
	"go.uber.org/zap"
)

// catalogService держит справочник зелий в памяти.
// Справочник загружается один раз и заменяется целиком при Refresh.
type catalogService struct {
	repo   storage.CatalogRepository
	logger *zap.Logger

	mu      sync.RWMutex
	catalog alchemy.Catalog
}

// NewCatalogService создает новый сервис справочника
func NewCatalogService(repo storage.CatalogRepository, logger *zap.Logger) CatalogService {
	return &catalogService{
		repo:   repo,
		logger: logger,
	}
}

// GetCatalog возвращает загруженный справочник, при первом обращении загружает его
func (s *catalogService) GetCatalog(ctx context.Context) (alchemy.Catalog, error) {
	s.mu.RLock()
	catalog := s.catalog
	s.mu.RUnlock()
	if catalog != nil {
		return catalog, nil
	}

	loaded, err := s.repo.GetCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load potion catalog: %w", err)
	}
	return s.store(loaded), nil
}

// FindPotion ищет зелье по имени
func (s *catalogService) FindPotion(ctx context.Context, name string) (*alchemy.Potion, error) {
	catalog, err := s.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}
	for _, potion := range catalog.All() {
		if potion.Name == name {
			return &potion, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPotionNotFound, name)
}

// Refresh перечитывает справочник из базы, обновляет кеш и возвращает число зелий
func (s *catalogService) Refresh(ctx context.Context) (int, error) {
	loaded, err := s.repo.ReloadCatalog(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to reload potion catalog: %w", err)
	}
	return s.store(loaded).Size(), nil
}

// store отбрасывает некорректные записи и публикует справочник
func (s *catalogService) store(loaded alchemy.Catalog) alchemy.Catalog {
	valid := make([]alchemy.Potion, 0, loaded.Size())
	for _, potion := range loaded.All() {
		// Основное свойство в справочнике может быть записано в любом регистре
		primary, ok := alchemy.ParseProperty(string(potion.PrimaryAttribute))
		if !ok {
			s.logger.Warn("Skipping catalog potion with unknown primary attribute",
				zap.String("name", potion.Name),
				zap.String("primary_attribute", string(potion.PrimaryAttribute)))
			continue
		}
		potion.PrimaryAttribute = primary

		if err := models.ValidatePotion(potion); err != nil {
			s.logger.Warn("Skipping invalid catalog potion", zap.String("name", potion.Name), zap.Error(err))
			continue
		}
		valid = append(valid, potion)
	}

	catalog := alchemy.NewCatalog(valid)

	s.mu.Lock()
	s.catalog = catalog
	s.mu.Unlock()

	metrics.CatalogSize.Set(float64(catalog.Size()))
	return catalog
}
