package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// CatalogRefresher периодически перечитывает справочник зелий и прогревает кеш
type CatalogRefresher struct {
	catalog CatalogService
	logger  *zap.Logger
	config  RefresherConfig
}

// RefresherConfig конфигурация фонового обновления справочника
type RefresherConfig struct {
	// RefreshInterval интервал перечитывания справочника
	RefreshInterval time.Duration
	// RefreshTimeout ограничение на одну итерацию
	RefreshTimeout time.Duration
}

// NewCatalogRefresher создает новый сервис обновления справочника
func NewCatalogRefresher(catalog CatalogService, logger *zap.Logger, config RefresherConfig) *CatalogRefresher {
	defaults := GetDefaultRefresherConfig()
	if config.RefreshInterval <= 0 {
		config.RefreshInterval = defaults.RefreshInterval
	}
	if config.RefreshTimeout <= 0 {
		config.RefreshTimeout = defaults.RefreshTimeout
	}
	return &CatalogRefresher{
		catalog: catalog,
		logger:  logger,
		config:  config,
	}
}

// Start загружает справочник сразу и затем обновляет его по тикеру до отмены ctx
func (r *CatalogRefresher) Start(ctx context.Context) {
	ticker := time.NewTicker(r.config.RefreshInterval)
	defer ticker.Stop()

	r.logger.Info("Starting catalog refresher", zap.Duration("interval", r.config.RefreshInterval))
	r.runRefresh(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Stopping catalog refresher")
			return
		case <-ticker.C:
			r.runRefresh(ctx)
		}
	}
}

// runRefresh выполняет одну итерацию. Ошибка не останавливает цикл,
// сервис продолжает работать с ранее загруженным справочником.
func (r *CatalogRefresher) runRefresh(ctx context.Context) bool {
	refreshCtx, cancel := context.WithTimeout(ctx, r.config.RefreshTimeout)
	defer cancel()

	startTime := time.Now()
	count, err := r.catalog.Refresh(refreshCtx)
	if err != nil {
		r.logger.Error("Catalog refresh failed", zap.Error(err))
		return false
	}

	r.logger.Debug("Catalog refreshed",
		zap.Int("potions", count),
		zap.Duration("duration", time.Since(startTime)))
	return true
}

// GetDefaultRefresherConfig возвращает конфигурацию по умолчанию
func GetDefaultRefresherConfig() RefresherConfig {
	return RefresherConfig{
		RefreshInterval: 10 * time.Minute,
		RefreshTimeout:  30 * time.Second,
	}
}
