package handlers

import (
	"github.com/shard-legends/alchemy-service/internal/handlers/public"
	"github.com/shard-legends/alchemy-service/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все HTTP обработчики
type Handlers struct {
	Health  *HealthHandler
	Alchemy *public.AlchemyHandler
}

// HandlerDependencies содержит зависимости для создания handlers
type HandlerDependencies struct {
	Service *service.Service
	DB      HealthChecker
	Redis   HealthChecker
	Pool    PoolStatsProvider
	Logger  *zap.Logger
}

// NewHandlers создает новый экземпляр Handlers со всеми обработчиками
func NewHandlers(deps *HandlerDependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.DB, deps.Redis, deps.Pool),
		Alchemy: public.NewAlchemyHandler(
			deps.Service.Craft,
			deps.Service.Inventory,
			deps.Service.Catalog,
			deps.Logger,
		),
	}
}
