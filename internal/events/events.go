package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shard-legends/alchemy-service/internal/alchemy"
	"github.com/shard-legends/alchemy-service/pkg/metrics"
	"go.uber.org/zap"
)

// Типы событий живых обновлений
const (
	TypeCraftCompleted      = "craft.completed"
	TypeIngredientPurchased = "ingredient.purchased"
)

// Event - конверт события, публикуемого в канал игрока
type Event struct {
	Type       string          `json:"type"`
	PlayerID   uuid.UUID       `json:"player_id"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// CraftCompleted - полезная нагрузка события варки
type CraftCompleted struct {
	Success        bool           `json:"success"`
	PotionName     string         `json:"potion_name,omitempty"`
	PotionRarity   alchemy.Rarity `json:"potion_rarity,omitempty"`
	PotionQuantity int            `json:"potion_quantity,omitempty"`
	Consumed       []uuid.UUID    `json:"consumed"`
}

// IngredientPurchased - полезная нагрузка события покупки
type IngredientPurchased struct {
	IngredientID uuid.UUID `json:"ingredient_id"`
	Name         string    `json:"name"`
	Quantity     int       `json:"quantity"`
	Total        int       `json:"total"`
}

// Broker - транспорт pub/sub
type Broker interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Publisher публикует события игрока
type Publisher interface {
	PublishCraftCompleted(ctx context.Context, playerID uuid.UUID, payload CraftCompleted)
	PublishIngredientPurchased(ctx context.Context, playerID uuid.UUID, payload IngredientPurchased)
}

// RedisPublisher публикует события в канал <prefix><player_id>.
// Ошибки публикации только логируются.
type RedisPublisher struct {
	broker Broker
	prefix string
	logger *zap.Logger
	now    func() time.Time
}

// NewRedisPublisher создает публикатор поверх брокера
func NewRedisPublisher(broker Broker, prefix string, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{
		broker: broker,
		prefix: prefix,
		logger: logger,
		now:    time.Now,
	}
}

// Channel возвращает канал игрока
func (p *RedisPublisher) Channel(playerID uuid.UUID) string {
	return p.prefix + playerID.String()
}

func (p *RedisPublisher) PublishCraftCompleted(ctx context.Context, playerID uuid.UUID, payload CraftCompleted) {
	p.publish(ctx, playerID, TypeCraftCompleted, payload)
}

func (p *RedisPublisher) PublishIngredientPurchased(ctx context.Context, playerID uuid.UUID, payload IngredientPurchased) {
	p.publish(ctx, playerID, TypeIngredientPurchased, payload)
}

func (p *RedisPublisher) publish(ctx context.Context, playerID uuid.UUID, eventType string, payload interface{}) {
	data, err := encode(eventType, playerID, p.now().UTC(), payload)
	if err != nil {
		p.logger.Error("Failed to encode event", zap.String("type", eventType), zap.Error(err))
		metrics.RecordEvent(eventType, "error")
		return
	}

	if err := p.broker.Publish(ctx, p.Channel(playerID), data); err != nil {
		p.logger.Warn("Failed to publish event",
			zap.String("type", eventType),
			zap.String("player_id", playerID.String()),
			zap.Error(err))
		metrics.RecordEvent(eventType, "error")
		return
	}

	metrics.RecordEvent(eventType, "ok")
}

func encode(eventType string, playerID uuid.UUID, at time.Time, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return json.Marshal(Event{
		Type:       eventType,
		PlayerID:   playerID,
		OccurredAt: at,
		Payload:    raw,
	})
}

// NopPublisher не публикует ничего, используется при выключенных событиях
type NopPublisher struct{}

func (NopPublisher) PublishCraftCompleted(context.Context, uuid.UUID, CraftCompleted) {}

func (NopPublisher) PublishIngredientPurchased(context.Context, uuid.UUID, IngredientPurchased) {}
