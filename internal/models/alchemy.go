package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shard-legends/alchemy-service/internal/alchemy"
)

// PlayerIngredient представляет запас ингредиента у игрока
type PlayerIngredient struct {
	alchemy.Ingredient
	PlayerID         uuid.UUID `json:"player_id" db:"player_id"`
	ShopIngredientID uuid.UUID `json:"shop_ingredient_id" db:"shop_ingredient_id"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time `json:"updated_at" db:"updated_at"`
}

// ShopIngredient представляет ингредиент, доступный для покупки
type ShopIngredient struct {
	ID               uuid.UUID           `json:"id" yaml:"id" db:"id"`
	Name             string              `json:"name" yaml:"name" db:"name"`
	Description      string              `json:"description" yaml:"description" db:"description"`
	Rarity           alchemy.Rarity      `json:"rarity" yaml:"rarity" db:"rarity"`
	MagicSchool      alchemy.MagicSchool `json:"magic_school" yaml:"magic_school" db:"magic_school"`
	PrimaryAttribute alchemy.Property    `json:"primary_attribute" yaml:"primary_attribute" db:"primary_attribute"`
	IsActive         bool                `json:"is_active" yaml:"is_active" db:"is_active"`
	alchemy.Weights  `yaml:",inline"`
}

// OwnedPotion представляет запас сваренного зелья у игрока
type OwnedPotion struct {
	ID              uuid.UUID `json:"id" db:"id"`
	PlayerID        uuid.UUID `json:"player_id" db:"player_id"`
	CatalogPotionID uuid.UUID `json:"catalog_potion_id" db:"catalog_potion_id"`
	Quantity        int       `json:"quantity" db:"quantity"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`

	// Поля скопированы из справочника при первой варке
	Name             string              `json:"name" db:"name"`
	Description      string              `json:"description" db:"description"`
	Rarity           alchemy.Rarity      `json:"rarity" db:"rarity"`
	MagicSchool      alchemy.MagicSchool `json:"magic_school" db:"magic_school"`
	PrimaryAttribute alchemy.Property    `json:"primary_attribute" db:"primary_attribute"`
	alchemy.Weights
}

// Formula представляет сохраненный рецепт: набор ингредиентов и результат
type Formula struct {
	ID              uuid.UUID `json:"id" db:"id"`
	PlayerID        uuid.UUID `json:"player_id" db:"player_id"`
	IngredientNames []string  `json:"ingredient_names" db:"ingredient_names"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`

	// Метаданные зелья, для неудачной варки - заглушка alchemy.EmptyPotion
	PotionName             string              `json:"potion_name" db:"potion_name"`
	PotionDescription      string              `json:"potion_description" db:"potion_description"`
	PotionRarity           alchemy.Rarity      `json:"potion_rarity" db:"potion_rarity"`
	PotionMagicSchool      alchemy.MagicSchool `json:"potion_magic_school" db:"potion_magic_school"`
	PotionPrimaryAttribute alchemy.Property    `json:"potion_primary_attribute" db:"potion_primary_attribute"`
}

// IsFailed сообщает что формула записана для неудачной варки
func (f Formula) IsFailed() bool {
	return f.PotionName == alchemy.EmptyPotionName
}

// ConsumedIngredient описывает списание одного слота котла
type ConsumedIngredient struct {
	IngredientID      uuid.UUID `json:"ingredient_id"`
	Name              string    `json:"name"`
	RemainingQuantity int       `json:"remaining_quantity"`
	Removed           bool      `json:"removed"`
}

// CraftResult - итог попытки варки
type CraftResult struct {
	Success bool `json:"success"`

	// Potion - совпавшее зелье справочника, nil при неудаче
	Potion      *alchemy.Potion           `json:"potion,omitempty"`
	OwnedPotion *OwnedPotion              `json:"owned_potion,omitempty"`
	Mixture     alchemy.Mixture           `json:"-"`
	Aggregate   alchemy.MixtureProperties `json:"aggregate"`
	Consumed    []ConsumedIngredient      `json:"consumed"`

	// Состояние котла после варки: всегда пустой котел и начальный агрегат
	ResetMixture   alchemy.Mixture           `json:"reset_mixture"`
	ResetAggregate alchemy.MixtureProperties `json:"reset_aggregate"`
}
