package alchemy

import "github.com/google/uuid"

// MixtureSlots - количество слотов в котле
const MixtureSlots = 4

// EmptyIngredientID - зарезервированный идентификатор пустого слота
var EmptyIngredientID = uuid.Nil

// Ingredient представляет реагент игрока
type Ingredient struct {
	ID               uuid.UUID   `json:"id"`
	Name             string      `json:"name"`
	Rarity           Rarity      `json:"rarity"`
	MagicSchool      MagicSchool `json:"magic_school"`
	PrimaryAttribute Property    `json:"primary_attribute"`
	Quantity         int         `json:"quantity"`
	Weights          `yaml:",inline"`
}

// EmptyIngredient возвращает ингредиент-заглушку для незанятого слота
func EmptyIngredient() Ingredient {
	return Ingredient{
		ID:               EmptyIngredientID,
		Name:             "Empty",
		Rarity:           RarityEmpty,
		MagicSchool:      MagicSchoolEmpty,
		PrimaryAttribute: PropertyEmpty,
	}
}

// IsEmpty определяет заглушку только по идентификатору, поля редкости и весов не учитываются
func (i Ingredient) IsEmpty() bool {
	return i.ID == EmptyIngredientID
}

// IsUsable сообщает что ингредиент реальный и есть в наличии
func (i Ingredient) IsUsable() bool {
	return !i.IsEmpty() && i.Quantity > 0
}

// Mixture - содержимое котла, ровно четыре слота
type Mixture [MixtureSlots]Ingredient

// EmptyMixture возвращает котел из четырех заглушек
func EmptyMixture() Mixture {
	var m Mixture
	for i := range m {
		m[i] = EmptyIngredient()
	}
	return m
}

// NewMixture раскладывает ингредиенты по слотам, остаток заполняется заглушками.
// Лишние ингредиенты сверх MixtureSlots отбрасываются.
func NewMixture(ingredients ...Ingredient) Mixture {
	m := EmptyMixture()
	for i, ingredient := range ingredients {
		if i >= MixtureSlots {
			break
		}
		m[i] = ingredient
	}
	return m
}

// Contributors возвращает реальные ингредиенты в порядке слотов
func (m Mixture) Contributors() []Ingredient {
	return contributors(m[:])
}

// IsEmpty сообщает что в котле нет ни одного реального ингредиента
func (m Mixture) IsEmpty() bool {
	return len(m.Contributors()) == 0
}

func contributors(ingredients []Ingredient) []Ingredient {
	result := make([]Ingredient, 0, len(ingredients))
	for _, ingredient := range ingredients {
		if ingredient.IsEmpty() {
			continue
		}
		result = append(result, ingredient)
	}
	return result
}
