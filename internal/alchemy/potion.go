package alchemy

import "github.com/google/uuid"

// Potion - запись справочника зелий
type Potion struct {
	ID               uuid.UUID   `json:"id" yaml:"id"`
	Name             string      `json:"name" yaml:"name"`
	Description      string      `json:"description" yaml:"description"`
	Rarity           Rarity      `json:"rarity" yaml:"rarity"`
	MagicSchool      MagicSchool `json:"magic_school" yaml:"magic_school"`
	PrimaryAttribute Property    `json:"primary_attribute" yaml:"primary_attribute"`
	Weights          `yaml:",inline"`
}

// EmptyPotionName - имя заглушки, которой формула помечает неудачную варку
const EmptyPotionName = "Empty"

// EmptyPotion возвращает заглушку зелья
func EmptyPotion() Potion {
	return Potion{
		ID:               uuid.Nil,
		Name:             EmptyPotionName,
		Rarity:           RarityEmpty,
		MagicSchool:      MagicSchoolEmpty,
		PrimaryAttribute: PropertyEmpty,
	}
}

// IsEmpty сообщает что это заглушка
func (p Potion) IsEmpty() bool {
	return p.Name == EmptyPotionName && p.Rarity == RarityEmpty
}

// Catalog - справочник зелий, разбитый по редкости
type Catalog map[Rarity][]Potion

// NewCatalog раскладывает зелья по редкостям в исходном порядке
func NewCatalog(potions []Potion) Catalog {
	catalog := make(Catalog)
	for _, potion := range potions {
		catalog[potion.Rarity] = append(catalog[potion.Rarity], potion)
	}
	return catalog
}

// Partition возвращает зелья одной редкости
func (c Catalog) Partition(r Rarity) ([]Potion, bool) {
	potions, ok := c[r]
	if !ok || len(potions) == 0 {
		return nil, false
	}
	return potions, true
}

// All возвращает все зелья, от низкой редкости к высокой
func (c Catalog) All() []Potion {
	var all []Potion
	for _, r := range rarityOrder {
		all = append(all, c[r]...)
	}
	return all
}

// Size возвращает общее количество зелий
func (c Catalog) Size() int {
	n := 0
	for _, potions := range c {
		n += len(potions)
	}
	return n
}
