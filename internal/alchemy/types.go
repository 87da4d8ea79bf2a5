package alchemy

import "strings"

// Rarity задает уровень редкости ингредиента или зелья
type Rarity string

const (
	RarityEmpty     Rarity = "EMPTY"
	RarityCommon    Rarity = "COMMON"
	RarityUncommon  Rarity = "UNCOMMON"
	RarityRare      Rarity = "RARE"
	RarityVeryRare  Rarity = "VERYRARE"
	RarityLegendary Rarity = "LEGENDARY"
)

// rarityOrder фиксирует порядок редкостей: индекс в слайсе равен рангу
var rarityOrder = []Rarity{
	RarityEmpty,
	RarityCommon,
	RarityUncommon,
	RarityRare,
	RarityVeryRare,
	RarityLegendary,
}

// Ordinal возвращает ранг редкости, неизвестные значения считаются EMPTY
func (r Rarity) Ordinal() int {
	for i, known := range rarityOrder {
		if known == r {
			return i
		}
	}
	return 0
}

// IsValid проверяет что редкость входит в известный набор
func (r Rarity) IsValid() bool {
	for _, known := range rarityOrder {
		if known == r {
			return true
		}
	}
	return false
}

// RarityAt возвращает редкость по рангу
func RarityAt(ordinal int) Rarity {
	if ordinal < 0 || ordinal >= len(rarityOrder) {
		return RarityEmpty
	}
	return rarityOrder[ordinal]
}

// ParseRarity разбирает строку без учета регистра
func ParseRarity(s string) (Rarity, bool) {
	r := Rarity(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.IsValid()
}

// MagicSchool - школа магии ингредиента, значения не упорядочены
type MagicSchool string

const (
	MagicSchoolEmpty  MagicSchool = "EMPTY"
	MagicSchoolArcane MagicSchool = "ARCANE"
	MagicSchoolDivine MagicSchool = "DIVINE"
	MagicSchoolOccult MagicSchool = "OCCULT"
	MagicSchoolPrimal MagicSchool = "PRIMAL"
)

// IsValid проверяет что школа магии известна
func (m MagicSchool) IsValid() bool {
	switch m {
	case MagicSchoolEmpty, MagicSchoolArcane, MagicSchoolDivine, MagicSchoolOccult, MagicSchoolPrimal:
		return true
	}
	return false
}

// ParseMagicSchool разбирает строку без учета регистра
func ParseMagicSchool(s string) (MagicSchool, bool) {
	m := MagicSchool(strings.ToUpper(strings.TrimSpace(s)))
	return m, m.IsValid()
}

// Property - одно из восьми магических свойств. Каноническая форма в нижнем регистре.
type Property string

const (
	PropertyEmpty         Property = "EMPTY"
	PropertyAbjuration    Property = "abjuration"
	PropertyConjuration   Property = "conjuration"
	PropertyDivination    Property = "divination"
	PropertyEnchantment   Property = "enchantment"
	PropertyEvocation     Property = "evocation"
	PropertyIllusion      Property = "illusion"
	PropertyNecromancy    Property = "necromancy"
	PropertyTransmutation Property = "transmutation"
)

// Properties перечисляет свойства в фиксированном порядке
var Properties = []Property{
	PropertyAbjuration,
	PropertyConjuration,
	PropertyDivination,
	PropertyEnchantment,
	PropertyEvocation,
	PropertyIllusion,
	PropertyNecromancy,
	PropertyTransmutation,
}

// ParseProperty принимает как "abjuration", так и "ABJURATION".
// Пустая строка и "EMPTY" дают PropertyEmpty.
func ParseProperty(s string) (Property, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(PropertyEmpty)) {
		return PropertyEmpty, true
	}
	p := Property(strings.ToLower(s))
	for _, known := range Properties {
		if known == p {
			return p, true
		}
	}
	return PropertyEmpty, false
}

// UnmarshalText нормализует регистр при декодировании JSON/YAML
func (p *Property) UnmarshalText(text []byte) error {
	parsed, ok := ParseProperty(string(text))
	if !ok {
		return &UnknownPropertyError{Value: string(text)}
	}
	*p = parsed
	return nil
}

// UnknownPropertyError возвращается при разборе неизвестного свойства
type UnknownPropertyError struct {
	Value string
}

func (e *UnknownPropertyError) Error() string {
	return "unknown magic property: " + e.Value
}

// Weights - веса восьми свойств. Веса могут быть отрицательными.
type Weights struct {
	Abjuration    int `json:"abjuration" yaml:"abjuration"`
	Conjuration   int `json:"conjuration" yaml:"conjuration"`
	Divination    int `json:"divination" yaml:"divination"`
	Enchantment   int `json:"enchantment" yaml:"enchantment"`
	Evocation     int `json:"evocation" yaml:"evocation"`
	Illusion      int `json:"illusion" yaml:"illusion"`
	Necromancy    int `json:"necromancy" yaml:"necromancy"`
	Transmutation int `json:"transmutation" yaml:"transmutation"`
}

// Get возвращает вес свойства, для EMPTY и неизвестных - 0
func (w Weights) Get(p Property) int {
	switch p {
	case PropertyAbjuration:
		return w.Abjuration
	case PropertyConjuration:
		return w.Conjuration
	case PropertyDivination:
		return w.Divination
	case PropertyEnchantment:
		return w.Enchantment
	case PropertyEvocation:
		return w.Evocation
	case PropertyIllusion:
		return w.Illusion
	case PropertyNecromancy:
		return w.Necromancy
	case PropertyTransmutation:
		return w.Transmutation
	}
	return 0
}

// Add складывает веса без ограничения снизу
func (w Weights) Add(o Weights) Weights {
	return Weights{
		Abjuration:    w.Abjuration + o.Abjuration,
		Conjuration:   w.Conjuration + o.Conjuration,
		Divination:    w.Divination + o.Divination,
		Enchantment:   w.Enchantment + o.Enchantment,
		Evocation:     w.Evocation + o.Evocation,
		Illusion:      w.Illusion + o.Illusion,
		Necromancy:    w.Necromancy + o.Necromancy,
		Transmutation: w.Transmutation + o.Transmutation,
	}
}

// IsZero сообщает что все веса равны нулю
func (w Weights) IsZero() bool {
	return w == Weights{}
}
