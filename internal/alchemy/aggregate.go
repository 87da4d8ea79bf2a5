package alchemy

// MixtureProperties - агрегированные свойства смеси
type MixtureProperties struct {
	Weights
	PrimaryAttribute Property      `json:"primary_attribute"`
	Rarity           Rarity        `json:"rarity"`
	MagicTypes       []MagicSchool `json:"magic_types"`
}

// InitialAggregate возвращает каноническое пустое состояние.
// Оно же означает неопределенную смесь.
func InitialAggregate() MixtureProperties {
	return MixtureProperties{
		PrimaryAttribute: PropertyEmpty,
		Rarity:           RarityEmpty,
		MagicTypes:       []MagicSchool{MagicSchoolEmpty},
	}
}

// IsEmpty сообщает что агрегат не может дать ни одного зелья
func (p MixtureProperties) IsEmpty() bool {
	return p.Rarity == RarityEmpty
}

// ComputeAggregate сводит ингредиенты к одному вектору свойств.
//
// Заглушки не участвуют ни в сумме, ни в максимуме редкости. Редкость смеси -
// максимум, а не сумма. Веса суммируются по всем ингредиентам без обрезки.
// Если максимум суммы делят два и более свойства, результатом будет
// InitialAggregate.
func ComputeAggregate(ingredients []Ingredient) MixtureProperties {
	present := contributors(ingredients)
	if len(present) == 0 {
		return InitialAggregate()
	}

	currentRarity := 0
	for _, ingredient := range present {
		if ord := ingredient.Rarity.Ordinal(); ord > currentRarity {
			currentRarity = ord
		}
	}
	rarity := RarityAt(currentRarity)

	magicTypes := make([]MagicSchool, 0, len(present))
	var sum Weights
	for _, ingredient := range present {
		if ingredient.Rarity.Ordinal() == currentRarity {
			magicTypes = append(magicTypes, ingredient.MagicSchool)
		}
		sum = sum.Add(ingredient.Weights)
	}

	primary, ok := strictMax(sum)
	if !ok {
		return InitialAggregate()
	}

	return MixtureProperties{
		Weights:          sum,
		PrimaryAttribute: primary,
		Rarity:           rarity,
		MagicTypes:       magicTypes,
	}
}

// strictMax находит единственное свойство с наибольшим весом
func strictMax(w Weights) (Property, bool) {
	best := Properties[0]
	bestValue := w.Get(best)
	ties := 1
	for _, p := range Properties[1:] {
		v := w.Get(p)
		switch {
		case v > bestValue:
			best, bestValue, ties = p, v, 1
		case v == bestValue:
			ties++
		}
	}
	if ties > 1 {
		return PropertyEmpty, false
	}
	return best, true
}
