package alchemy

import "math/rand/v2"

// CoinFlip решает ничью между двумя кандидатами. true - побеждает новый кандидат.
type CoinFlip func() bool

// RandomCoinFlip - честная монетка 50/50
func RandomCoinFlip() bool {
	return rand.IntN(2) == 0
}

// Matcher подбирает зелье для агрегата смеси
type Matcher struct {
	flip CoinFlip
}

// NewMatcher создает Matcher. nil означает RandomCoinFlip.
func NewMatcher(flip CoinFlip) *Matcher {
	if flip == nil {
		flip = RandomCoinFlip
	}
	return &Matcher{flip: flip}
}

// Match см. MatchPotion
func (m *Matcher) Match(agg MixtureProperties, catalog Catalog) (*Potion, bool) {
	return MatchPotion(agg, catalog, m.flip)
}

// MatchPotion выбирает зелье из справочника.
//
// Кандидаты - зелья той же редкости с тем же основным свойством и точно таким
// же весом этого свойства. Среди них побеждает зелье с наибольшим числом
// совпавших второстепенных свойств. Свертка идет слева направо, ничья между
// текущим лидером и очередным кандидатом решается монеткой, поэтому при трех
// и более равных кандидатах распределение не равномерное.
func MatchPotion(agg MixtureProperties, catalog Catalog, flip CoinFlip) (*Potion, bool) {
	if agg.Rarity == RarityEmpty || agg.PrimaryAttribute == PropertyEmpty {
		return nil, false
	}

	partition, ok := catalog.Partition(agg.Rarity)
	if !ok {
		return nil, false
	}

	primaryValue := agg.Get(agg.PrimaryAttribute)
	var candidates []Potion
	for _, potion := range partition {
		if potion.PrimaryAttribute != agg.PrimaryAttribute {
			continue
		}
		if potion.Get(agg.PrimaryAttribute) != primaryValue {
			continue
		}
		candidates = append(candidates, potion)
	}
	if len(candidates) == 0 {
		return nil, false
	}

	if flip == nil {
		flip = RandomCoinFlip
	}

	best := candidates[0]
	bestScore := SecondaryMatches(best, agg)
	for _, candidate := range candidates[1:] {
		score := SecondaryMatches(candidate, agg)
		switch {
		case score > bestScore:
			best, bestScore = candidate, score
		case score == bestScore && flip():
			best = candidate
		}
	}

	return &best, true
}

// SecondaryMatches считает второстепенные свойства, совпавшие с агрегатом.
// Отрицательные веса приравниваются к нулю, нулевые совпадения не считаются.
func SecondaryMatches(potion Potion, agg MixtureProperties) int {
	count := 0
	for _, p := range Properties {
		if p == potion.PrimaryAttribute {
			continue
		}
		potionValue := max(potion.Get(p), 0)
		mixtureValue := max(agg.Get(p), 0)
		if potionValue == mixtureValue && potionValue != 0 {
			count++
		}
	}
	return count
}
