package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shard-legends/alchemy-service/internal/alchemy"
)

func TestValidateMixtureSlots(t *testing.T) {
	assert.NoError(t, ValidateMixtureSlots(nil))
	assert.NoError(t, ValidateMixtureSlots([]uuid.UUID{uuid.New(), uuid.Nil, uuid.New(), uuid.Nil}))

	err := ValidateMixtureSlots(make([]uuid.UUID, 5))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidMixture)
}

func TestValidateIngredient(t *testing.T) {
	valid := alchemy.Ingredient{
		ID:               uuid.New(),
		Name:             "Moonpetal",
		Rarity:           alchemy.RarityCommon,
		MagicSchool:      alchemy.MagicSchoolPrimal,
		PrimaryAttribute: alchemy.PropertyIllusion,
		Quantity:         2,
	}

	tests := []struct {
		name    string
		mutate  func(i *alchemy.Ingredient)
		wantErr bool
	}{
		{name: "valid", mutate: func(i *alchemy.Ingredient) {}},
		{name: "sentinel is always valid", mutate: func(i *alchemy.Ingredient) { *i = alchemy.EmptyIngredient() }},
		{name: "empty name", mutate: func(i *alchemy.Ingredient) { i.Name = " " }, wantErr: true},
		{name: "unknown rarity", mutate: func(i *alchemy.Ingredient) { i.Rarity = "MYTHIC" }, wantErr: true},
		{name: "unknown school", mutate: func(i *alchemy.Ingredient) { i.MagicSchool = "ELEMENTAL" }, wantErr: true},
		{name: "unknown attribute", mutate: func(i *alchemy.Ingredient) { i.PrimaryAttribute = "pyromancy" }, wantErr: true},
		{name: "negative quantity", mutate: func(i *alchemy.Ingredient) { i.Quantity = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ingredient := valid
			tt.mutate(&ingredient)

			err := ValidateIngredient(ingredient)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidIngredient)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePotion(t *testing.T) {
	potion := alchemy.Potion{
		Name:             "False Life",
		Rarity:           alchemy.RarityCommon,
		MagicSchool:      alchemy.MagicSchoolArcane,
		PrimaryAttribute: alchemy.PropertyAbjuration,
	}
	assert.NoError(t, ValidatePotion(potion))

	reserved := potion
	reserved.Name = alchemy.EmptyPotionName
	assert.ErrorIs(t, ValidatePotion(reserved), ErrInvalidPotion)

	noRarity := potion
	noRarity.Rarity = alchemy.RarityEmpty
	assert.ErrorIs(t, ValidatePotion(noRarity), ErrInvalidPotion)

	noPrimary := potion
	noPrimary.PrimaryAttribute = alchemy.PropertyEmpty
	assert.ErrorIs(t, ValidatePotion(noPrimary), ErrInvalidPotion)
}

func TestValidateStruct_SaveFormulaRequest(t *testing.T) {
	err := ValidateStruct(SaveFormulaRequest{})
	require.Error(t, err)
	assert.NotEmpty(t, FieldErrors(err))

	err = ValidateStruct(SaveFormulaRequest{IngredientNames: []string{"a", "b", "c", "d", "e"}})
	assert.Error(t, err)

	assert.NoError(t, ValidateStruct(SaveFormulaRequest{IngredientNames: []string{"Moonpetal"}, PotionName: "False Life"}))
}

func TestNormalizeIngredientNames(t *testing.T) {
	names := NormalizeIngredientNames([]string{"Wolfsbane", "Empty", " Ash ", "", "Wolfsbane"})
	assert.Equal(t, []string{"Ash", "Wolfsbane", "Wolfsbane"}, names)
}

func TestFormula_IsFailed(t *testing.T) {
	assert.True(t, Formula{PotionName: alchemy.EmptyPotionName}.IsFailed())
	assert.False(t, Formula{PotionName: "False Life"}.IsFailed())
}
