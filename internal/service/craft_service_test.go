package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shard-legends/alchemy-service/internal/alchemy"
	"github.com/shard-legends/alchemy-service/internal/events"
	dberrors "github.com/shard-legends/alchemy-service/internal/errors"
	"github.com/shard-legends/alchemy-service/internal/models"
	"github.com/shard-legends/alchemy-service/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type craftFixture struct {
	ingredients *MockIngredientRepository
	formulas    *MockFormulaRepository
	craft       *MockCraftRepository
	catalogRepo *MockCatalogRepository
	cache       *MockCache
	publisher   *MockPublisher
	service     CraftService
}

func newCraftFixture(catalog alchemy.Catalog, flip alchemy.CoinFlip) *craftFixture {
	f := &craftFixture{
		ingredients: &MockIngredientRepository{},
		formulas:    &MockFormulaRepository{},
		craft:       &MockCraftRepository{},
		catalogRepo: &MockCatalogRepository{},
		cache:       &MockCache{},
		publisher:   &MockPublisher{},
	}

	f.catalogRepo.On("GetCatalog", mock.Anything).Return(catalog, nil).Maybe()
	f.publisher.On("PublishCraftCompleted", mock.Anything, mock.Anything, mock.Anything).Maybe()

	deps := &ServiceDependencies{
		Repository: &storage.Repository{
			Ingredient: f.ingredients,
			Formula:    f.formulas,
			Craft:      f.craft,
			Catalog:    f.catalogRepo,
		},
		Cache:     f.cache,
		Publisher: f.publisher,
		Logger:    zap.NewNop(),
		CoinFlip:  flip,
	}
	f.service = NewCraftService(deps, NewCatalogService(f.catalogRepo, zap.NewNop()))
	return f
}

func (f *craftFixture) allowLock() {
	f.cache.On("SetNX", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	f.cache.On("Del", mock.Anything, mock.Anything).Return(nil)
}

func (f *craftFixture) own(playerID uuid.UUID, items ...models.PlayerIngredient) {
	owned := make(map[uuid.UUID]models.PlayerIngredient, len(items))
	for _, item := range items {
		owned[item.ID] = item
	}
	f.ingredients.On("GetPlayerIngredientsByIDs", mock.Anything, playerID, mock.Anything).Return(owned, nil)
}

func owned(name string, quantity int, w alchemy.Weights) models.PlayerIngredient {
	return models.PlayerIngredient{
		Ingredient: alchemy.Ingredient{
			ID:               uuid.New(),
			Name:             name,
			Rarity:           alchemy.RarityCommon,
			MagicSchool:      alchemy.MagicSchoolArcane,
			PrimaryAttribute: alchemy.PropertyAbjuration,
			Quantity:         quantity,
			Weights:          w,
		},
	}
}

func falseLifeCatalog() alchemy.Catalog {
	return alchemy.NewCatalog([]alchemy.Potion{
		{
			ID:               uuid.New(),
			Name:             "False Life",
			Rarity:           alchemy.RarityCommon,
			MagicSchool:      alchemy.MagicSchoolDivine,
			PrimaryAttribute: alchemy.Property("ABJURATION"),
			Weights:          alchemy.Weights{Abjuration: 6, Evocation: 5},
		},
		{
			ID:               uuid.New(),
			Name:             "Cure Wounds",
			Rarity:           alchemy.RarityCommon,
			MagicSchool:      alchemy.MagicSchoolDivine,
			PrimaryAttribute: alchemy.PropertyEvocation,
			Weights:          alchemy.Weights{Evocation: 7},
		},
	})
}

func isPotion(name string) interface{} {
	return mock.MatchedBy(func(p *alchemy.Potion) bool {
		return p != nil && p.Name == name
	})
}

func noPotion() interface{} {
	return mock.MatchedBy(func(p *alchemy.Potion) bool {
		return p == nil
	})
}

func TestCraftService_CraftPotion_FalseLife(t *testing.T) {
	f := newCraftFixture(falseLifeCatalog(), nil)
	f.allowLock()
	playerID := uuid.New()
	root := owned("Troll Sweat", 2, alchemy.Weights{Abjuration: 6, Evocation: 5})
	f.own(playerID, root)

	f.craft.On("CommitCraft", mock.Anything, playerID, []uuid.UUID{root.ID}, isPotion("False Life")).
		Return([]models.ConsumedIngredient{{IngredientID: root.ID, Name: root.Name, RemainingQuantity: 1}},
			&models.OwnedPotion{Name: "False Life", Quantity: 1}, nil).Once()

	result, err := f.service.CraftPotion(context.Background(), playerID,
		[]uuid.UUID{root.ID, uuid.Nil, uuid.Nil, uuid.Nil})

	require.NoError(t, err)
	assert.True(t, result.Success)
	require.NotNil(t, result.Potion)
	assert.Equal(t, "False Life", result.Potion.Name)
	assert.Equal(t, alchemy.PropertyAbjuration, result.Aggregate.PrimaryAttribute)
	assert.Equal(t, alchemy.RarityCommon, result.Aggregate.Rarity)
	assert.Equal(t, []alchemy.MagicSchool{alchemy.MagicSchoolArcane}, result.Aggregate.MagicTypes)
	assert.Equal(t, 1, result.OwnedPotion.Quantity)
	assert.Len(t, result.Consumed, 1)
	assert.Equal(t, alchemy.EmptyMixture(), result.ResetMixture)
	assert.Equal(t, alchemy.InitialAggregate(), result.ResetAggregate)

	f.craft.AssertExpectations(t)
	f.cache.AssertCalled(t, "Del", mock.Anything, "craft_lock:"+playerID.String())
	f.publisher.AssertCalled(t, "PublishCraftCompleted", mock.Anything, playerID,
		mock.MatchedBy(func(e events.CraftCompleted) bool { return e.Success && e.PotionName == "False Life" }))
}

func TestCraftService_CraftPotion_NoMatchStillConsumes(t *testing.T) {
	f := newCraftFixture(falseLifeCatalog(), nil)
	f.allowLock()
	playerID := uuid.New()
	// Ничья abjuration/evocation схлопывает агрегат
	tied := owned("Mirror Dust", 1, alchemy.Weights{Abjuration: 5, Evocation: 5})
	other := owned("Ashroot", 3, alchemy.Weights{Conjuration: 1})
	f.own(playerID, tied, other)

	f.craft.On("CommitCraft", mock.Anything, playerID, []uuid.UUID{tied.ID, other.ID}, noPotion()).
		Return([]models.ConsumedIngredient{
			{IngredientID: tied.ID, Name: tied.Name, RemainingQuantity: 0, Removed: true},
			{IngredientID: other.ID, Name: other.Name, RemainingQuantity: 2},
		}, nil, nil).Once()

	result, err := f.service.CraftPotion(context.Background(), playerID,
		[]uuid.UUID{tied.ID, uuid.Nil, other.ID})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Nil(t, result.Potion)
	assert.Nil(t, result.OwnedPotion)
	assert.Equal(t, alchemy.InitialAggregate(), result.Aggregate)
	require.Len(t, result.Consumed, 2)
	assert.True(t, result.Consumed[0].Removed)
	assert.Equal(t, alchemy.EmptyMixture(), result.ResetMixture)
	f.craft.AssertExpectations(t)
}

func TestCraftService_CraftPotion_SecondCraftIncrements(t *testing.T) {
	f := newCraftFixture(falseLifeCatalog(), nil)
	f.allowLock()
	playerID := uuid.New()
	root := owned("Troll Sweat", 5, alchemy.Weights{Abjuration: 6, Evocation: 5})
	f.own(playerID, root)

	f.craft.On("CommitCraft", mock.Anything, playerID, []uuid.UUID{root.ID}, isPotion("False Life")).
		Return([]models.ConsumedIngredient{{IngredientID: root.ID}}, &models.OwnedPotion{Name: "False Life", Quantity: 1}, nil).Once()
	f.craft.On("CommitCraft", mock.Anything, playerID, []uuid.UUID{root.ID}, isPotion("False Life")).
		Return([]models.ConsumedIngredient{{IngredientID: root.ID}}, &models.OwnedPotion{Name: "False Life", Quantity: 2}, nil).Once()

	first, err := f.service.CraftPotion(context.Background(), playerID, []uuid.UUID{root.ID})
	require.NoError(t, err)
	second, err := f.service.CraftPotion(context.Background(), playerID, []uuid.UUID{root.ID})
	require.NoError(t, err)

	assert.Equal(t, 1, first.OwnedPotion.Quantity)
	assert.Equal(t, 2, second.OwnedPotion.Quantity)
	f.craft.AssertNumberOfCalls(t, "CommitCraft", 2)
}

func TestCraftService_CraftPotion_TieUsesCoinFlip(t *testing.T) {
	catalog := alchemy.NewCatalog([]alchemy.Potion{
		{Name: "First", Rarity: alchemy.RarityCommon, MagicSchool: alchemy.MagicSchoolArcane,
			PrimaryAttribute: alchemy.PropertyAbjuration, Weights: alchemy.Weights{Abjuration: 6, Evocation: 5}},
		{Name: "Second", Rarity: alchemy.RarityCommon, MagicSchool: alchemy.MagicSchoolArcane,
			PrimaryAttribute: alchemy.PropertyAbjuration, Weights: alchemy.Weights{Abjuration: 6, Evocation: 5}},
	})

	tests := []struct {
		name     string
		flip     alchemy.CoinFlip
		expected string
	}{
		{name: "keep leader", flip: func() bool { return false }, expected: "First"},
		{name: "take challenger", flip: func() bool { return true }, expected: "Second"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCraftFixture(catalog, tt.flip)
			f.allowLock()
			playerID := uuid.New()
			root := owned("Troll Sweat", 1, alchemy.Weights{Abjuration: 6, Evocation: 5})
			f.own(playerID, root)
			f.craft.On("CommitCraft", mock.Anything, playerID, mock.Anything, isPotion(tt.expected)).
				Return([]models.ConsumedIngredient{}, &models.OwnedPotion{Name: tt.expected, Quantity: 1}, nil)

			result, err := f.service.CraftPotion(context.Background(), playerID, []uuid.UUID{root.ID})

			require.NoError(t, err)
			assert.Equal(t, tt.expected, result.Potion.Name)
		})
	}
}

func TestCraftService_CraftPotion_EmptyMixture(t *testing.T) {
	f := newCraftFixture(falseLifeCatalog(), nil)
	f.allowLock()

	result, err := f.service.CraftPotion(context.Background(), uuid.New(), []uuid.UUID{uuid.Nil, uuid.Nil})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Empty(t, result.Consumed)
	assert.Equal(t, alchemy.InitialAggregate(), result.Aggregate)
	f.craft.AssertNotCalled(t, "CommitCraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.ingredients.AssertNotCalled(t, "GetPlayerIngredientsByIDs", mock.Anything, mock.Anything, mock.Anything)
}

func TestCraftService_CraftPotion_InvalidInput(t *testing.T) {
	playerID := uuid.New()
	root := owned("Troll Sweat", 1, alchemy.Weights{Abjuration: 6})

	tests := []struct {
		name   string
		slots  []uuid.UUID
		assert func(t *testing.T, err error)
	}{
		{
			name:  "too many slots",
			slots: []uuid.UUID{root.ID, uuid.Nil, uuid.Nil, uuid.Nil, uuid.Nil},
			assert: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, models.ErrInvalidMixture)
			},
		},
		{
			name:  "ingredient not owned",
			slots: []uuid.UUID{uuid.New()},
			assert: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, models.ErrInvalidMixture)
			},
		},
		{
			name:  "more uses than owned",
			slots: []uuid.UUID{root.ID, root.ID},
			assert: func(t *testing.T, err error) {
				details, ok := dberrors.IsInsufficientIngredient(err)
				require.True(t, ok)
				assert.Equal(t, 2, details.Requested)
				assert.Equal(t, 1, details.Available)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newCraftFixture(falseLifeCatalog(), nil)
			f.allowLock()
			f.own(playerID, root)

			result, err := f.service.CraftPotion(context.Background(), playerID, tt.slots)

			assert.Nil(t, result)
			tt.assert(t, err)
			f.craft.AssertNotCalled(t, "CommitCraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			f.cache.AssertCalled(t, "Del", mock.Anything, mock.Anything)
		})
	}
}

func TestCraftService_CraftPotion_InProgress(t *testing.T) {
	f := newCraftFixture(falseLifeCatalog(), nil)
	f.cache.On("SetNX", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

	result, err := f.service.CraftPotion(context.Background(), uuid.New(), []uuid.UUID{uuid.New()})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrCraftInProgress)
	f.cache.AssertNotCalled(t, "Del", mock.Anything, mock.Anything)
	f.ingredients.AssertNotCalled(t, "GetPlayerIngredientsByIDs", mock.Anything, mock.Anything, mock.Anything)
}

func TestCraftService_CraftPotion_PersistenceErrorPropagates(t *testing.T) {
	f := newCraftFixture(falseLifeCatalog(), nil)
	f.allowLock()
	playerID := uuid.New()
	root := owned("Troll Sweat", 1, alchemy.Weights{Abjuration: 6, Evocation: 5})
	f.own(playerID, root)
	dbErr := errors.New("connection reset")
	f.craft.On("CommitCraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, nil, dbErr)

	result, err := f.service.CraftPotion(context.Background(), playerID, []uuid.UUID{root.ID})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, dbErr)
	f.publisher.AssertNotCalled(t, "PublishCraftCompleted", mock.Anything, mock.Anything, mock.Anything)
	f.cache.AssertCalled(t, "Del", mock.Anything, "craft_lock:"+playerID.String())
}

func TestCraftService_PreviewMixture(t *testing.T) {
	f := newCraftFixture(falseLifeCatalog(), nil)
	playerID := uuid.New()
	a := owned("Troll Sweat", 1, alchemy.Weights{Abjuration: 6, Evocation: 5})
	b := owned("Ember Moss", 1, alchemy.Weights{Evocation: 3, Necromancy: -2})
	b.Rarity = alchemy.RarityUncommon
	b.MagicSchool = alchemy.MagicSchoolPrimal
	f.own(playerID, a, b)

	agg, err := f.service.PreviewMixture(context.Background(), playerID, []uuid.UUID{a.ID, b.ID})

	require.NoError(t, err)
	assert.Equal(t, alchemy.PropertyEvocation, agg.PrimaryAttribute)
	assert.Equal(t, 8, agg.Evocation)
	assert.Equal(t, -2, agg.Necromancy)
	assert.Equal(t, alchemy.RarityUncommon, agg.Rarity)
	assert.Equal(t, []alchemy.MagicSchool{alchemy.MagicSchoolPrimal}, agg.MagicTypes)
	f.cache.AssertNotCalled(t, "SetNX", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.craft.AssertNotCalled(t, "CommitCraft", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCraftService_SaveFormula(t *testing.T) {
	playerID := uuid.New()

	t.Run("failed craft stores empty potion", func(t *testing.T) {
		f := newCraftFixture(falseLifeCatalog(), nil)
		f.formulas.On("SaveFormula", mock.Anything, mock.AnythingOfType("*models.Formula")).Return(nil).Once()

		formula, err := f.service.SaveFormula(context.Background(), playerID, &models.SaveFormulaRequest{
			IngredientNames: []string{"Mirror Dust", "Empty", "Ashroot"},
		})

		require.NoError(t, err)
		assert.True(t, formula.IsFailed())
		assert.Equal(t, alchemy.RarityEmpty, formula.PotionRarity)
		assert.Equal(t, []string{"Ashroot", "Mirror Dust"}, formula.IngredientNames)
		f.formulas.AssertExpectations(t)
	})

	t.Run("successful craft copies catalog metadata", func(t *testing.T) {
		f := newCraftFixture(falseLifeCatalog(), nil)
		f.formulas.On("SaveFormula", mock.Anything, mock.AnythingOfType("*models.Formula")).Return(nil).Once()

		formula, err := f.service.SaveFormula(context.Background(), playerID, &models.SaveFormulaRequest{
			IngredientNames: []string{"Troll Sweat"},
			PotionName:      "False Life",
		})

		require.NoError(t, err)
		assert.Equal(t, "False Life", formula.PotionName)
		assert.Equal(t, alchemy.RarityCommon, formula.PotionRarity)
		assert.Equal(t, alchemy.PropertyAbjuration, formula.PotionPrimaryAttribute)
	})

	t.Run("unknown potion", func(t *testing.T) {
		f := newCraftFixture(falseLifeCatalog(), nil)

		_, err := f.service.SaveFormula(context.Background(), playerID, &models.SaveFormulaRequest{
			IngredientNames: []string{"Troll Sweat"},
			PotionName:      "Elixir of Nothing",
		})

		assert.ErrorIs(t, err, ErrPotionNotFound)
		f.formulas.AssertNotCalled(t, "SaveFormula", mock.Anything, mock.Anything)
	})

	t.Run("only empty slots", func(t *testing.T) {
		f := newCraftFixture(falseLifeCatalog(), nil)

		_, err := f.service.SaveFormula(context.Background(), playerID, &models.SaveFormulaRequest{
			IngredientNames: []string{"Empty", " "},
		})

		assert.ErrorIs(t, err, models.ErrInvalidMixture)
	})
}

func TestCraftService_IsFormulaKnown_UsesEmptyPotionForFailure(t *testing.T) {
	f := newCraftFixture(falseLifeCatalog(), nil)
	playerID := uuid.New()
	names := []string{"Mirror Dust"}
	f.formulas.On("FormulaExists", mock.Anything, playerID, alchemy.EmptyPotionName, names).Return(true, nil).Once()

	known, err := f.service.IsFormulaKnown(context.Background(), playerID, &models.SaveFormulaRequest{IngredientNames: names})

	require.NoError(t, err)
	assert.True(t, known)
	f.formulas.AssertExpectations(t)
}
