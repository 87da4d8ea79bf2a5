package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shard-legends/alchemy-service/internal/alchemy"
)

var (
	// ErrInvalidMixture indicates that a mixture request is malformed
	ErrInvalidMixture = errors.New("invalid mixture")

	// ErrInvalidIngredient indicates that ingredient data is malformed
	ErrInvalidIngredient = errors.New("invalid ingredient")

	// ErrInvalidPotion indicates that catalog potion data is malformed
	ErrInvalidPotion = errors.New("invalid potion")
)

// validate is the validator instance
var validate = validator.New()

// ValidateStruct validates a struct using its validate tags
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// FieldErrors converts validator errors into API field errors
func FieldErrors(err error) []ValidationFieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	result := make([]ValidationFieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		result = append(result, ValidationFieldError{
			Field: strings.ToLower(fe.Field()),
			Error: fmt.Sprintf("failed on '%s' rule", fe.Tag()),
		})
	}
	return result
}

// ValidateMixtureSlots validates a raw slot list: at most four entries,
// and uuid.Nil is the only way to mark an empty slot
func ValidateMixtureSlots(slots []uuid.UUID) error {
	if len(slots) > alchemy.MixtureSlots {
		return fmt.Errorf("%w: at most %d slots allowed, got %d", ErrInvalidMixture, alchemy.MixtureSlots, len(slots))
	}
	return nil
}

// ValidateIngredient validates ingredient data before it reaches the aggregator
func ValidateIngredient(i alchemy.Ingredient) error {
	if i.IsEmpty() {
		return nil
	}
	if strings.TrimSpace(i.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidIngredient)
	}
	if !i.Rarity.IsValid() {
		return fmt.Errorf("%w: unknown rarity %q", ErrInvalidIngredient, i.Rarity)
	}
	if !i.MagicSchool.IsValid() {
		return fmt.Errorf("%w: unknown magic school %q", ErrInvalidIngredient, i.MagicSchool)
	}
	if _, ok := alchemy.ParseProperty(string(i.PrimaryAttribute)); !ok {
		return fmt.Errorf("%w: unknown primary attribute %q", ErrInvalidIngredient, i.PrimaryAttribute)
	}
	if i.Quantity < 0 {
		return fmt.Errorf("%w: quantity cannot be negative", ErrInvalidIngredient)
	}
	return nil
}

// ValidatePotion validates a catalog potion entry
func ValidatePotion(p alchemy.Potion) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidPotion)
	}
	if p.Name == alchemy.EmptyPotionName {
		return fmt.Errorf("%w: name %q is reserved", ErrInvalidPotion, p.Name)
	}
	if !p.Rarity.IsValid() || p.Rarity == alchemy.RarityEmpty {
		return fmt.Errorf("%w: invalid rarity %q for %s", ErrInvalidPotion, p.Rarity, p.Name)
	}
	if !p.MagicSchool.IsValid() {
		return fmt.Errorf("%w: unknown magic school %q for %s", ErrInvalidPotion, p.MagicSchool, p.Name)
	}
	if p.PrimaryAttribute == alchemy.PropertyEmpty {
		return fmt.Errorf("%w: primary attribute is required for %s", ErrInvalidPotion, p.Name)
	}
	return nil
}

// NormalizeIngredientNames returns a sorted copy used to compare formulas
// regardless of slot order
func NormalizeIngredientNames(names []string) []string {
	result := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || name == alchemy.EmptyIngredient().Name {
			continue
		}
		result = append(result, name)
	}
	slices.Sort(result)
	return result
}
