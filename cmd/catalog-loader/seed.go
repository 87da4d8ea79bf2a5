package main

import (
	"fmt"
	"os"

	"github.com/shard-legends/alchemy-service/internal/alchemy"
	"github.com/shard-legends/alchemy-service/internal/models"
	"gopkg.in/yaml.v3"
)

type PotionsFile struct {
	Potions []alchemy.Potion `yaml:"potions"`
}

type ShopFile struct {
	Ingredients []models.ShopIngredient `yaml:"ingredients"`
}

// readPotions читает и проверяет справочник зелий
func readPotions(path string) ([]alchemy.Potion, error) {
	var file PotionsFile
	if err := readYAML(path, &file); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(file.Potions))
	for i := range file.Potions {
		p := &file.Potions[i]
		if err := normalizeAttributes(&p.Rarity, &p.PrimaryAttribute); err != nil {
			return nil, fmt.Errorf("potion %q: %w", p.Name, err)
		}
		if err := models.ValidatePotion(*p); err != nil {
			return nil, err
		}
		if p.ID == alchemy.EmptyIngredientID {
			return nil, fmt.Errorf("potion %q: id is required", p.Name)
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("potion %q is declared twice", p.Name)
		}
		seen[p.Name] = true
	}
	return file.Potions, nil
}

// readShop читает и проверяет ассортимент лавки
func readShop(path string) ([]models.ShopIngredient, error) {
	var file ShopFile
	if err := readYAML(path, &file); err != nil {
		return nil, err
	}

	for i := range file.Ingredients {
		item := &file.Ingredients[i]
		if err := normalizeAttributes(&item.Rarity, &item.PrimaryAttribute); err != nil {
			return nil, fmt.Errorf("ingredient %q: %w", item.Name, err)
		}
		if item.ID == alchemy.EmptyIngredientID {
			return nil, fmt.Errorf("ingredient %q: id is required", item.Name)
		}
		err := models.ValidateIngredient(alchemy.Ingredient{
			ID:               item.ID,
			Name:             item.Name,
			Rarity:           item.Rarity,
			MagicSchool:      item.MagicSchool,
			PrimaryAttribute: item.PrimaryAttribute,
			Weights:          item.Weights,
		})
		if err != nil {
			return nil, err
		}
	}
	return file.Ingredients, nil
}

func normalizeAttributes(rarity *alchemy.Rarity, primary *alchemy.Property) error {
	r, ok := alchemy.ParseRarity(string(*rarity))
	if !ok || r == alchemy.RarityEmpty {
		return fmt.Errorf("unknown rarity %q", *rarity)
	}
	p, ok := alchemy.ParseProperty(string(*primary))
	if !ok {
		return fmt.Errorf("unknown primary attribute %q", *primary)
	}
	*rarity, *primary = r, p
	return nil
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
