package recipe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"mealplanner/internal/ingredient"
	"mealplanner/internal/meal"
)

// File is the on-disk JSON shape of a single recipe definition.
type File struct {
	Name        string            `json:"name"`
	Properties  map[string]string `json:"properties"`
	Tags        []string          `json:"tags,omitempty"`
	Ingredients []FileIngredient  `json:"ingredients"`
	Excluded    bool              `json:"excluded,omitempty"`
}

// FileIngredient is one ingredient line of a recipe definition. A unit
// of "bool" (or an omitted amount) marks a presence-only requirement.
type FileIngredient struct {
	Name   string  `json:"name"`
	Unit   string  `json:"unit"`
	Amount float64 `json:"amount,omitempty"`
}

// LoadCatalog reads every *.json recipe file in the directory and
// builds the meal catalog. Recipes flagged excluded are dropped at load
// time. Any construction-time invariant violation (unknown ingredient,
// duplicate ingredient, missing property, invalid quantity) fails the
// load with the offending file named.
func LoadCatalog(dir string, registry *ingredient.Registry) (*meal.Catalog, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list recipe files: %w", err)
	}

	var meals []*meal.Meal
	for _, path := range paths {
		file, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		if file.Excluded {
			continue
		}

		m, err := file.ToMeal(registry)
		if err != nil {
			return nil, fmt.Errorf("recipe file %s: %w", filepath.Base(path), err)
		}
		meals = append(meals, m)
	}

	catalog, err := meal.NewCatalog(meals...)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog from %s: %w", dir, err)
	}
	return catalog, nil
}

// ReadFile parses a single recipe definition file.
func ReadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe file %s: %w", path, err)
	}

	var file File
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse recipe file %s: %w", path, err)
	}
	return &file, nil
}

// ToMeal validates the recipe definition against the ingredient
// registry and builds the immutable meal.
func (f *File) ToMeal(registry *ingredient.Registry) (*meal.Meal, error) {
	quantities := make([]ingredient.Quantity, 0, len(f.Ingredients))
	for _, line := range f.Ingredients {
		ing, err := registry.FromName(line.Name)
		if err != nil {
			return nil, err
		}

		unit, err := ingredient.UnitFromString(line.Unit)
		if err != nil {
			return nil, fmt.Errorf("ingredient %q: %w", line.Name, err)
		}

		amount := line.Amount
		if unit == ingredient.UnitBool && amount == 0 {
			amount = 1
		}

		quantity, err := ingredient.NewQuantity(ing, unit, amount)
		if err != nil {
			return nil, err
		}
		quantities = append(quantities, quantity)
	}

	properties := make(map[meal.PropertyKey]string, len(f.Properties))
	for key, value := range f.Properties {
		properties[meal.PropertyKey(key)] = value
	}

	tags := make([]meal.Tag, len(f.Tags))
	for i, tag := range f.Tags {
		tags[i] = meal.Tag(tag)
	}

	return meal.New(f.Name, quantities, properties, tags...)
}

// Write saves the recipe definition into the directory, named after the
// recipe.
func (f *File) Write(dir string) (string, error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal recipe %q: %w", f.Name, err)
	}

	path := filepath.Join(dir, slugify(f.Name)+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write recipe file: %w", err)
	}
	return path, nil
}

func slugify(name string) string {
	slug := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			slug = append(slug, r)
		case r >= 'A' && r <= 'Z':
			slug = append(slug, r+('a'-'A'))
		case r == ' ', r == '-', r == '_':
			slug = append(slug, '_')
		}
	}
	return string(slug)
}
