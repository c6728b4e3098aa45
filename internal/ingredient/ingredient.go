package ingredient

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Category groups ingredients into shopping list sections. The numeric
// value is the order the section appears in a rendered list.
type Category int

const (
	CategoryFruit Category = iota + 1
	CategoryVegetable
	CategoryHerb
	CategoryCarbohydrate
	CategoryDairy
	CategoryMeat
	CategoryFish
	CategoryCan
	CategoryCondiment
	CategorySauce
	CategorySpice
)

var categoryHeaders = map[Category]string{
	CategoryFruit:        "Fruit",
	CategoryVegetable:    "Vegetables",
	CategoryHerb:         "Herbs",
	CategoryCarbohydrate: "Carbohydrates",
	CategoryDairy:        "Dairy",
	CategoryMeat:         "Meat",
	CategoryFish:         "Fish",
	CategoryCan:          "Cans",
	CategoryCondiment:    "Condiments",
	CategorySauce:        "Sauces",
	CategorySpice:        "Spices",
}

// Header returns the shopping list section title for the category.
func (c Category) Header() string {
	return categoryHeaders[c]
}

func (c Category) String() string {
	return categoryHeaders[c]
}

// CategoryFromString resolves a category from its header name,
// case-insensitively.
func CategoryFromString(s string) (Category, error) {
	for cat, header := range categoryHeaders {
		if strings.EqualFold(s, header) {
			return cat, nil
		}
	}
	return 0, fmt.Errorf("unknown ingredient category %q", s)
}

// Class is the measurement family a unit belongs to. Quantities of the
// same ingredient can only be merged when their units share a class.
type Class int

const (
	ClassCount Class = iota + 1
	ClassWeight
	ClassVolume
	// ClassBool marks presence-only quantities ("some"), with no
	// meaningful amount.
	ClassBool
)

func (c Class) String() string {
	switch c {
	case ClassCount:
		return "count"
	case ClassWeight:
		return "weight"
	case ClassVolume:
		return "volume"
	case ClassBool:
		return "bool"
	}
	return "unknown"
}

// ClassFromString resolves a measurement class from its name.
func ClassFromString(s string) (Class, error) {
	for _, c := range []Class{ClassCount, ClassWeight, ClassVolume, ClassBool} {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown measurement class %q", s)
}

// Unit is a supported measurement unit.
type Unit int

const (
	UnitBool Unit = iota + 1
	UnitNumber
	UnitBag
	UnitJar
	UnitGram
	UnitKilogram
	UnitMillilitre
	UnitLitre
)

type unitInfo struct {
	class        Class
	factor       float64 // conversion to the class base unit
	singular     string
	plural       string
	abbreviation string
}

var unitInfos = map[Unit]unitInfo{
	UnitBool:       {class: ClassBool, factor: 1},
	UnitNumber:     {class: ClassCount, factor: 1, singular: "unit", plural: "units"},
	UnitBag:        {class: ClassCount, factor: 1, singular: "bag", plural: "bags"},
	UnitJar:        {class: ClassCount, factor: 1, singular: "jar", plural: "jars"},
	UnitGram:       {class: ClassWeight, factor: 1, singular: "gram", plural: "grams", abbreviation: "g"},
	UnitKilogram:   {class: ClassWeight, factor: 1000, singular: "kilogram", plural: "kilograms", abbreviation: "kg"},
	UnitMillilitre: {class: ClassVolume, factor: 1, singular: "ml", plural: "ml", abbreviation: "ml"},
	UnitLitre:      {class: ClassVolume, factor: 1000, singular: "litre", plural: "litres", abbreviation: "l"},
}

// Class returns the measurement class of the unit.
func (u Unit) Class() Class {
	return unitInfos[u].class
}

// BaseFactor is the multiplier converting an amount in this unit to the
// class base unit (gram, ml or count).
func (u Unit) BaseFactor() float64 {
	return unitInfos[u].factor
}

// Singular returns the singular display name of the unit.
func (u Unit) Singular() string {
	return unitInfos[u].singular
}

// Plural returns the plural display name of the unit.
func (u Unit) Plural() string {
	return unitInfos[u].plural
}

func (u Unit) String() string {
	if u == UnitBool {
		return "bool"
	}
	return unitInfos[u].singular
}

// BaseUnit returns the unit merged quantities of this class are
// expressed in.
func (c Class) BaseUnit() Unit {
	switch c {
	case ClassWeight:
		return UnitGram
	case ClassVolume:
		return UnitMillilitre
	case ClassBool:
		return UnitBool
	}
	return UnitNumber
}

// UnitFromString resolves a unit from any of its identifiers (singular,
// plural or abbreviation), case-insensitively. "bool" resolves to
// UnitBool.
func UnitFromString(s string) (Unit, error) {
	if strings.EqualFold(s, "bool") {
		return UnitBool, nil
	}
	for unit, info := range unitInfos {
		for _, id := range []string{info.singular, info.plural, info.abbreviation} {
			if id != "" && strings.EqualFold(s, id) {
				return unit, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown unit %q", s)
}

// Ingredient is immutable reference data describing something that can
// appear on a shopping list.
type Ingredient struct {
	Name     string
	Category Category
	Class    Class
}

// Registry holds the supported ingredient definitions, loaded once per
// session from the data directory.
type Registry struct {
	ingredients map[string]Ingredient // keyed by upper-cased name
}

type ingredientDefinition struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Class    string `json:"class"`
}

// LoadRegistry reads ingredient definitions from a JSON file.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ingredient definitions: %w", err)
	}

	var definitions []ingredientDefinition
	if err := json.Unmarshal(data, &definitions); err != nil {
		return nil, fmt.Errorf("failed to parse ingredient definitions: %w", err)
	}

	registry := &Registry{ingredients: make(map[string]Ingredient, len(definitions))}
	for _, def := range definitions {
		category, err := CategoryFromString(def.Category)
		if err != nil {
			return nil, fmt.Errorf("ingredient %q: %w", def.Name, err)
		}
		class, err := ClassFromString(def.Class)
		if err != nil {
			return nil, fmt.Errorf("ingredient %q: %w", def.Name, err)
		}

		key := strings.ToUpper(def.Name)
		if _, exists := registry.ingredients[key]; exists {
			return nil, fmt.Errorf("duplicate ingredient definition %q", def.Name)
		}
		registry.ingredients[key] = Ingredient{Name: def.Name, Category: category, Class: class}
	}

	return registry, nil
}

// NewRegistry builds a registry from already-constructed ingredients.
// Used by tests and the recipe importer.
func NewRegistry(ingredients ...Ingredient) *Registry {
	registry := &Registry{ingredients: make(map[string]Ingredient, len(ingredients))}
	for _, ing := range ingredients {
		registry.ingredients[strings.ToUpper(ing.Name)] = ing
	}
	return registry
}

// FromName looks up an ingredient by name, case-insensitively.
func (r *Registry) FromName(name string) (Ingredient, error) {
	ing, ok := r.ingredients[strings.ToUpper(name)]
	if !ok {
		return Ingredient{}, fmt.Errorf("unsupported ingredient %q", name)
	}
	return ing, nil
}

// Names returns the sorted names of all registered ingredients.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ingredients))
	for _, ing := range r.ingredients {
		names = append(names, ing.Name)
	}
	sort.Strings(names)
	return names
}
