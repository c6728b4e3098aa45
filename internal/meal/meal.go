package meal

import (
	"fmt"
	"strings"

	"mealplanner/internal/ingredient"
)

// PropertyKey identifies a required meal property. Every meal must
// supply a value for every recognized key.
type PropertyKey string

// PropertyMeat is currently the only recognized property key.
const PropertyMeat PropertyKey = "meat"

var requiredProperties = []PropertyKey{PropertyMeat}

// Supported meat property values.
const (
	MeatBeef    = "beef"
	MeatChicken = "chicken"
	MeatFish    = "fish"
	MeatLamb    = "lamb"
	MeatNone    = "none"
	MeatPork    = "pork"
	MeatTurkey  = "turkey"
)

var supportedPropertyValues = map[PropertyKey]map[string]struct{}{
	PropertyMeat: {
		MeatBeef:    {},
		MeatChicken: {},
		MeatFish:    {},
		MeatLamb:    {},
		MeatNone:    {},
		MeatPork:    {},
		MeatTurkey:  {},
	},
}

// Tag is a presence-only boolean marker on a meal. A meal either
// carries a tag or it does not; absence means false.
type Tag string

const (
	TagIndian     Tag = "indian"
	TagRoast      Tag = "roast"
	TagPasta      Tag = "pasta"
	TagVegetarian Tag = "vegetarian"
	TagWinter     Tag = "winter"
)

var supportedTags = map[Tag]struct{}{
	TagIndian:     {},
	TagRoast:      {},
	TagPasta:      {},
	TagVegetarian: {},
	TagWinter:     {},
}

// Meal is an immutable recipe: a unique name, the ingredient quantities
// it requires, its property values and its tags.
type Meal struct {
	Name       string
	Quantities ingredient.Collection

	properties map[PropertyKey]string
	tags       map[Tag]struct{}
}

// New builds a validated meal. Every recognized property key must be
// supplied with a supported value, unknown property keys and tags are
// rejected, and the ingredient quantities may not contain the same
// ingredient twice.
func New(name string, quantities []ingredient.Quantity, properties map[PropertyKey]string, tags ...Tag) (*Meal, error) {
	if name == "" {
		return nil, fmt.Errorf("meal name must not be empty")
	}

	collection, err := ingredient.NewCollection(quantities...)
	if err != nil {
		return nil, fmt.Errorf("meal %q: %w", name, err)
	}

	normalized := make(map[PropertyKey]string, len(properties))
	for key, value := range properties {
		supported, known := supportedPropertyValues[key]
		if !known {
			return nil, fmt.Errorf("meal %q: unknown property key %q", name, key)
		}
		value = strings.ToLower(value)
		if _, ok := supported[value]; !ok {
			return nil, fmt.Errorf("meal %q: unsupported value %q for property %q", name, value, key)
		}
		normalized[key] = value
	}
	for _, key := range requiredProperties {
		if _, ok := normalized[key]; !ok {
			return nil, fmt.Errorf("meal %q: missing required property %q", name, key)
		}
	}

	tagSet := make(map[Tag]struct{}, len(tags))
	for _, tag := range tags {
		if _, ok := supportedTags[tag]; !ok {
			return nil, fmt.Errorf("meal %q: unknown tag %q", name, tag)
		}
		tagSet[tag] = struct{}{}
	}

	return &Meal{
		Name:       name,
		Quantities: collection,
		properties: normalized,
		tags:       tagSet,
	}, nil
}

// Property returns the meal's value for the given property key.
func (m *Meal) Property(key PropertyKey) string {
	return m.properties[key]
}

// HasTag reports whether the meal carries the given tag.
func (m *Meal) HasTag(tag Tag) bool {
	_, ok := m.tags[tag]
	return ok
}

// Tags returns the meal's tags.
func (m *Meal) Tags() []Tag {
	tags := make([]Tag, 0, len(m.tags))
	for tag := range m.tags {
		tags = append(tags, tag)
	}
	return tags
}

func (m *Meal) String() string {
	return m.Name
}
