package meal

import (
	"fmt"
	"sort"
	"strings"
)

// Catalog is an immutable collection of candidate meals, unique by
// name. Meals are held in name order so that seeded random selection is
// reproducible.
type Catalog struct {
	meals  []*Meal
	byName map[string]*Meal
}

// NewCatalog builds a catalog from the given meals, rejecting duplicate
// names.
func NewCatalog(meals ...*Meal) (*Catalog, error) {
	catalog := &Catalog{
		meals:  make([]*Meal, 0, len(meals)),
		byName: make(map[string]*Meal, len(meals)),
	}
	for _, m := range meals {
		key := strings.ToUpper(m.Name)
		if _, exists := catalog.byName[key]; exists {
			return nil, fmt.Errorf("duplicate meal name %q in catalog", m.Name)
		}
		catalog.byName[key] = m
		catalog.meals = append(catalog.meals, m)
	}
	sort.Slice(catalog.meals, func(i, j int) bool {
		return catalog.meals[i].Name < catalog.meals[j].Name
	})
	return catalog, nil
}

// Meals returns the catalog's meals in name order.
func (c *Catalog) Meals() []*Meal {
	return c.meals
}

// Get looks up a meal by name, case-insensitively.
func (c *Catalog) Get(name string) (*Meal, bool) {
	m, ok := c.byName[strings.ToUpper(name)]
	return m, ok
}

// Len returns the number of meals in the catalog.
func (c *Catalog) Len() int {
	return len(c.meals)
}
