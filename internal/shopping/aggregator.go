package shopping

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"mealplanner/internal/diary"
	"mealplanner/internal/ingredient"
	"mealplanner/internal/meal"
)

// PlannedMeal is one confirmed (date, meal) pair feeding the shopping
// list.
type PlannedMeal struct {
	Date time.Time
	Meal *meal.Meal
}

// Source records which planned meal contributed to a list entry.
type Source struct {
	Date     time.Time
	MealName string
}

// Entry is the consolidated requirement for one ingredient: the summed
// measured quantity (in the class base unit), whether any meal asked
// for an unmeasured "some" on top, and the meals that contributed.
type Entry struct {
	Ingredient ingredient.Ingredient
	Quantity   ingredient.Quantity
	Measured   bool
	Extra      bool
	Sources    []Source
}

// List is a consolidated shopping list, sorted by ingredient category
// and then by ingredient name for stable, diffable output.
type List struct {
	From    time.Time
	To      time.Time
	Entries []Entry
}

// FromDiary converts a diary subset into the aggregator's input.
func FromDiary(d *diary.Diary) []PlannedMeal {
	entries := d.Entries()
	planned := make([]PlannedMeal, len(entries))
	for i, entry := range entries {
		planned[i] = PlannedMeal{Date: entry.Date, Meal: entry.Meal}
	}
	return planned
}

// Aggregate merges the ingredient quantities of every planned meal into
// one list. Quantities of the same ingredient must share a unit class;
// a class mismatch is a hard error naming the ingredient, never a
// silent skip. Presence-only quantities are tracked as an "extra" flag
// rather than summed.
func Aggregate(planned []PlannedMeal) (*List, error) {
	entries := make(map[string]*Entry)

	list := &List{}
	for _, pm := range planned {
		if list.From.IsZero() || pm.Date.Before(list.From) {
			list.From = pm.Date
		}
		if pm.Date.After(list.To) {
			list.To = pm.Date
		}

		for _, quantity := range pm.Meal.Quantities {
			key := strings.ToUpper(quantity.Ingredient.Name)
			entry, ok := entries[key]
			if !ok {
				entry = &Entry{Ingredient: quantity.Ingredient}
				entries[key] = entry
			}
			entry.Sources = append(entry.Sources, Source{Date: pm.Date, MealName: pm.Meal.Name})

			if quantity.IsBool() {
				entry.Extra = true
				continue
			}

			if !entry.Measured {
				entry.Quantity = ingredient.Quantity{
					Ingredient: quantity.Ingredient,
					Unit:       quantity.Unit.Class().BaseUnit(),
					Amount:     quantity.BaseAmount(),
				}
				entry.Measured = true
				continue
			}

			merged, err := entry.Quantity.Add(quantity)
			if err != nil {
				var incompatible *ingredient.IncompatibleUnitsError
				if errors.As(err, &incompatible) {
					return nil, fmt.Errorf("meal %q on %s: %w",
						pm.Meal.Name, pm.Date.Format(diary.DateFormat), err)
				}
				return nil, err
			}
			entry.Quantity = merged
		}
	}

	for _, entry := range entries {
		list.Entries = append(list.Entries, *entry)
	}
	sort.Slice(list.Entries, func(i, j int) bool {
		left, right := list.Entries[i].Ingredient, list.Entries[j].Ingredient
		if left.Category != right.Category {
			return left.Category < right.Category
		}
		return left.Name < right.Name
	})

	return list, nil
}

// Describe renders the entry's quantity requirement, e.g. "4 units" or
// "450 grams plus some extra". Presence-only entries have no
// description.
func (e Entry) Describe() string {
	if !e.Measured {
		return ""
	}
	description := e.Quantity.Describe()
	if e.Extra {
		description += " plus some extra"
	}
	return description
}

// Render formats the list as a checklist grouped by category, each
// entry followed by the meals that need it.
func Render(list *List) string {
	var b strings.Builder
	b.WriteString("Shopping List\n")

	var currentCategory ingredient.Category
	for _, entry := range list.Entries {
		if entry.Ingredient.Category != currentCategory {
			currentCategory = entry.Ingredient.Category
			fmt.Fprintf(&b, "\n\n--- %s ---\n", currentCategory.Header())
		}

		line := fmt.Sprintf("- [ ] %s", entry.Ingredient.Name)
		if description := entry.Describe(); description != "" {
			line += ": " + description
		}
		b.WriteString(line + "\n")

		sources := make([]string, len(entry.Sources))
		for i, source := range entry.Sources {
			sources[i] = fmt.Sprintf("%s (%s)", source.MealName, source.Date.Format(diary.DateFormat))
		}
		fmt.Fprintf(&b, "\t%s\n", strings.Join(sources, ", "))
	}

	return b.String()
}
