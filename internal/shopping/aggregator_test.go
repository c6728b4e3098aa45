package shopping

import (
	"errors"
	"strings"
	"testing"
	"time"

	"mealplanner/internal/diary"
	"mealplanner/internal/ingredient"
	"mealplanner/internal/meal"
)

var (
	onion    = ingredient.Ingredient{Name: "Onion", Category: ingredient.CategoryVegetable, Class: ingredient.ClassCount}
	milk     = ingredient.Ingredient{Name: "Milk", Category: ingredient.CategoryDairy}
	parmesan = ingredient.Ingredient{Name: "Parmesan", Category: ingredient.CategoryDairy, Class: ingredient.ClassWeight}
	apple    = ingredient.Ingredient{Name: "Apple", Category: ingredient.CategoryFruit, Class: ingredient.ClassCount}
)

func quantity(t *testing.T, ing ingredient.Ingredient, unit ingredient.Unit, amount float64) ingredient.Quantity {
	t.Helper()
	q, err := ingredient.NewQuantity(ing, unit, amount)
	if err != nil {
		t.Fatalf("Failed to build quantity for %q: %v", ing.Name, err)
	}
	return q
}

func plannedMeal(t *testing.T, name string, date time.Time, quantities ...ingredient.Quantity) PlannedMeal {
	t.Helper()
	m, err := meal.New(name, quantities, map[meal.PropertyKey]string{meal.PropertyMeat: meal.MeatNone})
	if err != nil {
		t.Fatalf("Failed to build meal %q: %v", name, err)
	}
	return PlannedMeal{Date: date, Meal: m}
}

func findEntry(t *testing.T, list *List, name string) Entry {
	t.Helper()
	for _, entry := range list.Entries {
		if entry.Ingredient.Name == name {
			return entry
		}
	}
	t.Fatalf("Expected list to contain %q, got %v", name, list.Entries)
	return Entry{}
}

func TestAggregateSumsSameIngredient(t *testing.T) {
	monday := diary.Date(2024, time.January, 1)
	tuesday := diary.Date(2024, time.January, 2)

	list, err := Aggregate([]PlannedMeal{
		plannedMeal(t, "Chicken Curry", monday, quantity(t, onion, ingredient.UnitNumber, 2)),
		plannedMeal(t, "Beef Stew", tuesday, quantity(t, onion, ingredient.UnitNumber, 2)),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	entry := findEntry(t, list, "Onion")
	if entry.Quantity.Amount != 4 {
		t.Errorf("Expected 4 onions, got %v", entry.Quantity.Amount)
	}
	if !entry.Measured || entry.Extra {
		t.Errorf("Expected a measured entry without extra, got measured=%v extra=%v", entry.Measured, entry.Extra)
	}
	if len(entry.Sources) != 2 {
		t.Fatalf("Expected 2 sources, got %d", len(entry.Sources))
	}
	if entry.Sources[0].MealName != "Chicken Curry" || !entry.Sources[0].Date.Equal(monday) {
		t.Errorf("Expected first source Chicken Curry on Monday, got %+v", entry.Sources[0])
	}
	if entry.Sources[1].MealName != "Beef Stew" || !entry.Sources[1].Date.Equal(tuesday) {
		t.Errorf("Expected second source Beef Stew on Tuesday, got %+v", entry.Sources[1])
	}

	if !list.From.Equal(monday) || !list.To.Equal(tuesday) {
		t.Errorf("Expected list to span %s..%s, got %s..%s",
			monday.Format(diary.DateFormat), tuesday.Format(diary.DateFormat),
			list.From.Format(diary.DateFormat), list.To.Format(diary.DateFormat))
	}
}

func TestAggregateConvertsWithinClass(t *testing.T) {
	list, err := Aggregate([]PlannedMeal{
		plannedMeal(t, "Bechamel", diary.Date(2024, time.January, 1), quantity(t, milk, ingredient.UnitLitre, 1)),
		plannedMeal(t, "Pancakes", diary.Date(2024, time.January, 2), quantity(t, milk, ingredient.UnitMillilitre, 250)),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	entry := findEntry(t, list, "Milk")
	if entry.Quantity.Unit != ingredient.UnitMillilitre {
		t.Errorf("Expected merged quantity in ml, got %v", entry.Quantity.Unit)
	}
	if entry.Quantity.Amount != 1250 {
		t.Errorf("Expected 1250 ml, got %v", entry.Quantity.Amount)
	}
}

func TestAggregateIncompatibleUnits(t *testing.T) {
	tuesday := diary.Date(2024, time.January, 2)
	_, err := Aggregate([]PlannedMeal{
		plannedMeal(t, "Bechamel", diary.Date(2024, time.January, 1), quantity(t, milk, ingredient.UnitLitre, 1)),
		plannedMeal(t, "Odd Bake", tuesday, quantity(t, milk, ingredient.UnitGram, 200)),
	})

	var incompatible *ingredient.IncompatibleUnitsError
	if !errors.As(err, &incompatible) {
		t.Fatalf("Expected IncompatibleUnitsError, got %v", err)
	}
	if incompatible.Ingredient != "Milk" {
		t.Errorf("Expected error to name Milk, got %q", incompatible.Ingredient)
	}
	// The wrapping names the meal and date that triggered the clash.
	if !strings.Contains(err.Error(), "Odd Bake") || !strings.Contains(err.Error(), "2024-01-02") {
		t.Errorf("Expected error to name the offending meal and date, got %q", err.Error())
	}
}

func TestAggregatePresenceOnly(t *testing.T) {
	t.Run("ExtraOnTopOfMeasured", func(t *testing.T) {
		list, err := Aggregate([]PlannedMeal{
			plannedMeal(t, "Lasagne", diary.Date(2024, time.January, 1), quantity(t, parmesan, ingredient.UnitGram, 50)),
			plannedMeal(t, "Risotto", diary.Date(2024, time.January, 2), quantity(t, parmesan, ingredient.UnitBool, 1)),
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		entry := findEntry(t, list, "Parmesan")
		if !entry.Measured || !entry.Extra {
			t.Fatalf("Expected measured entry with extra, got measured=%v extra=%v", entry.Measured, entry.Extra)
		}
		if got := entry.Describe(); got != "50 grams plus some extra" {
			t.Errorf("Expected %q, got %q", "50 grams plus some extra", got)
		}
	})

	t.Run("OnlyPresence", func(t *testing.T) {
		list, err := Aggregate([]PlannedMeal{
			plannedMeal(t, "Risotto", diary.Date(2024, time.January, 2), quantity(t, parmesan, ingredient.UnitBool, 1)),
		})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}

		entry := findEntry(t, list, "Parmesan")
		if entry.Measured || !entry.Extra {
			t.Fatalf("Expected presence-only entry, got measured=%v extra=%v", entry.Measured, entry.Extra)
		}
		if got := entry.Describe(); got != "" {
			t.Errorf("Expected empty description, got %q", got)
		}
	})
}

func TestAggregateOrdering(t *testing.T) {
	day := diary.Date(2024, time.January, 1)
	list, err := Aggregate([]PlannedMeal{
		plannedMeal(t, "Everything Bake", day,
			quantity(t, parmesan, ingredient.UnitGram, 50),
			quantity(t, onion, ingredient.UnitNumber, 1),
			quantity(t, apple, ingredient.UnitNumber, 3),
		),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var names []string
	for _, entry := range list.Entries {
		names = append(names, entry.Ingredient.Name)
	}
	want := []string{"Apple", "Onion", "Parmesan"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Expected category-then-name order %v, got %v", want, names)
		}
	}
}

func TestAggregateIdempotent(t *testing.T) {
	planned := []PlannedMeal{
		plannedMeal(t, "Chicken Curry", diary.Date(2024, time.January, 1),
			quantity(t, onion, ingredient.UnitNumber, 2),
			quantity(t, parmesan, ingredient.UnitGram, 50)),
		plannedMeal(t, "Beef Stew", diary.Date(2024, time.January, 2),
			quantity(t, onion, ingredient.UnitBag, 1)),
	}

	first, err := Aggregate(planned)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	second, err := Aggregate(planned)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if Render(first) != Render(second) {
		t.Error("Expected repeated aggregation of the same input to render identically")
	}
}

func TestRender(t *testing.T) {
	list, err := Aggregate([]PlannedMeal{
		plannedMeal(t, "Chicken Curry", diary.Date(2024, time.January, 1),
			quantity(t, onion, ingredient.UnitNumber, 2)),
		plannedMeal(t, "Risotto", diary.Date(2024, time.January, 2),
			quantity(t, onion, ingredient.UnitNumber, 1),
			quantity(t, parmesan, ingredient.UnitBool, 1)),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	rendered := Render(list)

	for _, want := range []string{
		"Shopping List",
		"--- Vegetables ---",
		"- [ ] Onion: 3 units",
		"Chicken Curry (2024-01-01), Risotto (2024-01-02)",
		"--- Dairy ---",
		"- [ ] Parmesan\n",
	} {
		if !strings.Contains(rendered, want) {
			t.Errorf("Expected rendered list to contain %q, got:\n%s", want, rendered)
		}
	}

	if strings.Index(rendered, "--- Vegetables ---") > strings.Index(rendered, "--- Dairy ---") {
		t.Error("Expected Vegetables section before Dairy")
	}
}
