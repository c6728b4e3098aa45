package diary

import (
	"testing"
	"time"

	"mealplanner/internal/meal"
)

func testMeal(t *testing.T, name string) *meal.Meal {
	t.Helper()
	m, err := meal.New(name, nil, map[meal.PropertyKey]string{meal.PropertyMeat: meal.MeatNone})
	if err != nil {
		t.Fatalf("Failed to build meal %q: %v", name, err)
	}
	return m
}

func TestDiaryBasics(t *testing.T) {
	d := New()
	curry := testMeal(t, "Chicken Curry")
	stew := testMeal(t, "Beef Stew")

	monday := Date(2024, time.January, 1)
	tuesday := Date(2024, time.January, 2)

	d.Set(monday, curry)
	d.Set(tuesday, stew)

	if d.Len() != 2 {
		t.Fatalf("Expected 2 entries, got %d", d.Len())
	}

	got, ok := d.Get(monday)
	if !ok || got.Name != "Chicken Curry" {
		t.Errorf("Expected Chicken Curry on Monday, got %v", got)
	}

	if _, ok := d.Get(Date(2024, time.January, 3)); ok {
		t.Error("Expected unplanned date to have no entry")
	}

	// Setting again overwrites.
	d.Set(monday, stew)
	got, _ = d.Get(monday)
	if got.Name != "Beef Stew" {
		t.Errorf("Expected overwrite to Beef Stew, got %q", got.Name)
	}
}

func TestDiaryUpsertAndDifference(t *testing.T) {
	curry := testMeal(t, "Chicken Curry")
	stew := testMeal(t, "Beef Stew")
	pie := testMeal(t, "Fish Pie")

	base := New()
	base.Set(Date(2024, time.January, 1), curry)
	base.Set(Date(2024, time.January, 2), stew)

	overlay := New()
	overlay.Set(Date(2024, time.January, 2), pie)
	overlay.Set(Date(2024, time.January, 3), pie)

	merged := base.Upsert(overlay)
	if merged.Len() != 3 {
		t.Fatalf("Expected 3 entries after upsert, got %d", merged.Len())
	}
	if got, _ := merged.Get(Date(2024, time.January, 2)); got.Name != "Fish Pie" {
		t.Errorf("Expected overlay to win on shared date, got %q", got.Name)
	}
	// Originals untouched.
	if got, _ := base.Get(Date(2024, time.January, 2)); got.Name != "Beef Stew" {
		t.Errorf("Expected base diary unchanged, got %q", got.Name)
	}

	delta := merged.Difference(base)
	if delta.Len() != 1 {
		t.Fatalf("Expected difference of 1 entry, got %d", delta.Len())
	}
	if !delta.Has(Date(2024, time.January, 3)) {
		t.Error("Expected difference to contain only the new date")
	}
}

func TestDiaryFilterWindow(t *testing.T) {
	curry := testMeal(t, "Chicken Curry")
	d := New()
	d.Set(Date(2024, time.January, 1), curry)
	d.Set(Date(2024, time.January, 5), curry)
	d.Set(Date(2024, time.January, 9), curry)

	window := d.FilterWindow(Date(2024, time.January, 5), 3)
	if window.Len() != 1 {
		t.Fatalf("Expected 1 entry within 3 days, got %d", window.Len())
	}

	// The window is symmetric: entries 4 days before and after both land
	// inside a 4-day window.
	window = d.FilterWindow(Date(2024, time.January, 5), 4)
	if window.Len() != 3 {
		t.Fatalf("Expected 3 entries within 4 days, got %d", window.Len())
	}

	if empty := New().FilterWindow(Date(2024, time.January, 5), 10); empty.Len() != 0 {
		t.Errorf("Expected empty diary to filter to empty, got %d entries", empty.Len())
	}
}

func TestDiaryExceptDatesAndString(t *testing.T) {
	curry := testMeal(t, "Chicken Curry")
	stew := testMeal(t, "Beef Stew")

	d := New()
	d.Set(Date(2024, time.January, 2), stew)
	d.Set(Date(2024, time.January, 1), curry)

	remaining := d.ExceptDates(Date(2024, time.January, 1))
	if remaining.Len() != 1 || remaining.Has(Date(2024, time.January, 1)) {
		t.Fatalf("Expected only Jan 2 to remain, got %v", remaining.Dates())
	}

	want := "2024-01-01: Chicken Curry\n2024-01-02: Beef Stew"
	if got := d.String(); got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestDiaryFilterDates(t *testing.T) {
	curry := testMeal(t, "Chicken Curry")
	d := New()
	for day := 1; day <= 5; day++ {
		d.Set(Date(2024, time.January, day), curry)
	}

	subset := d.FilterDates(Date(2024, time.January, 2), Date(2024, time.January, 4))
	if subset.Len() != 2 {
		t.Fatalf("Expected half-open range to keep 2 entries, got %d", subset.Len())
	}
	if subset.Has(Date(2024, time.January, 4)) {
		t.Error("Expected max date to be exclusive")
	}
}
