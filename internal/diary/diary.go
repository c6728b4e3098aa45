package diary

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"mealplanner/internal/meal"
)

// DateFormat is the canonical date layout used throughout the planner.
const DateFormat = "2006-01-02"

// Date builds a normalized diary date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Normalize truncates a time to its UTC calendar date so it can be used
// as a diary key.
func Normalize(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// Entry is a single dated diary assignment.
type Entry struct {
	Date time.Time
	Meal *meal.Meal
}

// Diary maps dates to assigned meals, at most one meal per date. A date
// with no entry means "unplanned". The zero value from New is an empty,
// usable diary.
type Diary struct {
	entries map[time.Time]*meal.Meal
}

// New creates an empty diary.
func New() *Diary {
	return &Diary{entries: make(map[time.Time]*meal.Meal)}
}

// Set assigns a meal to a date, replacing any previous assignment.
func (d *Diary) Set(date time.Time, m *meal.Meal) {
	d.entries[Normalize(date)] = m
}

// Get returns the meal assigned to a date, if any.
func (d *Diary) Get(date time.Time) (*meal.Meal, bool) {
	m, ok := d.entries[Normalize(date)]
	return m, ok
}

// Has reports whether the date has an assignment.
func (d *Diary) Has(date time.Time) bool {
	_, ok := d.entries[Normalize(date)]
	return ok
}

// Len returns the number of assignments.
func (d *Diary) Len() int {
	return len(d.entries)
}

// Dates returns the assigned dates in chronological order.
func (d *Diary) Dates() []time.Time {
	dates := make([]time.Time, 0, len(d.entries))
	for date := range d.entries {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// Entries returns all assignments in chronological order.
func (d *Diary) Entries() []Entry {
	entries := make([]Entry, 0, len(d.entries))
	for _, date := range d.Dates() {
		entries = append(entries, Entry{Date: date, Meal: d.entries[date]})
	}
	return entries
}

// Copy returns an independent copy of the diary.
func (d *Diary) Copy() *Diary {
	copied := New()
	for date, m := range d.entries {
		copied.entries[date] = m
	}
	return copied
}

// Upsert returns a new diary containing this diary's entries overlaid
// with the other diary's entries. Where both assign the same date, the
// other diary wins.
func (d *Diary) Upsert(other *Diary) *Diary {
	merged := d.Copy()
	for date, m := range other.entries {
		merged.entries[date] = m
	}
	return merged
}

// Difference returns the subset of this diary whose dates do not appear
// in the other diary.
func (d *Diary) Difference(other *Diary) *Diary {
	remaining := New()
	for date, m := range d.entries {
		if !other.Has(date) {
			remaining.entries[date] = m
		}
	}
	return remaining
}

// FilterWindow returns the subset of entries within windowDays days of
// the given date, looking both backwards and forwards. The date itself
// is included if assigned.
func (d *Diary) FilterWindow(date time.Time, windowDays int) *Diary {
	date = Normalize(date)
	window := time.Duration(windowDays) * 24 * time.Hour
	filtered := New()
	for entryDate, m := range d.entries {
		delta := entryDate.Sub(date)
		if delta < 0 {
			delta = -delta
		}
		if delta <= window {
			filtered.entries[entryDate] = m
		}
	}
	return filtered
}

// FilterDates returns the subset of entries with min <= date < max.
func (d *Diary) FilterDates(min, max time.Time) *Diary {
	min, max = Normalize(min), Normalize(max)
	filtered := New()
	for entryDate, m := range d.entries {
		if !entryDate.Before(min) && entryDate.Before(max) {
			filtered.entries[entryDate] = m
		}
	}
	return filtered
}

// ExceptDates returns a copy of the diary with the given dates removed.
func (d *Diary) ExceptDates(dates ...time.Time) *Diary {
	excluded := make(map[time.Time]struct{}, len(dates))
	for _, date := range dates {
		excluded[Normalize(date)] = struct{}{}
	}
	remaining := New()
	for entryDate, m := range d.entries {
		if _, skip := excluded[entryDate]; !skip {
			remaining.entries[entryDate] = m
		}
	}
	return remaining
}

// Meals returns the assigned meals in date order.
func (d *Diary) Meals() []*meal.Meal {
	meals := make([]*meal.Meal, 0, len(d.entries))
	for _, date := range d.Dates() {
		meals = append(meals, d.entries[date])
	}
	return meals
}

// String renders the diary one entry per line, sorted by date.
func (d *Diary) String() string {
	var b strings.Builder
	for i, entry := range d.Entries() {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", entry.Date.Format(DateFormat), entry.Meal.Name)
	}
	return b.String()
}
