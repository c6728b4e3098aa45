package rule

import (
	"fmt"
	"time"

	"mealplanner/internal/diary"
	"mealplanner/internal/meal"
)

// Rule decides whether a candidate meal may be assigned to a date,
// given the diary as context. The diary contains both confirmed
// historical entries and any tentative assignments made earlier in the
// same planning pass. Rules must not mutate the diary, and evaluation
// is deterministic given identical inputs.
//
// Rules are a closed set of parameterized kinds rather than an open
// hierarchy; compose them with a Set.
type Rule interface {
	Name() string
	Evaluate(candidate *meal.Meal, date time.Time, d *diary.Diary) bool
}

// NoRepeatPropertyWithinWindow rejects a candidate whose property value
// matches any diary entry within WindowDays days of the target date,
// looking both backwards and forwards. The value "none" never
// conflicts.
type NoRepeatPropertyWithinWindow struct {
	Key        meal.PropertyKey
	WindowDays int
}

func (r NoRepeatPropertyWithinWindow) Name() string {
	return fmt.Sprintf("no repeat %s within %d days", r.Key, r.WindowDays)
}

func (r NoRepeatPropertyWithinWindow) Evaluate(candidate *meal.Meal, date time.Time, d *diary.Diary) bool {
	value := candidate.Property(r.Key)
	if value == meal.MeatNone {
		return true
	}
	for _, nearby := range d.FilterWindow(date, r.WindowDays).Meals() {
		if nearby.Property(r.Key) == value {
			return false
		}
	}
	return true
}

// NoRepeatTagWithinWindow rejects a tagged candidate when any diary
// entry within WindowDays days carries the same tag. Untagged
// candidates always pass.
type NoRepeatTagWithinWindow struct {
	Tag        meal.Tag
	WindowDays int
}

func (r NoRepeatTagWithinWindow) Name() string {
	return fmt.Sprintf("no repeat %s within %d days", r.Tag, r.WindowDays)
}

func (r NoRepeatTagWithinWindow) Evaluate(candidate *meal.Meal, date time.Time, d *diary.Diary) bool {
	if !candidate.HasTag(r.Tag) {
		return true
	}
	for _, nearby := range d.FilterWindow(date, r.WindowDays).Meals() {
		if nearby.HasTag(r.Tag) {
			return false
		}
	}
	return true
}

// NotSameMealWithinWindow rejects exact meal repeats within WindowDays
// days of the target date.
type NotSameMealWithinWindow struct {
	WindowDays int
}

func (r NotSameMealWithinWindow) Name() string {
	return fmt.Sprintf("not same meal within %d days", r.WindowDays)
}

func (r NotSameMealWithinWindow) Evaluate(candidate *meal.Meal, date time.Time, d *diary.Diary) bool {
	for _, nearby := range d.FilterWindow(date, r.WindowDays).Meals() {
		if nearby.Name == candidate.Name {
			return false
		}
	}
	return true
}

// ForceTagOnWeekday only allows meals carrying the tag on the given
// weekday. Other weekdays are unaffected.
type ForceTagOnWeekday struct {
	Tag     meal.Tag
	Weekday time.Weekday
}

func (r ForceTagOnWeekday) Name() string {
	return fmt.Sprintf("force %s on %s", r.Tag, r.Weekday)
}

func (r ForceTagOnWeekday) Evaluate(candidate *meal.Meal, date time.Time, _ *diary.Diary) bool {
	if date.Weekday() != r.Weekday {
		return true
	}
	return candidate.HasTag(r.Tag)
}

// NoTagExceptOnWeekday rejects meals carrying the tag on every weekday
// other than the given one.
type NoTagExceptOnWeekday struct {
	Tag     meal.Tag
	Weekday time.Weekday
}

func (r NoTagExceptOnWeekday) Name() string {
	return fmt.Sprintf("no %s except on %s", r.Tag, r.Weekday)
}

func (r NoTagExceptOnWeekday) Evaluate(candidate *meal.Meal, date time.Time, _ *diary.Diary) bool {
	if date.Weekday() == r.Weekday {
		return true
	}
	return !candidate.HasTag(r.Tag)
}
