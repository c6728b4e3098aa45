package rule

import (
	"fmt"
	"strings"
	"time"

	"mealplanner/internal/diary"
	"mealplanner/internal/meal"
)

// Set composes rules by logical AND: a candidate is eligible for a date
// only if every rule in the set passes.
type Set struct {
	rules []Rule
}

// NewSet builds a rule set.
func NewSet(rules ...Rule) *Set {
	return &Set{rules: rules}
}

// Append returns a new set with the rule added; the receiver is
// unchanged.
func (s *Set) Append(r Rule) *Set {
	rules := make([]Rule, len(s.rules), len(s.rules)+1)
	copy(rules, s.rules)
	return &Set{rules: append(rules, r)}
}

// Rules returns the rules in the set.
func (s *Set) Rules() []Rule {
	return s.rules
}

// Eligible reports whether every rule in the set allows the candidate
// on the given date.
func (s *Set) Eligible(candidate *meal.Meal, date time.Time, d *diary.Diary) bool {
	for _, r := range s.rules {
		if !r.Evaluate(candidate, date, d) {
			return false
		}
	}
	return true
}

// Configured rule names, resolvable via FromNames. These mirror the
// household defaults the planner ships with.
var configuredRules = map[string]Rule{
	"force_roast_on_sunday":             ForceTagOnWeekday{Tag: meal.TagRoast, Weekday: time.Sunday},
	"not_roast_on_non_sunday":           NoTagExceptOnWeekday{Tag: meal.TagRoast, Weekday: time.Sunday},
	"not_indian_twice_within_ten_days":  NoRepeatTagWithinWindow{Tag: meal.TagIndian, WindowDays: 10},
	"not_pasta_twice_within_five_days":  NoRepeatTagWithinWindow{Tag: meal.TagPasta, WindowDays: 5},
	"not_same_meal_within_seven_days":   NotSameMealWithinWindow{WindowDays: 7},
	"not_same_meat_on_consecutive_days": NoRepeatPropertyWithinWindow{Key: meal.PropertyMeat, WindowDays: 1},
}

// FromNames resolves configured rule names into a Set.
func FromNames(names []string) (*Set, error) {
	rules := make([]Rule, 0, len(names))
	for _, name := range names {
		r, ok := configuredRules[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown rule %q", name)
		}
		rules = append(rules, r)
	}
	return NewSet(rules...), nil
}

// DefaultSet returns the full set of configured rules.
func DefaultSet() *Set {
	names := make([]string, 0, len(configuredRules))
	for name := range configuredRules {
		names = append(names, name)
	}
	// Resolution by name keeps the two paths consistent.
	set, _ := FromNames(names)
	return set
}
