package planner

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"

	"mealplanner/internal/diary"
	"mealplanner/internal/meal"
	"mealplanner/internal/rule"
)

// Reason classifies why a selection pass failed.
type Reason string

// ReasonNoEligibleCandidate means every catalog meal was either
// excluded for the date or rejected by a rule.
const ReasonNoEligibleCandidate Reason = "no eligible candidate"

// SelectionError reports the date a selection pass failed on and why.
type SelectionError struct {
	Date   time.Time
	Reason Reason
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("selection failed for %s: %s", e.Date.Format(diary.DateFormat), e.Reason)
}

// Exclusions tracks, per date, the meals that have been rejected during
// the current session. It only ever grows within a session.
type Exclusions map[time.Time]map[string]struct{}

// NewExclusions creates an empty exclusion set.
func NewExclusions() Exclusions {
	return make(Exclusions)
}

// Add records a rejected meal for a date.
func (e Exclusions) Add(date time.Time, mealName string) {
	date = diary.Normalize(date)
	if e[date] == nil {
		e[date] = make(map[string]struct{})
	}
	e[date][strings.ToUpper(mealName)] = struct{}{}
}

// Excluded reports whether a meal has been rejected for a date.
func (e Exclusions) Excluded(date time.Time, mealName string) bool {
	_, ok := e[diary.Normalize(date)][strings.ToUpper(mealName)]
	return ok
}

// SelectPlan assigns a meal to each target date, in chronological
// order. For every date, the eligible set is the catalog minus that
// date's exclusions, filtered to meals every rule allows against the
// working diary. Assignments made for earlier target dates in the same
// pass are part of the working diary, so intra-pass constraints hold.
// The choice among eligible meals is uniformly random from the injected
// source, which makes a pass reproducible given a fixed seed.
//
// The pass is greedy with no backtracking: an empty eligible set fails
// the whole pass immediately with a SelectionError rather than
// revisiting earlier choices. The caller decides whether to relax
// exclusions or rules and try again.
//
// The returned diary contains only the new assignments.
func SelectPlan(catalog *meal.Catalog, d *diary.Diary, rules *rule.Set, targetDates []time.Time, exclusions Exclusions, rng *rand.Rand) (*diary.Diary, error) {
	dates := make([]time.Time, len(targetDates))
	for i, date := range targetDates {
		dates[i] = diary.Normalize(date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	seen := make(map[time.Time]struct{}, len(dates))
	for _, date := range dates {
		if _, dup := seen[date]; dup {
			return nil, fmt.Errorf("duplicate target date %s", date.Format(diary.DateFormat))
		}
		seen[date] = struct{}{}
		if d.Has(date) {
			return nil, fmt.Errorf("target date %s already has a diary entry", date.Format(diary.DateFormat))
		}
	}

	working := d.Copy()
	for _, date := range dates {
		var eligible []*meal.Meal
		for _, candidate := range catalog.Meals() {
			if exclusions.Excluded(date, candidate.Name) {
				continue
			}
			if !rules.Eligible(candidate, date, working) {
				continue
			}
			eligible = append(eligible, candidate)
		}

		if len(eligible) == 0 {
			return nil, &SelectionError{Date: date, Reason: ReasonNoEligibleCandidate}
		}

		working.Set(date, eligible[rng.Intn(len(eligible))])
	}

	return working.Difference(d), nil
}
