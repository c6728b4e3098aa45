package planner

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"mealplanner/internal/diary"
	"mealplanner/internal/meal"
	"mealplanner/internal/rule"
)

// State is the confirmation loop's position in its lifecycle.
type State string

const (
	StateProposing        State = "PROPOSING"
	StateAwaitingDecision State = "AWAITING_DECISION"
	StateConfirmed        State = "CONFIRMED"
	StateFailed           State = "FAILED"
)

// Rejection names a proposed (date, meal) pair the user turned down.
type Rejection struct {
	Date     time.Time
	MealName string
}

// Decision is the user's verdict on a tentative plan: accept it whole,
// or reject specific pairs.
type Decision struct {
	Accept     bool
	Rejections []Rejection
}

// AcceptAll builds an accepting decision.
func AcceptAll() Decision {
	return Decision{Accept: true}
}

// RejectPairs builds a rejecting decision.
func RejectPairs(rejections ...Rejection) Decision {
	return Decision{Rejections: rejections}
}

// DecisionProvider supplies the user's decision on a tentative plan.
// Implementations block until a decision is available; the core imposes
// no timeout, so callers embedding the session in a service should
// cancel via the context.
type DecisionProvider interface {
	Decide(ctx context.Context, proposal *diary.Diary) (Decision, error)
}

// Session runs one interactive planning session: propose a plan for the
// target dates, collect the decision, re-plan rejected dates with
// monotonically growing exclusions, and terminate once the plan is
// confirmed or a date runs out of candidates. The base diary is never
// mutated; the confirmed plan is returned for the caller to persist.
type Session struct {
	id          uuid.UUID
	catalog     *meal.Catalog
	rules       *rule.Set
	baseDiary   *diary.Diary
	targetDates []time.Time
	exclusions  Exclusions
	rng         *rand.Rand
	state       State
}

// NewSession creates a session for the given target dates. The random
// source must be supplied by the caller so runs are reproducible.
func NewSession(catalog *meal.Catalog, rules *rule.Set, baseDiary *diary.Diary, targetDates []time.Time, rng *rand.Rand) (*Session, error) {
	if catalog == nil || catalog.Len() == 0 {
		return nil, fmt.Errorf("session requires a non-empty meal catalog")
	}
	if len(targetDates) == 0 {
		return nil, fmt.Errorf("session requires at least one target date")
	}

	return &Session{
		id:          uuid.New(),
		catalog:     catalog,
		rules:       rules,
		baseDiary:   baseDiary.Copy(),
		targetDates: targetDates,
		exclusions:  NewExclusions(),
		rng:         rng,
		state:       StateProposing,
	}, nil
}

// ID returns the session identifier, used for log correlation.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// State returns the session's current state.
func (s *Session) State() State {
	return s.state
}

// Run drives the confirmation loop to a terminal state. On success the
// returned diary holds the confirmed assignments for every target date.
// On failure the base diary is untouched and the underlying cause is
// returned, a *SelectionError once a date's eligible set is exhausted.
func (s *Session) Run(ctx context.Context, provider DecisionProvider) (*diary.Diary, error) {
	accepted := diary.New()
	pending := make([]time.Time, len(s.targetDates))
	copy(pending, s.targetDates)

	for round := 1; ; round++ {
		s.state = StateProposing

		delta, err := SelectPlan(s.catalog, s.baseDiary.Upsert(accepted), s.rules, pending, s.exclusions, s.rng)
		if err != nil {
			s.state = StateFailed
			return nil, fmt.Errorf("session %s round %d: %w", s.id, round, err)
		}

		proposal := accepted.Upsert(delta)
		log.Printf("session %s: proposing round %d plan covering %d dates", s.id, round, proposal.Len())

		s.state = StateAwaitingDecision
		decision, err := provider.Decide(ctx, proposal)
		if err != nil {
			s.state = StateFailed
			return nil, fmt.Errorf("session %s: decision failed: %w", s.id, err)
		}

		if decision.Accept {
			s.state = StateConfirmed
			log.Printf("session %s: plan confirmed after %d round(s)", s.id, round)
			return proposal, nil
		}

		if len(decision.Rejections) == 0 {
			s.state = StateFailed
			return nil, fmt.Errorf("session %s: decision neither accepted nor rejected anything", s.id)
		}

		rejectedDates := make([]time.Time, 0, len(decision.Rejections))
		for _, rejection := range decision.Rejections {
			date := diary.Normalize(rejection.Date)
			if !proposal.Has(date) {
				s.state = StateFailed
				return nil, fmt.Errorf("session %s: rejection for %s, which is not part of the proposal",
					s.id, date.Format(diary.DateFormat))
			}
			s.exclusions.Add(date, rejection.MealName)
			rejectedDates = append(rejectedDates, date)
		}

		// Accepted dates stay fixed; only the rejected ones are re-planned.
		accepted = proposal.ExceptDates(rejectedDates...)
		pending = rejectedDates
	}
}
