package ingredient

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidQuantity is returned when a quantity fails its
// construction-time invariants: a non-positive amount, a unit outside
// the ingredient's measurement class, or a presence-only quantity with
// a zero sentinel.
var ErrInvalidQuantity = errors.New("invalid ingredient quantity")

// ErrDuplicateIngredient is returned when the same ingredient appears
// more than once in a single collection. Duplicates are rejected rather
// than merged so that a doubled-up recipe definition is caught at load
// time.
var ErrDuplicateIngredient = errors.New("duplicate ingredient")

// IncompatibleUnitsError reports an attempt to combine quantities of
// the same ingredient measured in units of different classes.
type IncompatibleUnitsError struct {
	Ingredient string
	Left       Unit
	Right      Unit
}

func (e *IncompatibleUnitsError) Error() string {
	return fmt.Sprintf("incompatible units for ingredient %q: %s (%s) and %s (%s)",
		e.Ingredient, e.Left, e.Left.Class(), e.Right, e.Right.Class())
}

// Quantity is an (ingredient, amount, unit) triple. Construct with
// NewQuantity so the invariants hold.
type Quantity struct {
	Ingredient Ingredient
	Unit       Unit
	Amount     float64
}

// NewQuantity builds a validated quantity. The amount must be strictly
// positive, a UnitBool quantity must carry the amount 1, and any other
// unit must belong to the ingredient's measurement class.
func NewQuantity(ing Ingredient, unit Unit, amount float64) (Quantity, error) {
	if amount <= 0 {
		return Quantity{}, fmt.Errorf("%w: amount for %q must be positive, got %v",
			ErrInvalidQuantity, ing.Name, amount)
	}

	if unit == UnitBool {
		if amount != 1 {
			return Quantity{}, fmt.Errorf("%w: presence-only quantity for %q must have amount 1, got %v",
				ErrInvalidQuantity, ing.Name, amount)
		}
		return Quantity{Ingredient: ing, Unit: unit, Amount: 1}, nil
	}

	if ing.Class != 0 && unit.Class() != ing.Class {
		return Quantity{}, fmt.Errorf("%w: unit %s (%s) is not compatible with ingredient %q (%s)",
			ErrInvalidQuantity, unit, unit.Class(), ing.Name, ing.Class)
	}

	return Quantity{Ingredient: ing, Unit: unit, Amount: amount}, nil
}

// IsBool reports whether the quantity is presence-only.
func (q Quantity) IsBool() bool {
	return q.Unit == UnitBool
}

// BaseAmount returns the amount converted to the class base unit.
func (q Quantity) BaseAmount() float64 {
	return q.Amount * q.Unit.BaseFactor()
}

// Add combines two quantities of the same ingredient. Measured
// quantities must share a unit class; the result is expressed in the
// class base unit. Two presence-only quantities combine to one.
// Mixing a presence-only quantity with a measured one is not supported
// here; the shopping list aggregator tracks those separately.
func (q Quantity) Add(other Quantity) (Quantity, error) {
	if !strings.EqualFold(q.Ingredient.Name, other.Ingredient.Name) {
		return Quantity{}, fmt.Errorf("cannot add quantities of different ingredients %q and %q",
			q.Ingredient.Name, other.Ingredient.Name)
	}

	if q.IsBool() != other.IsBool() {
		return Quantity{}, fmt.Errorf("cannot add presence-only and measured quantities of %q",
			q.Ingredient.Name)
	}

	if q.IsBool() {
		return Quantity{Ingredient: q.Ingredient, Unit: UnitBool, Amount: 1}, nil
	}

	if q.Unit.Class() != other.Unit.Class() {
		return Quantity{}, &IncompatibleUnitsError{
			Ingredient: q.Ingredient.Name,
			Left:       q.Unit,
			Right:      other.Unit,
		}
	}

	return Quantity{
		Ingredient: q.Ingredient,
		Unit:       q.Unit.Class().BaseUnit(),
		Amount:     q.BaseAmount() + other.BaseAmount(),
	}, nil
}

// Describe renders the quantity for display, e.g. "2 units" or
// "450 grams". Presence-only quantities have no description.
func (q Quantity) Describe() string {
	if q.IsBool() {
		return ""
	}
	name := q.Unit.Plural()
	if q.Amount == 1 {
		name = q.Unit.Singular()
	}
	return fmt.Sprintf("%v %s", q.Amount, name)
}

// Collection is a set of quantities with at most one entry per
// ingredient.
type Collection []Quantity

// NewCollection validates that no ingredient appears twice.
func NewCollection(quantities ...Quantity) (Collection, error) {
	seen := make(map[string]struct{}, len(quantities))
	for _, q := range quantities {
		key := strings.ToUpper(q.Ingredient.Name)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateIngredient, q.Ingredient.Name)
		}
		seen[key] = struct{}{}
	}
	return Collection(quantities), nil
}
