package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Cost is an optional, non-negative price. The zero value is "unset".
type Cost struct {
	value float64
	set   bool
}

// CostOf returns a present cost.
func CostOf(v float64) Cost { return Cost{value: v, set: true} }

// NoCost returns an absent cost.
func NoCost() Cost { return Cost{} }

// Value returns the cost and whether it is present.
func (c Cost) Value() (float64, bool) { return c.value, c.set }

// IsSet reports whether a cost is present.
func (c Cost) IsSet() bool { return c.set }

// Positive returns the cost when it is present, finite and greater than zero.
// Only such costs take part in normalization and adjusted scores.
func (c Cost) Positive() (float64, bool) {
	if !c.set || c.value <= 0 || math.IsInf(c.value, 0) || math.IsNaN(c.value) {
		return 0, false
	}
	return c.value, true
}

// Ptr returns the cost as a nullable value for serialization.
func (c Cost) Ptr() *float64 {
	if !c.set {
		return nil
	}
	v := c.value
	return &v
}

// CostFromPtr is the inverse of Ptr.
func CostFromPtr(p *float64) Cost {
	if p == nil {
		return NoCost()
	}
	return CostOf(*p)
}

func (c Cost) String() string {
	if !c.set {
		return "N/A"
	}
	return strconv.FormatFloat(c.value, 'f', 2, 64)
}

// ValidateCost checks a user supplied cost.
func ValidateCost(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: must be a positive number", ErrInvalidCost)
	}
	return nil
}

// ParseCost parses and validates textual cost input.
func ParseCost(s string) (Cost, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return NoCost(), fmt.Errorf("%w: %q is not a number", ErrInvalidCost, s)
	}
	if err := ValidateCost(v); err != nil {
		return NoCost(), err
	}
	return CostOf(v), nil
}
