package model

import (
	"fmt"
	"strings"
)

// ValidateName trims a display name and rejects empty input.
func ValidateName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("%w: must not be empty", ErrInvalidName)
	}
	return trimmed, nil
}

// ValidateOutcome checks a prospective comparison against the arena's items.
func (a *Arena) ValidateOutcome(item1, item2, winner string) error {
	if len(a.Items) < 2 {
		return ErrNotEnoughItems
	}
	for _, id := range []string{item1, item2} {
		if _, ok := a.Item(id); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownItem, id)
		}
	}
	if item1 == item2 {
		return ErrSelfMatch
	}
	if winner != item1 && winner != item2 {
		return fmt.Errorf("%w: %q", ErrInvalidWinner, winner)
	}
	return nil
}

// Prune drops outcomes that cannot be replayed: self-matches, winners outside
// the pair, and references to items that no longer exist. It returns the
// number of dropped outcomes.
func (a *Arena) Prune() int {
	kept := make([]Outcome, 0, len(a.Outcomes))
	dropped := 0
	for _, o := range a.Outcomes {
		_, ok1 := a.Item(o.Item1)
		_, ok2 := a.Item(o.Item2)
		if !ok1 || !ok2 || o.Item1 == o.Item2 || (o.Winner != o.Item1 && o.Winner != o.Item2) {
			dropped++
			continue
		}
		kept = append(kept, o)
	}
	a.Outcomes = kept
	return dropped
}

// RemoveItem deletes an item and every outcome that references it.
func (a *Arena) RemoveItem(id string) bool {
	i := a.itemIndex(id)
	if i < 0 {
		return false
	}
	a.Items = append(a.Items[:i:i], a.Items[i+1:]...)
	kept := make([]Outcome, 0, len(a.Outcomes))
	for _, o := range a.Outcomes {
		if !o.Involves(id) {
			kept = append(kept, o)
		}
	}
	a.Outcomes = kept
	return true
}

// RemoveOutcome deletes the outcome with the given id.
func (a *Arena) RemoveOutcome(id string) bool {
	for i := range a.Outcomes {
		if a.Outcomes[i].ID == id {
			a.Outcomes = append(a.Outcomes[:i:i], a.Outcomes[i+1:]...)
			return true
		}
	}
	return false
}
