// Package model contains domain models passed between layers.
package model

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Default rating state every item starts from and every replay resets to.
const (
	DefaultElo        = 1500.0
	DefaultGlicko     = 1500.0
	DefaultRD         = 350.0
	DefaultVolatility = 0.06

	itemIDPrefix = "A"
)

// Rating carries both rating representations of an item.
type Rating struct {
	Elo        float64
	Glicko     float64
	RD         float64
	Volatility float64
}

// DefaultRating returns the starting rating state.
func DefaultRating() Rating {
	return Rating{
		Elo:        DefaultElo,
		Glicko:     DefaultGlicko,
		RD:         DefaultRD,
		Volatility: DefaultVolatility,
	}
}

// Item is a ranked entity inside an arena.
type Item struct {
	ID   string
	Name string
	Cost Cost
	Rating
}

// Outcome records one head-to-head result. Outcomes are immutable once recorded.
type Outcome struct {
	ID     string    // unique id, used to address the outcome for deletion
	At     time.Time // display only, never used by the rating math
	Item1  string
	Item2  string
	Winner string
}

// Loser returns the participant that did not win.
func (o Outcome) Loser() string {
	if o.Winner == o.Item1 {
		return o.Item2
	}
	return o.Item1
}

// Involves reports whether id took part in the outcome.
func (o Outcome) Involves(id string) bool {
	return o.Item1 == id || o.Item2 == id
}

// Arena is an independent namespace of items and outcome history.
// Items keep insertion order; the replay engine depends on it.
type Arena struct {
	Key        string
	Name       string
	Items      []Item
	Outcomes   []Outcome
	NextItemID int
}

// Item returns the item with the given id.
func (a *Arena) Item(id string) (Item, bool) {
	if i := a.itemIndex(id); i >= 0 {
		return a.Items[i], true
	}
	return Item{}, false
}

// ItemName returns the display name for id, or "Unknown".
func (a *Arena) ItemName(id string) string {
	if it, ok := a.Item(id); ok {
		return it.Name
	}
	return "Unknown"
}

func (a *Arena) itemIndex(id string) int {
	for i := range a.Items {
		if a.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// UpdateItem replaces the stored item that has the same id.
func (a *Arena) UpdateItem(it Item) bool {
	i := a.itemIndex(it.ID)
	if i < 0 {
		return false
	}
	a.Items[i] = it
	return true
}

// NewItemID allocates the next identifier and advances the counter.
func (a *Arena) NewItemID() string {
	if a.NextItemID < 1 {
		a.NextItemID = 1
	}
	id := itemIDPrefix + strconv.Itoa(a.NextItemID)
	a.NextItemID++
	return id
}

// Clone returns a deep copy of the arena.
func (a Arena) Clone() Arena {
	c := a
	c.Items = append([]Item(nil), a.Items...)
	c.Outcomes = append([]Outcome(nil), a.Outcomes...)
	return c
}

// Collection is the full, ordered set of arenas.
type Collection struct {
	Arenas []Arena
}

// Clone returns a deep copy of the collection.
func (c Collection) Clone() Collection {
	out := Collection{Arenas: make([]Arena, len(c.Arenas))}
	for i := range c.Arenas {
		out.Arenas[i] = c.Arenas[i].Clone()
	}
	return out
}

// Find returns the index of the arena with the given key, or -1.
func (c *Collection) Find(key string) int {
	for i := range c.Arenas {
		if c.Arenas[i].Key == key {
			return i
		}
	}
	return -1
}

var whitespace = regexp.MustCompile(`\s+`)

// ArenaKey derives the arena key from a display name.
func ArenaKey(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

// DefaultCollection returns the seed arena used for a fresh store.
func DefaultCollection() Collection {
	return Collection{Arenas: []Arena{{
		Key:  "apples",
		Name: "Apple Battle Arena",
		Items: []Item{
			{ID: "A1", Name: "Royal Gala", Cost: CostOf(1.50), Rating: DefaultRating()},
			{ID: "A2", Name: "Pink Lady", Cost: CostOf(4.50), Rating: DefaultRating()},
		},
		NextItemID: 3,
	}}}
}
