package codec

import (
	"fmt"
	"math"
	"time"

	"github.com/okian/arena/internal/domain/model"
)

// Document is the serialized form of the whole arena collection.
type Document struct {
	Arenas []ArenaDocument `json:"arenas" yaml:"arenas"`
}

// ArenaDocument is the serialized form of one arena.
type ArenaDocument struct {
	Key        string            `json:"key" yaml:"key"`
	Name       string            `json:"name" yaml:"name"`
	NextItemID int               `json:"next_item_id" yaml:"next_item_id"`
	Items      []ItemDocument    `json:"items" yaml:"items"`
	Outcomes   []OutcomeDocument `json:"outcomes" yaml:"outcomes"`
}

// ItemDocument carries an item. Ratings are informational; loading replays them.
type ItemDocument struct {
	ID         string   `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Cost       *float64 `json:"cost" yaml:"cost,omitempty"`
	Elo        float64  `json:"elo" yaml:"elo"`
	Glicko     float64  `json:"glicko" yaml:"glicko"`
	RD         float64  `json:"rd" yaml:"rd"`
	Volatility float64  `json:"volatility" yaml:"volatility"`
}

// OutcomeDocument carries one outcome. At is RFC 3339 and may be empty.
type OutcomeDocument struct {
	ID       string `json:"id" yaml:"id"`
	At       string `json:"at,omitempty" yaml:"at,omitempty"`
	Item1ID  string `json:"item1_id" yaml:"item1_id"`
	Item2ID  string `json:"item2_id" yaml:"item2_id"`
	WinnerID string `json:"winner_id" yaml:"winner_id"`
}

// FromCollection converts the domain collection to its document form.
func FromCollection(c model.Collection) Document {
	doc := Document{Arenas: make([]ArenaDocument, len(c.Arenas))}
	for i, a := range c.Arenas {
		doc.Arenas[i] = FromArena(a)
	}
	return doc
}

// FromArena converts one arena to its document form.
func FromArena(a model.Arena) ArenaDocument {
	ad := ArenaDocument{
		Key:        a.Key,
		Name:       a.Name,
		NextItemID: a.NextItemID,
		Items:      make([]ItemDocument, len(a.Items)),
		Outcomes:   make([]OutcomeDocument, len(a.Outcomes)),
	}
	for i, it := range a.Items {
		ad.Items[i] = ItemDocument{
			ID:         it.ID,
			Name:       it.Name,
			Cost:       it.Cost.Ptr(),
			Elo:        it.Elo,
			Glicko:     it.Glicko,
			RD:         it.RD,
			Volatility: it.Volatility,
		}
	}
	for i, o := range a.Outcomes {
		od := OutcomeDocument{ID: o.ID, Item1ID: o.Item1, Item2ID: o.Item2, WinnerID: o.Winner}
		if !o.At.IsZero() {
			od.At = o.At.UTC().Format(time.RFC3339Nano)
		}
		ad.Outcomes[i] = od
	}
	return ad
}

// Collection converts the document back to the domain collection.
func (d Document) Collection() (model.Collection, error) {
	c := model.Collection{Arenas: make([]model.Arena, 0, len(d.Arenas))}
	for _, ad := range d.Arenas {
		a, err := ad.Arena()
		if err != nil {
			return model.Collection{}, err
		}
		if c.Find(a.Key) >= 0 {
			return model.Collection{}, fmt.Errorf("%w: duplicate arena key %q", ErrDecode, a.Key)
		}
		c.Arenas = append(c.Arenas, a)
	}
	return c, nil
}

// Arena converts one arena document back to the domain arena. A missing key
// is derived from the name; a missing counter is derived from the item ids.
// Item names must be non-empty and costs, when present, finite and non-negative.
func (ad ArenaDocument) Arena() (model.Arena, error) {
	a := model.Arena{
		Key:        ad.Key,
		Name:       ad.Name,
		NextItemID: ad.NextItemID,
		Items:      make([]model.Item, 0, len(ad.Items)),
		Outcomes:   make([]model.Outcome, 0, len(ad.Outcomes)),
	}
	if a.Key == "" {
		a.Key = model.ArenaKey(a.Name)
	}
	if a.Key == "" {
		return model.Arena{}, fmt.Errorf("%w: arena without key or name", ErrDecode)
	}
	if a.Name == "" {
		a.Name = a.Key
	}

	seen := make(map[string]bool, len(ad.Items))
	for _, id := range ad.Items {
		if id.ID == "" || seen[id.ID] {
			return model.Arena{}, fmt.Errorf("%w: arena %q: missing or duplicate item id %q", ErrDecode, a.Key, id.ID)
		}
		seen[id.ID] = true
		name, err := model.ValidateName(id.Name)
		if err != nil {
			return model.Arena{}, fmt.Errorf("%w: arena %q: item %q: %w", ErrDecode, a.Key, id.ID, err)
		}
		if c := id.Cost; c != nil && (math.IsNaN(*c) || math.IsInf(*c, 0) || *c < 0) {
			return model.Arena{}, fmt.Errorf("%w: arena %q: item %q: %w: %v", ErrDecode, a.Key, id.ID, model.ErrInvalidCost, *c)
		}
		a.Items = append(a.Items, model.Item{
			ID:   id.ID,
			Name: name,
			Cost: model.CostFromPtr(id.Cost),
			Rating: model.Rating{
				Elo:        id.Elo,
				Glicko:     id.Glicko,
				RD:         id.RD,
				Volatility: id.Volatility,
			},
		})
	}
	if floor := nextID(a.Items); a.NextItemID < floor {
		a.NextItemID = floor
	}

	for _, od := range ad.Outcomes {
		o := model.Outcome{ID: od.ID, Item1: od.Item1ID, Item2: od.Item2ID, Winner: od.WinnerID}
		if od.At != "" {
			at, err := time.Parse(time.RFC3339Nano, od.At)
			if err != nil {
				return model.Arena{}, fmt.Errorf("%w: outcome %q: %w", ErrDecode, od.ID, err)
			}
			o.At = at
		}
		a.Outcomes = append(a.Outcomes, o)
	}
	return a, nil
}

// nextID returns one past the highest numeric "A<n>" id, at least 1.
func nextID(items []model.Item) int {
	next := 1
	for _, it := range items {
		var n int
		if _, err := fmt.Sscanf(it.ID, "A%d", &n); err == nil && n+1 > next {
			next = n + 1
		}
	}
	return next
}
