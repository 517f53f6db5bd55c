package service

import (
	"context"
	"fmt"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

// AddItem adds an item at the default rating. Cost may be unset.
func (s *Service) AddItem(ctx context.Context, key, name string, cost model.Cost) (model.Item, error) {
	name, err := model.ValidateName(name)
	if err != nil {
		return model.Item{}, err
	}
	if v, ok := cost.Value(); ok {
		if err := model.ValidateCost(v); err != nil {
			return model.Item{}, err
		}
	}

	var item model.Item
	_, err = s.mutate(ctx, key, false, func(a *model.Arena) error {
		item = model.Item{ID: a.NewItemID(), Name: name, Cost: cost, Rating: model.DefaultRating()}
		a.Items = append(a.Items, item)
		return nil
	})
	if err != nil {
		return model.Item{}, err
	}
	s.logger.Debug(ctx, "item added",
		logger.String("arena", key),
		logger.String("item", item.ID),
		logger.String("cost", item.Cost.String()),
	)
	return item, nil
}

// ItemChange lists the fields of an item to replace. Nil fields are kept.
type ItemChange struct {
	Name *string
	Cost *float64
}

// UpdateItem applies every change in one step: either all of them land or,
// on any validation or lookup error, none do.
func (s *Service) UpdateItem(ctx context.Context, key, id string, ch ItemChange) (model.Item, error) {
	var name string
	if ch.Name != nil {
		n, err := model.ValidateName(*ch.Name)
		if err != nil {
			return model.Item{}, err
		}
		name = n
	}
	if ch.Cost != nil {
		if err := model.ValidateCost(*ch.Cost); err != nil {
			return model.Item{}, err
		}
	}
	return s.updateItem(ctx, key, id, func(it *model.Item) {
		if ch.Name != nil {
			it.Name = name
		}
		if ch.Cost != nil {
			it.Cost = model.CostOf(*ch.Cost)
		}
	})
}

// RenameItem changes an item's display name.
func (s *Service) RenameItem(ctx context.Context, key, id, name string) (model.Item, error) {
	return s.UpdateItem(ctx, key, id, ItemChange{Name: &name})
}

// SetItemCost replaces an item's cost. Invalid costs leave it unchanged.
func (s *Service) SetItemCost(ctx context.Context, key, id string, cost float64) (model.Item, error) {
	return s.UpdateItem(ctx, key, id, ItemChange{Cost: &cost})
}

func (s *Service) updateItem(ctx context.Context, key, id string, fn func(it *model.Item)) (model.Item, error) {
	var item model.Item
	_, err := s.mutate(ctx, key, false, func(a *model.Arena) error {
		it, ok := a.Item(id)
		if !ok {
			return fmt.Errorf("%w: %q", ErrItemNotFound, id)
		}
		fn(&it)
		a.UpdateItem(it)
		item = it
		return nil
	})
	if err != nil {
		return model.Item{}, err
	}
	s.logger.Debug(ctx, "item updated", logger.String("arena", key), logger.String("item", id))
	return item, nil
}

// DeleteItem removes an item and every outcome it took part in, then
// recomputes the arena's ratings.
func (s *Service) DeleteItem(ctx context.Context, key, id string) error {
	removed := 0
	_, err := s.mutate(ctx, key, true, func(a *model.Arena) error {
		before := len(a.Outcomes)
		if !a.RemoveItem(id) {
			return fmt.Errorf("%w: %q", ErrItemNotFound, id)
		}
		removed = before - len(a.Outcomes)
		return nil
	})
	if err != nil {
		return err
	}
	if removed > 0 {
		metrics.RecordOutcomesDeleted(removed)
	}
	s.logger.Debug(ctx, "item deleted",
		logger.String("arena", key),
		logger.String("item", id),
		logger.Int("outcomesRemoved", removed),
	)
	return nil
}
