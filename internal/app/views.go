package service

import (
	"context"

	"github.com/okian/arena/internal/domain/leaderboard"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/types"
)

// Leaderboard returns the arena's ranked rows. Empty sort and order mean
// Elo, descending.
func (s *Service) Leaderboard(_ context.Context, key, sort, order string) ([]types.Entry, error) {
	sk, err := leaderboard.ParseSortKey(sort)
	if err != nil {
		return nil, err
	}
	ord, err := leaderboard.ParseOrder(order)
	if err != nil {
		return nil, err
	}
	var out []types.Entry
	err = s.view(key, func(a *model.Arena) error {
		out = leaderboard.Build(a.Items, sk, ord)
		return nil
	})
	return out, err
}

// Pareto returns the arena's non-dominated items in item order.
func (s *Service) Pareto(_ context.Context, key string) ([]types.Entry, error) {
	var out []types.Entry
	err := s.view(key, func(a *model.Arena) error {
		out = leaderboard.Pareto(a.Items)
		return nil
	})
	return out, err
}
