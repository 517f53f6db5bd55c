package service

import (
	"context"
	"fmt"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/types"
	"github.com/okian/arena/pkg/logger"
)

// CreateArena adds an empty arena. Its key is derived from the name.
func (s *Service) CreateArena(ctx context.Context, name string) (model.Arena, error) {
	name, err := model.ValidateName(name)
	if err != nil {
		return model.Arena{}, err
	}
	key := model.ArenaKey(name)

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return model.Arena{}, ErrNotStarted
	}
	if s.coll.Find(key) >= 0 {
		s.logger.Warn(ctx, "arena already exists", logger.String("arena", key))
		return model.Arena{}, fmt.Errorf("%w: %q", ErrArenaExists, key)
	}
	a := model.Arena{Key: key, Name: name, NextItemID: 1}
	s.coll.Arenas = append(s.coll.Arenas, a)
	s.commitLocked(ctx)

	s.logger.Debug(ctx, "arena created", logger.String("arena", key))
	return a.Clone(), nil
}

// RenameArena changes the display name. The key stays the same.
func (s *Service) RenameArena(ctx context.Context, key, name string) (model.Arena, error) {
	name, err := model.ValidateName(name)
	if err != nil {
		return model.Arena{}, err
	}
	a, err := s.mutate(ctx, key, false, func(a *model.Arena) error {
		a.Name = name
		return nil
	})
	if err != nil {
		return model.Arena{}, err
	}
	s.logger.Debug(ctx, "arena renamed", logger.String("arena", key), logger.String("name", name))
	return a, nil
}

// ListArenas returns every arena in creation order.
func (s *Service) ListArenas(_ context.Context) ([]types.ArenaSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	out := make([]types.ArenaSummary, len(s.coll.Arenas))
	for i, a := range s.coll.Arenas {
		out[i] = types.ArenaSummary{
			Key:      a.Key,
			Name:     a.Name,
			Items:    len(a.Items),
			Outcomes: len(a.Outcomes),
		}
	}
	return out, nil
}

// Arena returns a copy of the arena with the given key.
func (s *Service) Arena(_ context.Context, key string) (model.Arena, error) {
	var out model.Arena
	err := s.view(key, func(a *model.Arena) error {
		out = a.Clone()
		return nil
	})
	return out, err
}
