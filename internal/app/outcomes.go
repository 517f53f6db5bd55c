package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/types"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

// RecordOutcome appends a head-to-head result and recomputes the arena.
//
// A non-empty requestID makes the call idempotent: repeating it returns the
// outcome recorded the first time, with duplicate set, and changes nothing.
func (s *Service) RecordOutcome(ctx context.Context, key, item1, item2, winner, requestID string) (outcome model.Outcome, duplicate bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return model.Outcome{}, false, ErrNotStarted
	}
	idx := s.coll.Find(key)
	if idx < 0 {
		return model.Outcome{}, false, fmt.Errorf("%w: %q", ErrArenaNotFound, key)
	}
	a := s.coll.Arenas[idx].Clone()

	id := uuid.NewString()
	dedupeKey := key + "/" + requestID
	if requestID != "" {
		if prev, seen := s.deduper.Remember(ctx, dedupeKey, id); seen {
			if o, ok := findOutcome(&a, prev); ok {
				metrics.RecordDuplicateSubmission()
				s.logger.Debug(ctx, "duplicate outcome submission",
					logger.String("arena", key),
					logger.String("requestID", requestID),
					logger.String("outcome", o.ID),
				)
				return o, true, nil
			}
			// The earlier outcome was deleted; treat this as a new submission.
			s.deduper.Forget(ctx, dedupeKey)
			s.deduper.Remember(ctx, dedupeKey, id)
		}
	}

	if err := a.ValidateOutcome(item1, item2, winner); err != nil {
		if requestID != "" {
			s.deduper.Forget(ctx, dedupeKey)
		}
		metrics.RecordOutcomeRejected(rejectReason(err))
		s.logger.Warn(ctx, "outcome rejected",
			logger.String("arena", key),
			logger.String("item1", item1),
			logger.String("item2", item2),
			logger.String("winner", winner),
			logger.Error(err),
		)
		return model.Outcome{}, false, err
	}

	outcome = model.Outcome{ID: id, At: s.now().UTC(), Item1: item1, Item2: item2, Winner: winner}
	a.Outcomes = append(a.Outcomes, outcome)
	s.coll.Arenas[idx] = s.replayArena(ctx, a)
	s.commitLocked(ctx)

	metrics.RecordOutcomeRecorded()
	s.logger.Debug(ctx, "outcome recorded",
		logger.String("arena", key),
		logger.String("outcome", id),
		logger.String("winner", winner),
	)
	return outcome, false, nil
}

// DeleteOutcome removes one outcome by id and recomputes the arena.
func (s *Service) DeleteOutcome(ctx context.Context, key, outcomeID string) error {
	_, err := s.mutate(ctx, key, true, func(a *model.Arena) error {
		if !a.RemoveOutcome(outcomeID) {
			return fmt.Errorf("%w: %q", ErrOutcomeNotFound, outcomeID)
		}
		return nil
	})
	if err != nil {
		return err
	}
	metrics.RecordOutcomesDeleted(1)
	s.logger.Debug(ctx, "outcome deleted", logger.String("arena", key), logger.String("outcome", outcomeID))
	return nil
}

// DeleteOutcomeAt removes the outcome at a 1-based history position.
func (s *Service) DeleteOutcomeAt(ctx context.Context, key string, position int) (model.Outcome, error) {
	var removed model.Outcome
	_, err := s.mutate(ctx, key, true, func(a *model.Arena) error {
		if position < 1 || position > len(a.Outcomes) {
			return fmt.Errorf("%w: position %d", ErrOutcomeNotFound, position)
		}
		removed = a.Outcomes[position-1]
		a.RemoveOutcome(removed.ID)
		return nil
	})
	if err != nil {
		return model.Outcome{}, err
	}
	metrics.RecordOutcomesDeleted(1)
	s.logger.Debug(ctx, "outcome deleted",
		logger.String("arena", key),
		logger.Int("position", position),
		logger.String("outcome", removed.ID),
	)
	return removed, nil
}

// History lists the arena's outcomes in recording order with participant
// names resolved.
func (s *Service) History(_ context.Context, key string) ([]types.HistoryEntry, error) {
	var out []types.HistoryEntry
	err := s.view(key, func(a *model.Arena) error {
		out = make([]types.HistoryEntry, len(a.Outcomes))
		for i, o := range a.Outcomes {
			out[i] = types.HistoryEntry{
				Position:   i + 1,
				OutcomeID:  o.ID,
				At:         o.At,
				Item1ID:    o.Item1,
				Item1Name:  a.ItemName(o.Item1),
				Item2ID:    o.Item2,
				Item2Name:  a.ItemName(o.Item2),
				WinnerID:   o.Winner,
				WinnerName: a.ItemName(o.Winner),
			}
		}
		return nil
	})
	return out, err
}

func findOutcome(a *model.Arena, id string) (model.Outcome, bool) {
	for _, o := range a.Outcomes {
		if o.ID == id {
			return o, true
		}
	}
	return model.Outcome{}, false
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, model.ErrSelfMatch):
		return "self_match"
	case errors.Is(err, model.ErrInvalidWinner):
		return "invalid_winner"
	case errors.Is(err, model.ErrNotEnoughItems):
		return "not_enough_items"
	case errors.Is(err, model.ErrUnknownItem):
		return "unknown_item"
	default:
		return "other"
	}
}
