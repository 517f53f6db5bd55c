package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/okian/arena/internal/adapters/codec"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

// ImportResult summarizes an import.
type ImportResult struct {
	Arenas   int `json:"arenas"`
	Items    int `json:"items"`
	Outcomes int `json:"outcomes"`
	Dropped  int `json:"dropped"`
}

// Export renders the whole collection.
func (s *Service) Export(_ context.Context, f codec.Format) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	return codec.Encode(f, s.coll)
}

// Import replaces the whole collection. Outcomes that cannot be replayed are
// dropped, outcomes without a unique id get one, and every arena is replayed;
// stored ratings are ignored.
func (s *Service) Import(ctx context.Context, f codec.Format, data []byte) (ImportResult, error) {
	coll, err := codec.Decode(f, data)
	if err != nil {
		return ImportResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ImportResult{}, ErrNotStarted
	}

	var res ImportResult
	for i := range coll.Arenas {
		a := &coll.Arenas[i]
		assignOutcomeIDs(a)
		res.Dropped += a.Prune()
		*a = s.replayArena(ctx, *a)
		res.Items += len(a.Items)
		res.Outcomes += len(a.Outcomes)
	}
	res.Arenas = len(coll.Arenas)

	s.coll = coll
	s.commitLocked(ctx)
	if res.Dropped > 0 {
		metrics.RecordOutcomesDeleted(res.Dropped)
	}

	s.logger.Info(ctx, "collection imported",
		logger.Int("arenas", res.Arenas),
		logger.Int("items", res.Items),
		logger.Int("outcomes", res.Outcomes),
		logger.Int("dropped", res.Dropped),
	)
	return res, nil
}

func assignOutcomeIDs(a *model.Arena) {
	seen := make(map[string]bool, len(a.Outcomes))
	for i := range a.Outcomes {
		if id := a.Outcomes[i].ID; id == "" || seen[id] {
			a.Outcomes[i].ID = uuid.NewString()
		}
		seen[a.Outcomes[i].ID] = true
	}
}
