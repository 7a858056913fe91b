package budget

import (
	"context"

	"github.com/MrJamesThe3rd/tally/internal/core"
)

// StatsLoader is implemented by repositories that skip malformed budget
// lines instead of failing the load.
type StatsLoader interface {
	LoadWithStats(ctx context.Context) (Budgets, core.LoadStats, error)
}

// ListWithStats is List plus the load statistics of the repository.
func (s *Service) ListWithStats(ctx context.Context) (Budgets, core.LoadStats, error) {
	sl, ok := s.repo.(StatsLoader)
	if !ok {
		b, err := s.List(ctx)
		return b, core.LoadStats{Loaded: len(b)}, err
	}

	b, stats, err := sl.LoadWithStats(ctx)
	if err != nil {
		return nil, core.LoadStats{}, err
	}

	if b == nil {
		b = Budgets{}
	}

	return b, stats, nil
}
