package transaction

import (
	"context"

	"github.com/MrJamesThe3rd/tally/internal/core"
)

// StatsLoader is implemented by repositories that skip malformed records
// instead of failing the load.
type StatsLoader interface {
	LoadWithStats(ctx context.Context) ([]Transaction, core.LoadStats, error)
}

// ListWithStats is List plus the load statistics of the repository. For
// repositories that never skip records, Malformed is zero.
func (s *Service) ListWithStats(ctx context.Context, filter ListFilter) ([]Transaction, core.LoadStats, error) {
	var (
		txs   []Transaction
		stats core.LoadStats
		err   error
	)

	if sl, ok := s.repo.(StatsLoader); ok {
		txs, stats, err = sl.LoadWithStats(ctx)
	} else {
		txs, err = s.repo.LoadTransactions(ctx)
		stats.Loaded = len(txs)
	}

	if err != nil {
		return nil, core.LoadStats{}, err
	}

	return filterTxs(txs, filter), stats, nil
}
