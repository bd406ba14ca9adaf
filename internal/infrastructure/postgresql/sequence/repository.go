package sequence

import (
	"context"

	sequencev1 "github.com/muhammadchandra19/relayer/internal/domain/sequence/v1"
	"github.com/muhammadchandra19/relayer/pkg/errors"
	"github.com/muhammadchandra19/relayer/pkg/logger"
	"github.com/muhammadchandra19/relayer/pkg/postgresql"
)

const (
	saveQuery = `INSERT INTO sequences (pair, sequence, updated_at) VALUES ($1, $2, NOW())
ON CONFLICT (pair) DO UPDATE SET sequence = GREATEST(sequences.sequence, EXCLUDED.sequence), updated_at = NOW()`
	loadQuery = `SELECT pair, sequence FROM sequences`
)

type repository struct {
	db     postgresql.PostgreSQLClient
	logger logger.Interface
}

var _ sequencev1.CounterRepository = (*repository)(nil)

// NewRepository creates a new sequence counter repository.
func NewRepository(db postgresql.PostgreSQLClient, log logger.Interface) *repository {
	return &repository{
		db:     db,
		logger: log,
	}
}

// Save stores sequence unless a larger value is already stored.
func (r *repository) Save(ctx context.Context, pair string, sequence int64) error {
	if _, err := r.db.Exec(ctx, saveQuery, pair, sequence); err != nil {
		return errors.Transient("save sequence", err)
	}
	return nil
}

// LoadAll returns the stored counter of every pair.
func (r *repository) LoadAll(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.Query(ctx, loadQuery)
	if err != nil {
		return nil, errors.Transient("load sequences", err)
	}
	defer rows.Close()

	counters := map[string]int64{}
	for rows.Next() {
		var (
			pair     string
			sequence int64
		)
		if err := rows.Scan(&pair, &sequence); err != nil {
			return nil, errors.TracerFromError(err)
		}
		counters[pair] = sequence
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Transient("load sequences", err)
	}

	r.logger.Info("loaded sequences", logger.NewField("pairs", len(counters)))
	return counters, nil
}
