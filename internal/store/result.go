package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"go.uber.org/zap"
)

// ErrResultNotFound is returned by ByID when no result has the given ID.
var ErrResultNotFound = errors.New("result not found")

const resultsTable = "results"

var resultColumns = []string{
	"id", "bank", "total", "correct", "percentage",
	"final_difficulty", "confidence", "expected_score", "message", "finished_at",
}

// Result is the recorded outcome of one finished session.
type Result struct {
	ID              string
	Bank            string
	Total           int
	Correct         int
	Percentage      int
	FinalDifficulty float64
	Confidence      float64
	ExpectedScore   float64
	Message         string
	FinishedAt      time.Time
}

// QueryOpts filters and limits result queries.
type QueryOpts struct {
	Limit int    // max results (0 = unlimited)
	Bank  string // only results for this bank ("" = all banks)
}

// Summary aggregates recorded results.
type Summary struct {
	Sessions        int
	MeanPercentage  float64
	MeanExpectation float64
}

// ResultRepo manages recorded session outcomes.
type ResultRepo interface {
	// Save stores a new result. IDs must be unique.
	Save(ctx context.Context, r Result) error

	// Recent returns results newest first.
	Recent(ctx context.Context, opts QueryOpts) ([]Result, error)

	// ByID returns the result with the given ID or ErrResultNotFound.
	ByID(ctx context.Context, id string) (Result, error)

	// Summarize aggregates results matching opts.Bank; opts.Limit is ignored.
	Summarize(ctx context.Context, opts QueryOpts) (Summary, error)

	// Prune deletes all but the keep most recent results.
	Prune(ctx context.Context, keep int) (int64, error)
}

type resultRepo struct {
	db  *sql.DB
	log *zap.Logger
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func (r *resultRepo) Save(ctx context.Context, res Result) error {
	query, args := builder().
		Insert(resultsTable).
		Columns(resultColumns...).
		Values(
			res.ID, res.Bank, res.Total, res.Correct, res.Percentage,
			res.FinalDifficulty, res.Confidence, res.ExpectedScore, res.Message,
			res.FinishedAt.UTC().UnixMilli(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	r.log.Info("result recorded",
		zap.String("id", res.ID),
		zap.String("bank", res.Bank),
		zap.Int("percentage", res.Percentage))
	return nil
}

func (r *resultRepo) Recent(ctx context.Context, opts QueryOpts) ([]Result, error) {
	b := builder()
	sel := b.Select(resultColumns...).
		From(b.Table(resultsTable)).
		OrderBy(entsql.Desc("finished_at"), entsql.Desc("seq"))
	if opts.Bank != "" {
		sel.Where(entsql.EQ("bank", opts.Bank))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}

func (r *resultRepo) ByID(ctx context.Context, id string) (Result, error) {
	b := builder()
	query, args := b.Select(resultColumns...).
		From(b.Table(resultsTable)).
		Where(entsql.EQ("id", id)).
		Query()

	res, err := scanResult(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, fmt.Errorf("%w: %s", ErrResultNotFound, id)
	}
	return res, err
}

func (r *resultRepo) Summarize(ctx context.Context, opts QueryOpts) (Summary, error) {
	b := builder()
	sel := b.Select(entsql.Count("*"), entsql.Avg("percentage"), entsql.Avg("expected_score")).
		From(b.Table(resultsTable))
	if opts.Bank != "" {
		sel.Where(entsql.EQ("bank", opts.Bank))
	}
	query, args := sel.Query()

	var (
		s        Summary
		meanPct  sql.NullFloat64
		meanPred sql.NullFloat64
	)
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&s.Sessions, &meanPct, &meanPred); err != nil {
		return Summary{}, fmt.Errorf("summarize results: %w", err)
	}
	s.MeanPercentage = meanPct.Float64
	s.MeanExpectation = meanPred.Float64
	return s, nil
}

func (r *resultRepo) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		return 0, fmt.Errorf("prune results: negative keep %d", keep)
	}

	del, args := "DELETE FROM "+resultsTable, []any(nil)
	if keep > 0 {
		b := builder()
		newest, newestArgs := b.Select("seq").
			From(b.Table(resultsTable)).
			OrderBy(entsql.Desc("finished_at"), entsql.Desc("seq")).
			Limit(keep).
			Query()
		del = fmt.Sprintf("%s WHERE seq NOT IN (%s)", del, newest)
		args = newestArgs
	}

	out, err := r.db.ExecContext(ctx, del, args...)
	if err != nil {
		return 0, fmt.Errorf("prune results: %w", err)
	}
	n, err := out.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune results: %w", err)
	}
	if n > 0 {
		r.log.Info("results pruned", zap.Int64("deleted", n), zap.Int("kept", keep))
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (Result, error) {
	var (
		res        Result
		finishedAt int64
	)
	err := row.Scan(
		&res.ID, &res.Bank, &res.Total, &res.Correct, &res.Percentage,
		&res.FinalDifficulty, &res.Confidence, &res.ExpectedScore, &res.Message,
		&finishedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, err
	}
	if err != nil {
		return Result{}, fmt.Errorf("scan result: %w", err)
	}
	res.FinishedAt = time.UnixMilli(finishedAt).UTC()
	return res, nil
}
