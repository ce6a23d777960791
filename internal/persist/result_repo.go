package persist

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BattleResult is one finished battle as stored in battle_results.
type BattleResult struct {
	RunID      uuid.UUID
	StageID    int
	Win        bool
	Elapsed    time.Duration
	Spawned    int
	Killed     int
	Dropped    int
	FinishedAt time.Time
}

// ResultRepo stores battle results.
type ResultRepo interface {
	Save(ctx context.Context, r BattleResult) error
	// SaveBatch writes all results in one transaction; nothing is written on error.
	SaveBatch(ctx context.Context, rs []BattleResult) error
	// Recent returns up to n results, newest first.
	Recent(ctx context.Context, n int) ([]BattleResult, error)
	Close() error
}

// PgResultRepo is the postgres ResultRepo.
type PgResultRepo struct {
	db *DB
}

func NewResultRepo(db *DB) *PgResultRepo {
	return &PgResultRepo{db: db}
}

const pgInsertResult = `INSERT INTO battle_results
	(run_id, stage_id, win, elapsed_ms, spawned, killed, dropped, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (run_id) DO NOTHING`

func (r *PgResultRepo) Save(ctx context.Context, res BattleResult) error {
	_, err := r.db.Pool.Exec(ctx, pgInsertResult,
		res.RunID.String(), res.StageID, res.Win, res.Elapsed.Milliseconds(),
		res.Spawned, res.Killed, res.Dropped, finishedAt(res),
	)
	if err != nil {
		return fmt.Errorf("save result %s: %w", res.RunID, err)
	}
	return nil
}

func (r *PgResultRepo) SaveBatch(ctx context.Context, rs []BattleResult) error {
	if len(rs) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("results begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, res := range rs {
		if _, err := tx.Exec(ctx, pgInsertResult,
			res.RunID.String(), res.StageID, res.Win, res.Elapsed.Milliseconds(),
			res.Spawned, res.Killed, res.Dropped, finishedAt(res),
		); err != nil {
			return fmt.Errorf("results insert: %w", err)
		}
	}
	return tx.Commit(ctx)
}

func (r *PgResultRepo) Recent(ctx context.Context, n int) ([]BattleResult, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT run_id, stage_id, win, elapsed_ms, spawned, killed, dropped, finished_at
		 FROM battle_results ORDER BY finished_at DESC, id DESC LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BattleResult
	for rows.Next() {
		var (
			res     BattleResult
			runID   string
			elapsed int64
		)
		if err := rows.Scan(&runID, &res.StageID, &res.Win, &elapsed,
			&res.Spawned, &res.Killed, &res.Dropped, &res.FinishedAt); err != nil {
			return nil, err
		}
		if res.RunID, err = uuid.Parse(runID); err != nil {
			return nil, fmt.Errorf("result run id %q: %w", runID, err)
		}
		res.Elapsed = time.Duration(elapsed) * time.Millisecond
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *PgResultRepo) Close() error {
	r.db.Close()
	return nil
}

// SQLiteResultRepo is the sqlite ResultRepo. Timestamps are stored as UTC
// unix milliseconds.
type SQLiteResultRepo struct {
	db *sql.DB
}

func NewSQLiteResultRepo(db *sql.DB) *SQLiteResultRepo {
	return &SQLiteResultRepo{db: db}
}

const sqliteInsertResult = `INSERT OR IGNORE INTO battle_results
	(run_id, stage_id, win, elapsed_ms, spawned, killed, dropped, finished_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func sqliteSave(ctx context.Context, db execer, res BattleResult) error {
	_, err := db.ExecContext(ctx, sqliteInsertResult,
		res.RunID.String(), res.StageID, res.Win, res.Elapsed.Milliseconds(),
		res.Spawned, res.Killed, res.Dropped, finishedAt(res).UnixMilli(),
	)
	return err
}

func (r *SQLiteResultRepo) Save(ctx context.Context, res BattleResult) error {
	if err := sqliteSave(ctx, r.db, res); err != nil {
		return fmt.Errorf("save result %s: %w", res.RunID, err)
	}
	return nil
}

func (r *SQLiteResultRepo) SaveBatch(ctx context.Context, rs []BattleResult) error {
	if len(rs) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("results begin: %w", err)
	}
	defer tx.Rollback()

	for _, res := range rs {
		if err := sqliteSave(ctx, tx, res); err != nil {
			return fmt.Errorf("results insert: %w", err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteResultRepo) Recent(ctx context.Context, n int) ([]BattleResult, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT run_id, stage_id, win, elapsed_ms, spawned, killed, dropped, finished_at
		 FROM battle_results ORDER BY finished_at DESC, id DESC LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BattleResult
	for rows.Next() {
		var (
			res      BattleResult
			runID    string
			elapsed  int64
			finished int64
		)
		if err := rows.Scan(&runID, &res.StageID, &res.Win, &elapsed,
			&res.Spawned, &res.Killed, &res.Dropped, &finished); err != nil {
			return nil, err
		}
		if res.RunID, err = uuid.Parse(runID); err != nil {
			return nil, fmt.Errorf("result run id %q: %w", runID, err)
		}
		res.Elapsed = time.Duration(elapsed) * time.Millisecond
		res.FinishedAt = time.UnixMilli(finished).UTC()
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *SQLiteResultRepo) Close() error {
	return r.db.Close()
}

func finishedAt(res BattleResult) time.Time {
	if res.FinishedAt.IsZero() {
		return time.Now().UTC()
	}
	return res.FinishedAt.UTC()
}
