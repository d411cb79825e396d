package output

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inference-sim/queue-sim/sim"
)

// Execer is the subset of a pgx pool or connection the sink uses.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

const createRunsTable = `
	CREATE TABLE IF NOT EXISTS simulation_runs (
		run_id               TEXT PRIMARY KEY,
		mean_interarrival    DOUBLE PRECISION NOT NULL,
		mean_service         DOUBLE PRECISION NOT NULL,
		num_delays_required  INTEGER NOT NULL,
		seed                 BIGINT NOT NULL,
		average_delay        DOUBLE PRECISION NOT NULL,
		average_num_in_queue DOUBLE PRECISION NOT NULL,
		utilization          DOUBLE PRECISION NOT NULL,
		end_time             DOUBLE PRECISION NOT NULL,
		erlang_b             DOUBLE PRECISION NOT NULL,
		erlang_c             DOUBLE PRECISION NOT NULL,
		created_at           TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

const insertRun = `
	INSERT INTO simulation_runs (
		run_id, mean_interarrival, mean_service, num_delays_required, seed,
		average_delay, average_num_in_queue, utilization, end_time,
		erlang_b, erlang_c
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// PostgresSink inserts one summary row per run into simulation_runs,
// creating the table on first use.
type PostgresSink struct {
	db    Execer
	close func()
}

// NewPostgresSink opens a pool on dsn and checks connectivity.
func NewPostgresSink(ctx context.Context, dsn string) (*PostgresSink, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing postgres DSN: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	return &PostgresSink{db: pool, close: pool.Close}, nil
}

// NewPostgresSinkWithExecer uses an existing connection. Close leaves it open.
func NewPostgresSinkWithExecer(db Execer) *PostgresSink {
	return &PostgresSink{db: db}
}

func (p *PostgresSink) Write(ctx context.Context, r *sim.Report) error {
	if _, err := p.db.Exec(ctx, createRunsTable); err != nil {
		return fmt.Errorf("creating simulation_runs: %w", err)
	}
	runID := r.RunID
	if runID == "" {
		runID = fmt.Sprintf("seed-%d", r.Config.Seed)
	}
	tag, err := p.db.Exec(ctx, insertRun,
		runID,
		r.Config.MeanInterArrival,
		r.Config.MeanService,
		r.Config.NumDelaysRequired,
		r.Config.Seed,
		r.AverageDelay,
		r.AverageNumInQueue,
		r.Utilization,
		r.EndTime,
		r.ErlangB,
		r.ErlangC,
	)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", runID, err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("inserting run %s: %d rows affected", runID, tag.RowsAffected())
	}
	return nil
}

func (p *PostgresSink) Close() error {
	if p.close != nil {
		p.close()
	}
	return nil
}
