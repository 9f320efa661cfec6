// Package history keeps a per-invocation attempt log in Postgres. It is an
// optional operational record; recorder failures are logged by callers and
// never change a booking outcome.
package history

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/example/wod-booker/internal/booking"
)

// Attempt is one state-machine invocation as recorded.
type Attempt struct {
	ID        int64
	Account   string
	Date      string
	Slot      string
	DryRun    bool
	Outcome   string
	Detail    string
	CreatedAt time.Time
}

// Recorder persists attempts.
type Recorder interface {
	Record(ctx context.Context, acct string, req booking.Request, res booking.Result) error
}

// Nop is used when no database is configured.
type Nop struct{}

func (Nop) Record(context.Context, string, booking.Request, booking.Result) error { return nil }

// PG records attempts in Postgres.
type PG struct {
	pool *pgxpool.Pool
}

var _ Recorder = (*PG)(nil)

// Open connects, pings and applies the schema.
func Open(ctx context.Context, databaseURL string) (*PG, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConnLifetime = 5 * time.Minute
	cfg.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	p := &PG{pool: pool}
	if err := p.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *PG) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS booking_attempts (
    id           BIGSERIAL PRIMARY KEY,
    account      TEXT        NOT NULL,
    booking_date TEXT        NOT NULL,
    slot         TEXT        NOT NULL,
    dry_run      BOOLEAN     NOT NULL,
    outcome      TEXT        NOT NULL,
    detail       TEXT        NOT NULL DEFAULT '',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`CREATE INDEX IF NOT EXISTS booking_attempts_account_date
    ON booking_attempts (account, booking_date)`,
	}
	for _, s := range stmts {
		if _, err := p.pool.Exec(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (p *PG) Record(ctx context.Context, acct string, req booking.Request, res booking.Result) error {
	detail := ""
	if res.Err != nil {
		detail = res.Err.Error()
	} else if res.Reason != "" {
		detail = string(res.Reason)
	}
	_, err := p.pool.Exec(ctx, `
INSERT INTO booking_attempts(account, booking_date, slot, dry_run, outcome, detail)
VALUES ($1,$2,$3,$4,$5,$6)`,
		acct, req.Date.String(), string(req.Slot), req.DryRun, string(res.Outcome), detail)
	return err
}

// Recent returns the latest attempts for an account, newest first.
func (p *PG) Recent(ctx context.Context, acct string, limit int) ([]Attempt, error) {
	rows, err := p.pool.Query(ctx, `
SELECT id, account, booking_date, slot, dry_run, outcome, detail, created_at
FROM booking_attempts
WHERE account=$1
ORDER BY created_at DESC
LIMIT $2`, acct, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var a Attempt
		if err := rows.Scan(&a.ID, &a.Account, &a.Date, &a.Slot, &a.DryRun, &a.Outcome, &a.Detail, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (p *PG) Close() {
	p.pool.Close()
}
