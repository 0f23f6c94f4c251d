package preview

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"
)

// QueryStats holds statement execution statistics of an engine.
type QueryStats struct {
	// TotalQueries is the number of queries executed.
	TotalQueries atomic.Int64
	// TotalExecs is the number of statements executed.
	TotalExecs atomic.Int64
	// TotalDuration is the time spent executing, in nanoseconds.
	TotalDuration atomic.Int64
	// SlowQueries is the count of statements exceeding the slow threshold.
	SlowQueries atomic.Int64
	// Errors is the count of failed statements.
	Errors atomic.Int64
}

// Stats returns a snapshot of the current statistics.
func (s *QueryStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalQueries:  s.TotalQueries.Load(),
		TotalExecs:    s.TotalExecs.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		SlowQueries:   s.SlowQueries.Load(),
		Errors:        s.Errors.Load(),
	}
}

// StatsSnapshot is a point-in-time snapshot of query statistics.
type StatsSnapshot struct {
	TotalQueries  int64         `json:"queries"`
	TotalExecs    int64         `json:"execs"`
	TotalDuration time.Duration `json:"duration"`
	SlowQueries   int64         `json:"slow"`
	Errors        int64         `json:"errors"`
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf("queries=%d execs=%d duration=%s slow=%d errors=%d",
		s.TotalQueries, s.TotalExecs, s.TotalDuration, s.SlowQueries, s.Errors)
}

// execQuerier is implemented by *sql.DB and *sql.Tx.
type execQuerier interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
}

// statsConn records statistics and logs every statement it runs.
type statsConn struct {
	conn  execQuerier
	stats *QueryStats
	slow  time.Duration
	log   *slog.Logger
}

func (c statsConn) exec(ctx context.Context, query string, args ...any) error {
	start := time.Now()
	_, err := c.conn.ExecContext(ctx, query, args...)
	c.record(ctx, query, args, start, err, false)
	return err
}

func (c statsConn) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := c.conn.QueryContext(ctx, query, args...)
	c.record(ctx, query, args, start, err, true)
	return rows, err
}

func (c statsConn) record(ctx context.Context, query string, args []any, start time.Time, err error, isQuery bool) {
	d := time.Since(start)
	if isQuery {
		c.stats.TotalQueries.Add(1)
	} else {
		c.stats.TotalExecs.Add(1)
	}
	c.stats.TotalDuration.Add(int64(d))
	if err != nil {
		c.stats.Errors.Add(1)
		c.log.ErrorContext(ctx, "statement failed", "query", query, "args", args, "error", err)
		return
	}
	if c.slow > 0 && d > c.slow {
		c.stats.SlowQueries.Add(1)
		c.log.WarnContext(ctx, "slow statement", "duration", d, "query", query, "args", args)
		return
	}
	c.log.DebugContext(ctx, "statement", "duration", d, "query", query)
}
