// Package preview evaluates search criteria against sample rows. Rows are
// loaded into an SQLite table created from the entity DDL; the condition
// rendered by package predicate is executed there and compared with the
// in-memory predicate.Match result.
package preview

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/dialect"
	"github.com/syssam/crudgen/feature"
	"github.com/syssam/crudgen/predicate"
	"github.com/syssam/crudgen/schema"
)

// ErrUnknownField is returned for criteria or rows naming an attribute the
// schema does not declare.
var ErrUnknownField = errors.New("preview: unknown field")

// ErrInvalidRow is returned for sample rows with missing or mistyped values.
var ErrInvalidRow = errors.New("preview: invalid row")

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the statement logger. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithSlowThreshold sets the duration above which statements are counted and
// logged as slow. Zero disables slow statement detection.
func WithSlowThreshold(d time.Duration) Option {
	return func(e *Engine) {
		e.slow = d
	}
}

// Engine holds the sample table of one entity.
type Engine struct {
	db      *sql.DB
	entity  *gen.Entity
	dialect dialect.Dialect
	ddl     string
	stats   *QueryStats
	slow    time.Duration
	log     *slog.Logger
}

// Open creates an engine backed by a private in-memory SQLite database.
func Open(ctx context.Context, s *schema.Schema, opts ...Option) (*Engine, error) {
	db, err := sql.Open(dialect.SQLite, ":memory:")
	if err != nil {
		return nil, fmt.Errorf("preview: open database: %w", err)
	}
	// Each connection of an in-memory database is a separate database.
	db.SetMaxOpenConns(1)
	e, err := New(ctx, db, s, opts...)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return e, nil
}

// New creates the entity table in db and returns an engine using it. The
// statements use the SQLite dialect.
func New(ctx context.Context, db *sql.DB, s *schema.Schema, opts ...Option) (*Engine, error) {
	sel, err := feature.New(feature.WithBackend(feature.Embedded))
	if err != nil {
		return nil, err
	}
	a, err := gen.NewAssembler(s, sel)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		db:      db,
		entity:  a.Entity(),
		dialect: a.Dialect(),
		ddl:     a.DDL(),
		stats:   &QueryStats{},
		slow:    100 * time.Millisecond,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.conn(db).exec(ctx, e.ddl); err != nil {
		return nil, fmt.Errorf("preview: create table: %w", err)
	}
	return e, nil
}

// Close closes the database.
func (e *Engine) Close() error { return e.db.Close() }

// DDL returns the statement the sample table was created with.
func (e *Engine) DDL() string { return e.ddl }

// Stats returns the statement statistics of the engine.
func (e *Engine) Stats() StatsSnapshot { return e.stats.Stats() }

func (e *Engine) conn(c execQuerier) statsConn {
	return statsConn{conn: c, stats: e.stats, slow: e.slow, log: e.log}
}

// Load inserts the rows in one transaction. Every row must hold a value for
// every attribute; values are converted to the attribute types.
func (e *Engine) Load(ctx context.Context, rows []predicate.Map) error {
	cols := make([]string, len(e.entity.Fields))
	phs := make([]string, len(e.entity.Fields))
	for i, f := range e.entity.Fields {
		cols[i] = e.dialect.Quote(f.Column())
		phs[i] = e.dialect.Placeholder(i + 1)
	}
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		e.dialect.Quote(e.entity.Table), strings.Join(cols, ", "), strings.Join(phs, ", "))

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("preview: begin: %w", err)
	}
	c := e.conn(tx)
	for i, row := range rows {
		args, err := e.values(row)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("preview: row %d: %w", i, err)
		}
		if err := c.exec(ctx, insert, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("preview: row %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("preview: commit: %w", err)
	}
	e.log.InfoContext(ctx, "rows loaded", "table", e.entity.Table, "rows", len(rows))
	return nil
}

func (e *Engine) values(row predicate.Map) ([]any, error) {
	for k := range row {
		if _, ok := e.entity.Field(k); !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownField, k)
		}
	}
	args := make([]any, len(e.entity.Fields))
	for i, f := range e.entity.Fields {
		v, ok := row[f.Name]
		if !ok || v == nil {
			return nil, fmt.Errorf("%w: missing value of %q", ErrInvalidRow, f.Name)
		}
		cv, err := coerce(f.Type, v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRow, f.Name, err)
		}
		args[i] = cv
	}
	return args, nil
}

// Result is the outcome of evaluating criteria against the sample table.
type Result struct {
	// Condition is the rendered SQL condition. It is empty when the
	// criteria add no condition.
	Condition string `json:"condition"`
	Args      []any  `json:"args"`
	// SQL holds the rows the database returned, ordered by identity.
	SQL []predicate.Map `json:"sql"`
	// Match holds the rows predicate.Match accepted, in load order.
	Match []predicate.Map `json:"match"`

	key string
}

// Agree reports if both evaluations selected the same identities.
func (r *Result) Agree() bool {
	return slices.Equal(r.ids(r.SQL), r.ids(r.Match))
}

// Mismatch returns the identities selected by only one of the evaluations.
func (r *Result) Mismatch() []string {
	sqlIDs, matchIDs := r.ids(r.SQL), r.ids(r.Match)
	var out []string
	for _, id := range sqlIDs {
		if _, ok := slices.BinarySearch(matchIDs, id); !ok {
			out = append(out, id)
		}
	}
	for _, id := range matchIDs {
		if _, ok := slices.BinarySearch(sqlIDs, id); !ok {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

func (r *Result) ids(rows []predicate.Map) []string {
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = fmt.Sprint(row[r.key])
	}
	slices.Sort(ids)
	return ids
}

// Query evaluates the criteria. rows are the sample rows evaluated with
// predicate.Match; they are usually the rows passed to Load.
func (e *Engine) Query(ctx context.Context, criteria []predicate.Criterion, rows []predicate.Map) (*Result, error) {
	p := predicate.Build(criteria)
	for _, name := range p.Fields() {
		if _, ok := e.entity.Field(name); !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownField, name)
		}
	}
	cond, args := p.SQLColumns(e.dialect, func(name string) string {
		f, _ := e.entity.Field(name)
		return f.Column()
	})
	res := &Result{Condition: cond, Args: args, key: e.entity.ID.Name}

	cols := make([]string, len(e.entity.Fields))
	for i, f := range e.entity.Fields {
		cols[i] = e.dialect.Quote(f.Column())
	}
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(cols, ", "), e.dialect.Quote(e.entity.Table))
	if cond != "" {
		query += " WHERE " + cond
	}
	query += " ORDER BY " + e.dialect.Quote(e.entity.ID.Column())

	sqlRows, err := e.conn(e.db).query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("preview: query: %w", err)
	}
	defer sqlRows.Close()
	for sqlRows.Next() {
		vs := make([]any, len(e.entity.Fields))
		ptrs := make([]any, len(vs))
		for i := range vs {
			ptrs[i] = &vs[i]
		}
		if err := sqlRows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("preview: scan: %w", err)
		}
		row := make(predicate.Map, len(vs))
		for i, f := range e.entity.Fields {
			v, err := coerce(f.Type, vs[i])
			if err != nil {
				return nil, fmt.Errorf("preview: scan %s: %w", f.Name, err)
			}
			row[f.Name] = v
		}
		res.SQL = append(res.SQL, row)
	}
	if err := sqlRows.Err(); err != nil {
		return nil, fmt.Errorf("preview: query: %w", err)
	}

	for _, row := range rows {
		typed := make(predicate.Map, len(row))
		for k, v := range row {
			typed[k] = v
			if f, ok := e.entity.Field(k); ok {
				if cv, err := coerce(f.Type, v); err == nil {
					typed[k] = cv
				}
			}
		}
		if p.Match(typed) {
			res.Match = append(res.Match, typed)
		}
	}
	e.log.DebugContext(ctx, "criteria evaluated", "condition", cond, "sql", len(res.SQL), "match", len(res.Match))
	return res, nil
}

// Run loads rows into a fresh in-memory engine and evaluates the criteria.
func Run(ctx context.Context, s *schema.Schema, rows []predicate.Map, criteria []predicate.Criterion, opts ...Option) (*Result, error) {
	e, err := Open(ctx, s, opts...)
	if err != nil {
		return nil, err
	}
	defer e.Close()
	if err := e.Load(ctx, rows); err != nil {
		return nil, err
	}
	return e.Query(ctx, criteria, rows)
}
