// Package store is the query/mutation layer over the portal tables. Every
// failure leaving this package is a *domain.PersistenceError; reads that
// match nothing return empty slices or a false found flag.
package store

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"healthportal/m/domain"
	"healthportal/m/internal/cache"
)

// Store bundles the database handle and the read-through cache.
type Store struct {
	db    *sqlx.DB
	cache *cache.Cache
}

// New constructs a Store with its own cache.
func New(db *sqlx.DB) *Store {
	return &Store{db: db, cache: cache.New()}
}

func (s *Store) DB() *sqlx.DB { return s.db }

// Filter is a set of column equality conditions joined with AND.
type Filter map[string]any

// Row maps column names to values for inserts and updates.
type Row map[string]any

func sortedKeys[M ~map[string]any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (f Filter) where() (string, []any) {
	if len(f) == 0 {
		return "", nil
	}
	keys := sortedKeys(f)
	clauses := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		clauses[i] = k + " = ?"
		args[i] = f[k]
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &domain.PersistenceError{Op: op, Err: err}
}

// selectAll runs base with the filter's WHERE clause and an ORDER/LIMIT tail.
func selectAll(ctx context.Context, q sqlx.ExtContext, dest any, base string, f Filter, tail string) error {
	where, args := f.where()
	return sqlx.SelectContext(ctx, q, dest, q.Rebind(base+where+tail), args...)
}

// selectOne fetches a single row; found is false when nothing matched.
func selectOne(ctx context.Context, q sqlx.ExtContext, dest any, base string, f Filter) (bool, error) {
	where, args := f.where()
	err := sqlx.GetContext(ctx, q, dest, q.Rebind(base+where+" LIMIT 1"), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func insert(ctx context.Context, q sqlx.ExtContext, table string, row Row) error {
	cols := sortedKeys(row)
	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = row[c]
	}
	query := "INSERT INTO " + table + " (" + strings.Join(cols, ", ") + ") VALUES (" + placeholders(len(cols)) + ")"
	_, err := q.ExecContext(ctx, q.Rebind(query), args...)
	return err
}

func update(ctx context.Context, q sqlx.ExtContext, table string, set Row, f Filter) (int64, error) {
	cols := sortedKeys(set)
	assignments := make([]string, len(cols))
	args := make([]any, 0, len(cols)+len(f))
	for i, c := range cols {
		assignments[i] = c + " = ?"
		args = append(args, set[c])
	}
	where, whereArgs := f.where()
	args = append(args, whereArgs...)
	res, err := q.ExecContext(ctx, q.Rebind("UPDATE "+table+" SET "+strings.Join(assignments, ", ")+where), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func remove(ctx context.Context, q sqlx.ExtContext, table string, f Filter) (int64, error) {
	where, args := f.where()
	res, err := q.ExecContext(ctx, q.Rebind("DELETE FROM "+table+where), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// upsert inserts row or, when the conflict key already exists, applies
// assign (an UPDATE SET list that may refer to the excluded row).
func upsert(ctx context.Context, q sqlx.ExtContext, table string, row Row, conflict []string, assign string) error {
	cols := sortedKeys(row)
	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = row[c]
	}
	query := "INSERT INTO " + table + " (" + strings.Join(cols, ", ") + ") VALUES (" + placeholders(len(cols)) + ")" +
		" ON CONFLICT (" + strings.Join(conflict, ", ") + ") DO UPDATE SET " + assign
	_, err := q.ExecContext(ctx, q.Rebind(query), args...)
	return err
}

func count(ctx context.Context, q sqlx.ExtContext, table string, f Filter) (int, error) {
	where, args := f.where()
	var n int
	err := sqlx.GetContext(ctx, q, &n, q.Rebind("SELECT COUNT(*) FROM "+table+where), args...)
	return n, err
}

func itoa(n int) string { return strconv.Itoa(n) }

func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// inTx runs fn inside a transaction, rolling back on any error.
func (s *Store) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
