package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tripgrid/backoffice/internal/domain"
)

// ChildSet describes one collection of child rows to be written under a
// parent key. Columns excludes the foreign-key column; the writer injects
// the parent key as the first value of every row.
type ChildSet struct {
	Table    string
	FKColumn string
	Columns  []string
	Rows     [][]interface{}
}

// CompositeInsert is one all-or-nothing unit: a parent row plus any number
// of child sets.
type CompositeInsert struct {
	Table     string
	Columns   []string
	Values    []interface{}
	KeyColumn string
	Children  []ChildSet
}

// CompositeUpdate updates allowlisted parent fields and replaces child
// sets wholesale (delete-all then re-insert) in one transaction. Set may
// be empty when only the children change.
type CompositeUpdate struct {
	Table     string
	KeyColumn string
	Key       int64
	Set       *UpdateBuilder
	Children  []ChildSet
}

type CompositeResult struct {
	Key         int64
	ChildCounts map[string]int
}

// txConn is a dedicated connection scoped to one transaction. A
// *pgxpool.Conn satisfies it.
type txConn interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Release()
}

type connSource interface {
	Acquire(ctx context.Context) (txConn, error)
}

type poolSource struct {
	pool *pgxpool.Pool
}

func (s poolSource) Acquire(ctx context.Context) (txConn, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return conn, nil
}

// CompositeWriter persists parent/child units atomically. Every call
// checks out a dedicated connection, runs begin/commit/rollback on it and
// releases it on all exit paths.
type CompositeWriter struct {
	src connSource
}

func NewCompositeWriter(db *pgxpool.Pool) *CompositeWriter {
	return &CompositeWriter{src: poolSource{pool: db}}
}

func (w *CompositeWriter) Insert(ctx context.Context, in CompositeInsert) (*CompositeResult, error) {
	conn, err := w.src.Acquire(ctx)
	if err != nil {
		return nil, domain.Persistencef("acquire connection", err)
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, domain.Persistencef("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var key int64
	if err := tx.QueryRow(ctx, parentInsertSQL(in.Table, in.Columns, in.KeyColumn), in.Values...).Scan(&key); err != nil {
		return nil, domain.Persistencef("insert "+in.Table, err)
	}

	counts := make(map[string]int, len(in.Children))
	for _, cs := range in.Children {
		n, err := insertChildren(ctx, tx, cs, key)
		if err != nil {
			return nil, domain.Persistencef("insert "+cs.Table, err)
		}
		counts[cs.Table] = n
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.Persistencef("commit "+in.Table, err)
	}
	return &CompositeResult{Key: key, ChildCounts: counts}, nil
}

func (w *CompositeWriter) Replace(ctx context.Context, up CompositeUpdate) (*CompositeResult, error) {
	conn, err := w.src.Acquire(ctx)
	if err != nil {
		return nil, domain.Persistencef("acquire connection", err)
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, domain.Persistencef("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	if up.Set != nil && !up.Set.Empty() {
		clause, args := up.Set.Clause(1)
		sql := fmt.Sprintf(`UPDATE %s SET %s, updated_at = now() WHERE %s = $%d`, up.Table, clause, up.KeyColumn, len(args)+1)
		res, err := tx.Exec(ctx, sql, append(args, up.Key)...)
		if err != nil {
			return nil, domain.Persistencef("update "+up.Table, err)
		}
		if res.RowsAffected() == 0 {
			return nil, domain.NotFoundf("%s %d", up.Table, up.Key)
		}
	} else {
		var one int
		err := tx.QueryRow(ctx, fmt.Sprintf(`SELECT 1 FROM %s WHERE %s = $1`, up.Table, up.KeyColumn), up.Key).Scan(&one)
		if err == pgx.ErrNoRows {
			return nil, domain.NotFoundf("%s %d", up.Table, up.Key)
		}
		if err != nil {
			return nil, domain.Persistencef("lookup "+up.Table, err)
		}
	}

	counts := make(map[string]int, len(up.Children))
	for _, cs := range up.Children {
		sql := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, cs.Table, cs.FKColumn)
		if _, err := tx.Exec(ctx, sql, up.Key); err != nil {
			return nil, domain.Persistencef("clear "+cs.Table, err)
		}
		n, err := insertChildren(ctx, tx, cs, up.Key)
		if err != nil {
			return nil, domain.Persistencef("insert "+cs.Table, err)
		}
		counts[cs.Table] = n
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.Persistencef("commit "+up.Table, err)
	}
	return &CompositeResult{Key: up.Key, ChildCounts: counts}, nil
}

func parentInsertSQL(table string, columns []string, keyColumn string) string {
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "), keyColumn)
}

// childInsertSQL builds a single multi-row VALUES statement with the
// foreign-key column first in every tuple.
func childInsertSQL(cs ChildSet, rows int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES `, cs.Table, cs.FKColumn, strings.Join(cs.Columns, ", ")))
	width := len(cs.Columns) + 1
	for r := 0; r < rows; r++ {
		if r > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for c := 0; c < width; c++ {
			if c > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(fmt.Sprintf("$%d", r*width+c+1))
		}
		sb.WriteString(")")
	}
	return sb.String()
}

func insertChildren(ctx context.Context, tx pgx.Tx, cs ChildSet, parentKey int64) (int, error) {
	if len(cs.Rows) == 0 {
		return 0, nil
	}
	args := make([]interface{}, 0, len(cs.Rows)*(len(cs.Columns)+1))
	for _, row := range cs.Rows {
		if len(row) != len(cs.Columns) {
			return 0, fmt.Errorf("row has %d values, want %d", len(row), len(cs.Columns))
		}
		args = append(args, parentKey)
		args = append(args, row...)
	}
	if _, err := tx.Exec(ctx, childInsertSQL(cs, len(cs.Rows)), args...); err != nil {
		return 0, err
	}
	return len(cs.Rows), nil
}
