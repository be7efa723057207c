package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jmoiron/sqlx"
)

// Tables exposed by the remote store.
const (
	TableUser               = "User"
	TableQuestion           = "Question"
	TableInterview          = "Interview"
	TableEmailVerifications = "email_verifications"
)

var knownTables = map[string]struct{}{
	TableUser:               {},
	TableQuestion:           {},
	TableInterview:          {},
	TableEmailVerifications: {},
}

var columnPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

var (
	ErrUnknownTable     = errors.New("unknown table")
	ErrInvalidColumn    = errors.New("invalid column name")
	ErrUnscopedMutation = errors.New("update and delete require at least one filter")
	ErrEmptyRow         = errors.New("row has no columns")
)

// Filter is a comparison predicate on one column.
type Filter struct {
	Column string
	Op     string
	Value  interface{}
}

func Eq(column string, value interface{}) Filter {
	return Filter{Column: column, Op: "=", Value: value}
}

func Neq(column string, value interface{}) Filter {
	return Filter{Column: column, Op: "<>", Value: value}
}

type selectQuery struct {
	filters []Filter
	orderBy string
	desc    bool
	limit   int
}

type QueryOption func(*selectQuery)

func Where(filters ...Filter) QueryOption {
	return func(q *selectQuery) { q.filters = append(q.filters, filters...) }
}

func OrderBy(column string, desc bool) QueryOption {
	return func(q *selectQuery) {
		q.orderBy = column
		q.desc = desc
	}
}

func Limit(n int) QueryOption {
	return func(q *selectQuery) { q.limit = n }
}

// TableStore is table-scoped CRUD with filter predicates over the remote store.
type TableStore interface {
	// Select scans matching rows into dest, a pointer to a slice of structs.
	Select(ctx context.Context, table string, dest interface{}, opts ...QueryOption) error
	// Insert stores row and, when dest is non-nil, scans the stored row into it.
	Insert(ctx context.Context, table string, row map[string]interface{}, dest interface{}) error
	Update(ctx context.Context, table string, patch map[string]interface{}, filters ...Filter) (int64, error)
	Delete(ctx context.Context, table string, filters ...Filter) (int64, error)
}

type sqlxTableStore struct {
	db DBTX
}

// NewTableStore creates a TableStore backed by a Postgres connection.
func NewTableStore(db *sqlx.DB) TableStore {
	return &sqlxTableStore{db: db}
}

func quoteTable(table string) (string, error) {
	if _, ok := knownTables[table]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	return pgx.Identifier{table}.Sanitize(), nil
}

func quoteColumn(column string) (string, error) {
	if !columnPattern.MatchString(column) {
		return "", fmt.Errorf("%w: %q", ErrInvalidColumn, column)
	}
	return pgx.Identifier{column}.Sanitize(), nil
}

// whereClause renders filters starting at placeholder $start.
func whereClause(filters []Filter, start int) (string, []interface{}, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}
	parts := make([]string, 0, len(filters))
	args := make([]interface{}, 0, len(filters))
	for i, f := range filters {
		col, err := quoteColumn(f.Column)
		if err != nil {
			return "", nil, err
		}
		op := f.Op
		if op != "<>" {
			op = "="
		}
		parts = append(parts, fmt.Sprintf("%s %s $%d", col, op, start+i))
		args = append(args, f.Value)
	}
	return " WHERE " + strings.Join(parts, " AND "), args, nil
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *sqlxTableStore) Select(ctx context.Context, table string, dest interface{}, opts ...QueryOption) error {
	q := &selectQuery{}
	for _, opt := range opts {
		opt(q)
	}

	tbl, err := quoteTable(table)
	if err != nil {
		return err
	}
	where, args, err := whereClause(q.filters, 1)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("SELECT * FROM ")
	sb.WriteString(tbl)
	sb.WriteString(where)
	if q.orderBy != "" {
		col, err := quoteColumn(q.orderBy)
		if err != nil {
			return err
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(col)
		if q.desc {
			sb.WriteString(" DESC")
		}
	}
	if q.limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.limit)
	}

	if err := GetExecutor(ctx, s.db).SelectContext(ctx, dest, sb.String(), args...); err != nil {
		return fmt.Errorf("select from %s: %w", table, err)
	}
	return nil
}

func (s *sqlxTableStore) Insert(ctx context.Context, table string, row map[string]interface{}, dest interface{}) error {
	if len(row) == 0 {
		return ErrEmptyRow
	}
	tbl, err := quoteTable(table)
	if err != nil {
		return err
	}

	keys := sortedKeys(row)
	cols := make([]string, 0, len(keys))
	placeholders := make([]string, 0, len(keys))
	args := make([]interface{}, 0, len(keys))
	for i, k := range keys {
		col, err := quoteColumn(k)
		if err != nil {
			return err
		}
		cols = append(cols, col)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
		args = append(args, row[k])
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", tbl, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	exec := GetExecutor(ctx, s.db)
	if dest == nil {
		if _, err := exec.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
		return nil
	}

	if err := exec.QueryRowxContext(ctx, query+" RETURNING *", args...).StructScan(dest); err != nil {
		return fmt.Errorf("insert into %s: %w", table, err)
	}
	return nil
}

func (s *sqlxTableStore) Update(ctx context.Context, table string, patch map[string]interface{}, filters ...Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, ErrUnscopedMutation
	}
	if len(patch) == 0 {
		return 0, ErrEmptyRow
	}
	tbl, err := quoteTable(table)
	if err != nil {
		return 0, err
	}

	keys := sortedKeys(patch)
	sets := make([]string, 0, len(keys))
	args := make([]interface{}, 0, len(keys)+len(filters))
	for i, k := range keys {
		col, err := quoteColumn(k)
		if err != nil {
			return 0, err
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+1))
		args = append(args, patch[k])
	}
	where, whereArgs, err := whereClause(filters, len(keys)+1)
	if err != nil {
		return 0, err
	}
	args = append(args, whereArgs...)

	query := fmt.Sprintf("UPDATE %s SET %s%s", tbl, strings.Join(sets, ", "), where)
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("update %s: %w", table, err)
	}
	return rowsAffected(res)
}

func (s *sqlxTableStore) Delete(ctx context.Context, table string, filters ...Filter) (int64, error) {
	if len(filters) == 0 {
		return 0, ErrUnscopedMutation
	}
	tbl, err := quoteTable(table)
	if err != nil {
		return 0, err
	}
	where, args, err := whereClause(filters, 1)
	if err != nil {
		return 0, err
	}

	res, err := GetExecutor(ctx, s.db).ExecContext(ctx, "DELETE FROM "+tbl+where, args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", table, err)
	}
	return rowsAffected(res)
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
