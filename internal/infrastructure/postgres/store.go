package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/cornucopia-api/internal/domain/repository"
)

const uniqueViolation = "23505"

// mapErr converts driver errors into repository sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}

// refs implements repository.RefStore for one table. Both mutations are a
// single UPDATE, so concurrent link/unlink on the same row cannot lose writes.
type refs struct {
	pool    *pgxpool.Pool
	table   string
	columns map[repository.RefField]string
}

func (r refs) column(field repository.RefField) (string, error) {
	col, ok := r.columns[field]
	if !ok {
		return "", fmt.Errorf("%s has no %q references", r.table, field)
	}
	return col, nil
}

func (r refs) AppendRef(ctx context.Context, parentID string, field repository.RefField, childID string) error {
	col, err := r.column(field)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(
		`UPDATE %s SET %s = array_append(%s, $2) WHERE id = $1 AND NOT ($2 = ANY(%s))`,
		r.table, col, col, col), parentID, childID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	// Either the parent is missing or the id was already linked.
	var exists bool
	if err := r.pool.QueryRow(ctx, fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, r.table), parentID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return repository.ErrNotFound
	}
	return nil
}

func (r refs) RemoveRef(ctx context.Context, parentID string, field repository.RefField, childID string) error {
	col, err := r.column(field)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, fmt.Sprintf(
		`UPDATE %s SET %s = array_remove(%s, $2) WHERE id = $1 AND $2 = ANY(%s)`,
		r.table, col, col, col), parentID, childID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// setList collects the SET clause of a partial update.
type setList struct {
	cols []string
	args []any
}

func (s *setList) add(col string, v any) {
	s.args = append(s.args, v)
	s.cols = append(s.cols, col+" = $"+strconv.Itoa(len(s.args)))
}

func (s *setList) empty() bool { return len(s.cols) == 0 }

// update builds "UPDATE table SET ... WHERE id = $n RETURNING returning".
func (s *setList) update(table, id, returning string) (string, []any) {
	args := append(s.args, id)
	q := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $%d RETURNING %s`,
		table, strings.Join(s.cols, ", "), len(args), returning)
	return q, args
}

// orderByIDs returns items sorted to match ids; ids without an item are skipped.
func orderByIDs[T any](ids []string, items []T, idOf func(T) string) []T {
	byID := make(map[string]T, len(items))
	for _, it := range items {
		byID[idOf(it)] = it
	}
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			out = append(out, it)
		}
	}
	return out
}
