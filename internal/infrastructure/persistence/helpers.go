package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// isUniqueViolation сообщает, нарушено ли ограничение уникальности constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return string(pqErr.Code) == uniqueViolation && pqErr.Constraint == constraint
}

// getOne читает одну строку и подменяет sql.ErrNoRows на notFound.
func getOne[T any](ctx context.Context, q sqlx.QueryerContext, notFound error, query string, args ...any) (*T, error) {
	var row T
	if err := sqlx.GetContext(ctx, q, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound
		}
		return nil, err
	}
	return &row, nil
}

// mustAffect возвращает notFound, если запрос не изменил ни одной строки.
func mustAffect(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

// setClause собирает SET-часть UPDATE из заданных полей патча.
type setClause struct {
	cols []string
	args []any
}

func (s *setClause) add(col string, val any) {
	s.args = append(s.args, val)
	s.cols = append(s.cols, fmt.Sprintf("%s = $%d", col, len(s.args)))
}

// update выполняет UPDATE table SET ... WHERE id = ?.
func (s *setClause) update(ctx context.Context, q sqlx.ExecerContext, table string, id any, notFound error) error {
	s.args = append(s.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d", table, strings.Join(s.cols, ", "), len(s.args))
	res, err := q.ExecContext(ctx, query, s.args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return mustAffect(res, notFound)
}
