package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier subconjunto común de *pgxpool.Pool y pgx.Tx: los repos funcionan igual dentro o fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// noRows traduce pgx.ErrNoRows a (nil, nil), convención de las lecturas de los repos.
func noRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// validID indica si id puede compararse con una columna UUID. Los IDs llegan también desde
// callbacks y rutas HTTP; uno mal formado se trata como inexistente en lugar de error del driver.
func validID(id string) bool {
	return uuid.Validate(id) == nil
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
