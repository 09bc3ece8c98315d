package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/partnerhub/internal/application/ports"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos ports.Repositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepositories(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// NewRepositories construye el conjunto de repos sobre db (pool o transacción).
func NewRepositories(db Querier) ports.Repositories {
	return ports.Repositories{
		Users:         NewUserRepository(db),
		Organizations: NewOrganizationRepository(db),
		Verifications: NewVerificationRepository(db),
		Likes:         NewLikeRepository(db),
		Matches:       NewMatchRepository(db),
		Mentors:       NewMentorRepository(db),
		Resources:     NewResourceRepository(db),
		News:          NewNewsRepository(db),
		Contracts:     NewContractRepository(db),
		Logs:          NewLogRepository(db),
	}
}
