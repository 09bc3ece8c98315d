package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/domain/repository"
)

var (
	_ repository.LogRepository   = (*LogRepo)(nil)
	_ repository.StatsRepository = (*StatsRepo)(nil)
)

// LogRepo auditoría append-only.
type LogRepo struct {
	db Querier
}

// NewLogRepository construye el adaptador de auditoría.
func NewLogRepository(db Querier) *LogRepo {
	return &LogRepo{db: db}
}

// Create añade una entrada. Details se guarda como JSONB.
func (r *LogRepo) Create(ctx context.Context, l *entity.Log) error {
	details := l.Details
	if details == nil {
		details = map[string]any{}
	}
	_, err := r.db.Exec(ctx,
		`INSERT INTO logs (id, user_id, action, details, created_at) VALUES ($1, $2, $3, $4, $5)`,
		l.ID, nullable(l.UserID), l.Action, details, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert log: %w", err)
	}
	return nil
}

// ListRecent últimas entradas.
func (r *LogRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Log, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, action, details, created_at FROM logs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()
	var list []*entity.Log
	for rows.Next() {
		var l entity.Log
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.Details, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// StatsRepo contadores agregados para el panel de administración.
type StatsRepo struct {
	db Querier
}

// NewStatsRepository construye el adaptador de estadísticas.
func NewStatsRepository(db Querier) *StatsRepo {
	return &StatsRepo{db: db}
}

// Collect cuenta usuarios, organizaciones por estado y matches activos en una sola consulta.
func (r *StatsRepo) Collect(ctx context.Context) (*entity.Statistics, error) {
	var s entity.Statistics
	err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM users),
			(SELECT count(*) FROM organizations),
			(SELECT count(*) FROM organizations WHERE verification_status = 'verified'),
			(SELECT count(*) FROM organizations WHERE verification_status = 'pending'),
			(SELECT count(*) FROM matches WHERE is_active)`).Scan(
		&s.TotalUsers, &s.TotalOrgs, &s.VerifiedOrgs, &s.PendingOrgs, &s.TotalMatches)
	if err != nil {
		return nil, fmt.Errorf("collect stats: %w", err)
	}
	return &s, nil
}
