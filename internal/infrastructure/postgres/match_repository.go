package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/domain/repository"
)

var (
	_ repository.LikeRepository  = (*LikeRepo)(nil)
	_ repository.MatchRepository = (*MatchRepo)(nil)
)

// LikeRepo aristas de interés entre organizaciones.
type LikeRepo struct {
	db Querier
}

// NewLikeRepository construye el adaptador de likes.
func NewLikeRepository(db Querier) *LikeRepo {
	return &LikeRepo{db: db}
}

// Create registra un like. Los duplicados están permitidos.
func (r *LikeRepo) Create(ctx context.Context, l *entity.Like) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO likes (id, from_org_id, to_org_id, created_at) VALUES ($1, $2, $3, $4)`,
		l.ID, l.FromOrgID, l.ToOrgID, l.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert like: %w", err)
	}
	return nil
}

// Exists indica si hay al menos un like de fromOrgID hacia toOrgID.
func (r *LikeRepo) Exists(ctx context.Context, fromOrgID, toOrgID string) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM likes WHERE from_org_id = $1 AND to_org_id = $2)`,
		fromOrgID, toOrgID).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("like exists: %w", err)
	}
	return ok, nil
}

// MatchRepo matches entre organizaciones.
type MatchRepo struct {
	db Querier
}

// NewMatchRepository construye el adaptador de matches.
func NewMatchRepository(db Querier) *MatchRepo {
	return &MatchRepo{db: db}
}

// LockPair toma un advisory lock transaccional sobre el par no ordenado.
// Fuera de una transacción el lock se libera al terminar la sentencia.
func (r *MatchRepo) LockPair(ctx context.Context, orgA, orgB string) error {
	if orgB < orgA {
		orgA, orgB = orgB, orgA
	}
	if _, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, orgA+":"+orgB); err != nil {
		return fmt.Errorf("lock pair: %w", err)
	}
	return nil
}

// CreateIfAbsent inserta el match salvo que el par ya tenga uno activo.
func (r *MatchRepo) CreateIfAbsent(ctx context.Context, m *entity.Match) (bool, error) {
	query := `
		INSERT INTO matches (id, org1_id, org2_id, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ((LEAST(org1_id, org2_id)), (GREATEST(org1_id, org2_id))) WHERE is_active DO NOTHING`
	tag, err := r.db.Exec(ctx, query, m.ID, m.Org1ID, m.Org2ID, m.IsActive, m.CreatedAt)
	if err != nil {
		return false, fmt.Errorf("insert match: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListActiveByOrganization matches activos en los que participa orgID, más recientes primero.
func (r *MatchRepo) ListActiveByOrganization(ctx context.Context, orgID string) ([]*entity.Match, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, org1_id, org2_id, is_active, created_at
		FROM matches
		WHERE is_active AND (org1_id = $1 OR org2_id = $1)
		ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Match
	for rows.Next() {
		var m entity.Match
		if err := rows.Scan(&m.ID, &m.Org1ID, &m.Org2ID, &m.IsActive, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
