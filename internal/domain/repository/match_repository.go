package repository

import (
	"context"

	"github.com/jhoicas/partnerhub/internal/domain/entity"
)

// LikeRepository puerto para las aristas de interés (append-only, admite duplicados).
type LikeRepository interface {
	Create(ctx context.Context, like *entity.Like) error
	Exists(ctx context.Context, fromOrgID, toOrgID string) (bool, error)
}

// MatchRepository puerto para los matches.
type MatchRepository interface {
	// LockPair serializa las transacciones que operan sobre el mismo par no ordenado.
	LockPair(ctx context.Context, orgA, orgB string) error
	// CreateIfAbsent inserta el match salvo que ya exista uno activo para el par.
	CreateIfAbsent(ctx context.Context, m *entity.Match) (bool, error)
	ListActiveByOrganization(ctx context.Context, orgID string) ([]*entity.Match, error)
}
