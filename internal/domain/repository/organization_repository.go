package repository

import (
	"context"

	"github.com/jhoicas/partnerhub/internal/domain/entity"
)

// OrganizationRepository define el puerto de persistencia para Organization.
type OrganizationRepository interface {
	// Create devuelve domain.ErrDuplicate si el INN o el usuario ya tienen organización.
	Create(ctx context.Context, org *entity.Organization) error
	GetByID(ctx context.Context, id string) (*entity.Organization, error)
	GetByUserID(ctx context.Context, userID string) (*entity.Organization, error)
	GetByINN(ctx context.Context, inn string) (*entity.Organization, error)
	UpdateVerificationStatus(ctx context.Context, id, status string) error
	// ListCandidates devuelve organizaciones verificadas, distintas de orgID, con el mismo
	// rango de facturación y sin like previo de orgID, en orden de almacenamiento.
	ListCandidates(ctx context.Context, orgID, turnover string) ([]*entity.Organization, error)
}
