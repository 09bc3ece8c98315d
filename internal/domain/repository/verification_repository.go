package repository

import (
	"context"

	"github.com/jhoicas/partnerhub/internal/domain/entity"
)

// VerificationRepository define el puerto de persistencia para Verification.
type VerificationRepository interface {
	Create(ctx context.Context, v *entity.Verification) error
	GetByID(ctx context.Context, id string) (*entity.Verification, error)
	Update(ctx context.Context, v *entity.Verification) error
	// GetView devuelve verificación, organización y dueño en una sola lectura.
	GetView(ctx context.Context, id string) (*entity.VerificationView, error)
	ListPendingViews(ctx context.Context) ([]*entity.VerificationView, error)
}
