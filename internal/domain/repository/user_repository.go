package repository

import (
	"context"

	"github.com/jhoicas/partnerhub/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Las lecturas devuelven (nil, nil) cuando el registro no existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*entity.User, error)
	UpdateRole(ctx context.Context, id, role string) error
	ListByRoles(ctx context.Context, roles ...string) ([]*entity.User, error)
}
