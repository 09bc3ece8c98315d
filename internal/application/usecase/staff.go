package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/domain/repository"
)

// staffRecipients devuelve los Telegram IDs del owner configurado y de todos los administradores.
func staffRecipients(ctx context.Context, users repository.UserRepository, ownerTelegramID int64) ([]int64, error) {
	staff, err := users.ListByRoles(ctx, entity.RoleAdmin, entity.RoleOwner)
	if err != nil {
		return nil, fmt.Errorf("listar administradores: %w", err)
	}
	ids := make([]int64, 0, len(staff)+1)
	if ownerTelegramID != 0 {
		ids = append(ids, ownerTelegramID)
	}
	for _, u := range staff {
		ids = append(ids, u.TelegramID)
	}
	return ids, nil
}
