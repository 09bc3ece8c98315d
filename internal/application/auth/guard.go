package auth

import (
	"context"
	"fmt"
	"slices"

	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/domain/repository"
)

// Capability operación restringida por rol.
type Capability string

const (
	CapVerify          Capability = "verify"           // aprobar / rechazar organizaciones
	CapManageResources Capability = "manage_resources" // cursos y concursos
	CapViewStats       Capability = "view_stats"       // estadísticas y auditoría
	CapManageAdmins    Capability = "manage_admins"    // alta / baja de administradores
)

var policy = map[Capability][]string{
	CapVerify:          {entity.RoleAdmin, entity.RoleOwner},
	CapManageResources: {entity.RoleAdmin, entity.RoleOwner},
	CapViewStats:       {entity.RoleAdmin, entity.RoleOwner},
	CapManageAdmins:    {entity.RoleOwner},
}

// Guard punto único de autorización para toda operación de admin u owner.
// El owner se identifica por configuración (OwnerTelegramID), no por el rol guardado.
type Guard struct {
	users           repository.UserRepository
	ownerTelegramID int64
}

// NewGuard construye el guard.
func NewGuard(users repository.UserRepository, ownerTelegramID int64) *Guard {
	return &Guard{users: users, ownerTelegramID: ownerTelegramID}
}

// IsOwner indica si telegramID es el owner configurado.
func (g *Guard) IsOwner(telegramID int64) bool {
	return g.ownerTelegramID != 0 && telegramID == g.ownerTelegramID
}

// EffectiveRole devuelve el rol con el que se evalúan los permisos del usuario.
func (g *Guard) EffectiveRole(u *entity.User) string {
	if u == nil {
		return ""
	}
	if g.IsOwner(u.TelegramID) {
		return entity.RoleOwner
	}
	if u.Role == entity.RoleOwner {
		// un rol owner persistido sin coincidir con la configuración no otorga privilegios
		return entity.RoleOrganization
	}
	return u.Role
}

// Allows evalúa la política sin tocar el almacenamiento.
func (g *Guard) Allows(u *entity.User, c Capability) bool {
	if u == nil || u.IsBlocked {
		return false
	}
	return slices.Contains(policy[c], g.EffectiveRole(u))
}

// Require carga al actor y comprueba la capacidad. Devuelve domain.ErrForbidden si no la tiene.
func (g *Guard) Require(ctx context.Context, telegramID int64, c Capability) (*entity.User, error) {
	u, err := g.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("guard: obtener usuario: %w", err)
	}
	if u == nil && g.IsOwner(telegramID) {
		return nil, fmt.Errorf("%w: el owner aún no inició el bot", domain.ErrForbidden)
	}
	if !g.Allows(u, c) {
		return nil, fmt.Errorf("%w: %s", domain.ErrForbidden, c)
	}
	return u, nil
}
