package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/partnerhub/internal/application/auth"
	"github.com/jhoicas/partnerhub/internal/application/dto"
	"github.com/jhoicas/partnerhub/internal/application/notify"
	"github.com/jhoicas/partnerhub/internal/application/ports"
	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// RecentLogsLimit tamaño del visor de auditoría.
const RecentLogsLimit = 20

// AdminUseCase estadísticas, auditoría y gestión de administradores.
type AdminUseCase struct {
	tx       ports.TxRunner
	users    repository.UserRepository
	logs     repository.LogRepository
	stats    repository.StatsRepository
	guard    *auth.Guard
	notifier *notify.Dispatcher
	now      func() time.Time
}

// NewAdminUseCase construye el caso de uso de administración.
func NewAdminUseCase(
	tx ports.TxRunner,
	users repository.UserRepository,
	logs repository.LogRepository,
	stats repository.StatsRepository,
	guard *auth.Guard,
	notifier *notify.Dispatcher,
) *AdminUseCase {
	return &AdminUseCase{tx: tx, users: users, logs: logs, stats: stats, guard: guard, notifier: notifier, now: time.Now}
}

// Stats agrega contadores y ratios.
func (uc *AdminUseCase) Stats(ctx context.Context, actorTelegramID int64) (*dto.StatsResponse, error) {
	if _, err := uc.guard.Require(ctx, actorTelegramID, auth.CapViewStats); err != nil {
		return nil, err
	}
	s, err := uc.stats.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("estadísticas: %w", err)
	}
	return toStatsResponse(s), nil
}

func toStatsResponse(s *entity.Statistics) *dto.StatsResponse {
	share := decimal.Zero
	if s.TotalOrgs > 0 {
		share = decimal.NewFromInt(int64(s.VerifiedOrgs)).
			Div(decimal.NewFromInt(int64(s.TotalOrgs))).
			Mul(decimal.NewFromInt(100))
	}
	perOrg := decimal.Zero
	if s.VerifiedOrgs > 0 {
		perOrg = decimal.NewFromInt(int64(s.TotalMatches)).Div(decimal.NewFromInt(int64(s.VerifiedOrgs)))
	}
	return &dto.StatsResponse{
		TotalUsers:       s.TotalUsers,
		TotalOrgs:        s.TotalOrgs,
		VerifiedOrgs:     s.VerifiedOrgs,
		PendingOrgs:      s.PendingOrgs,
		TotalMatches:     s.TotalMatches,
		VerifiedShare:    share.StringFixed(2),
		MatchesPerVerOrg: perOrg.StringFixed(2),
	}
}

// RecentLogs últimas entradas de auditoría (limit <= 0 usa RecentLogsLimit).
func (uc *AdminUseCase) RecentLogs(ctx context.Context, actorTelegramID int64, limit int) ([]*entity.Log, error) {
	if _, err := uc.guard.Require(ctx, actorTelegramID, auth.CapViewStats); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = RecentLogsLimit
	}
	return uc.logs.ListRecent(ctx, limit)
}

// ListAdmins administradores actuales (solo owner).
func (uc *AdminUseCase) ListAdmins(ctx context.Context, actorTelegramID int64) ([]*entity.User, error) {
	if _, err := uc.guard.Require(ctx, actorTelegramID, auth.CapManageAdmins); err != nil {
		return nil, err
	}
	return uc.users.ListByRoles(ctx, entity.RoleAdmin)
}

// AddAdmin eleva a admin a un usuario existente. Solo el owner.
func (uc *AdminUseCase) AddAdmin(ctx context.Context, actorTelegramID, targetTelegramID int64) (*entity.User, error) {
	owner, err := uc.guard.Require(ctx, actorTelegramID, auth.CapManageAdmins)
	if err != nil {
		return nil, err
	}
	target, err := uc.users.GetByTelegramID(ctx, targetTelegramID)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if target == nil {
		return nil, domain.ErrUserNotFound
	}
	if target.IsStaff() || uc.guard.IsOwner(target.TelegramID) {
		return nil, fmt.Errorf("%w: el usuario ya es administrador", domain.ErrConflict)
	}
	if err := uc.changeRole(ctx, owner, target, entity.RoleAdmin, entity.ActionAddAdmin); err != nil {
		return nil, err
	}
	uc.notifier.Send(ctx, target.TelegramID, "🎉 Вам выданы права администратора!\n\nИспользуйте /admin для доступа к панели администратора.")
	return target, nil
}

// RemoveAdmin devuelve a un admin al rol organization. Solo el owner.
func (uc *AdminUseCase) RemoveAdmin(ctx context.Context, actorTelegramID, targetTelegramID int64) (*entity.User, error) {
	owner, err := uc.guard.Require(ctx, actorTelegramID, auth.CapManageAdmins)
	if err != nil {
		return nil, err
	}
	target, err := uc.users.GetByTelegramID(ctx, targetTelegramID)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if target == nil {
		return nil, domain.ErrUserNotFound
	}
	if target.Role != entity.RoleAdmin {
		return nil, fmt.Errorf("%w: el usuario no es administrador", domain.ErrConflict)
	}
	if err := uc.changeRole(ctx, owner, target, entity.RoleOrganization, entity.ActionRemoveAdmin); err != nil {
		return nil, err
	}
	uc.notifier.Send(ctx, target.TelegramID, "Ваши права администратора были отозваны.")
	return target, nil
}

func (uc *AdminUseCase) changeRole(ctx context.Context, owner, target *entity.User, role, action string) error {
	err := uc.tx.Run(ctx, func(repos ports.Repositories) error {
		if err := repos.Users.UpdateRole(ctx, target.ID, role); err != nil {
			return fmt.Errorf("actualizar rol: %w", err)
		}
		return repos.Logs.Create(ctx, &entity.Log{
			ID:        uuid.New().String(),
			UserID:    &owner.ID,
			Action:    action,
			Details:   map[string]any{"telegram_id": target.TelegramID},
			CreatedAt: uc.now(),
		})
	})
	if err != nil {
		return err
	}
	target.Role = role
	return nil
}
