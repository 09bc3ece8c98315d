package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/partnerhub/internal/application/usecase"
	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
)

func newAdmin(f *fixture) *usecase.AdminUseCase {
	return usecase.NewAdminUseCase(f.store, f.store.Users(), f.store.Logs(), f.store.Stats(), f.guard, f.dispatch)
}

// ──────────────────────────────────────────────────────────────────────────────
// Estadísticas y auditoría
// ──────────────────────────────────────────────────────────────────────────────

func TestStats_RatiosConDosDecimales(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Organizations().Create(ctx, &entity.Organization{
		ID: "o-m", UserID: "u-m", INN: "3333333333", VerificationStatus: entity.OrgStatusPending,
	}))

	s, err := newAdmin(f).Stats(ctx, adminTG)
	require.NoError(t, err)

	assert.Equal(t, 5, s.TotalUsers)
	assert.Equal(t, 3, s.TotalOrgs)
	assert.Equal(t, 2, s.VerifiedOrgs)
	assert.Equal(t, 1, s.PendingOrgs)
	assert.Equal(t, 1, s.TotalMatches)
	assert.Equal(t, "66.67", s.VerifiedShare)
	assert.Equal(t, "0.50", s.MatchesPerVerOrg)
}

func TestStats_MiembroSinPermiso(t *testing.T) {
	f := newFixture(t)
	_, err := newAdmin(f).Stats(context.Background(), orgATG)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRecentLogs_LimiteFueraDeRango(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for range usecase.RecentLogsLimit + 5 {
		require.NoError(t, f.store.Logs().Create(ctx, &entity.Log{ID: "l", Action: entity.ActionLike}))
	}
	uc := newAdmin(f)

	list, err := uc.RecentLogs(ctx, adminTG, 0)
	require.NoError(t, err)
	assert.Len(t, list, usecase.RecentLogsLimit)

	list, err = uc.RecentLogs(ctx, adminTG, 3)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	list, err = uc.RecentLogs(ctx, adminTG, 1000)
	require.NoError(t, err)
	assert.Len(t, list, usecase.RecentLogsLimit)
}

// ──────────────────────────────────────────────────────────────────────────────
// Gestión de administradores
// ──────────────────────────────────────────────────────────────────────────────

func TestAddAdmin_OwnerElevaYAvisa(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := newAdmin(f)

	u, err := uc.AddAdmin(ctx, ownerTG, memberTG)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, u.Role)

	admins, err := uc.ListAdmins(ctx, ownerTG)
	require.NoError(t, err)
	assert.Len(t, admins, 2)

	logs := f.logs(t)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.ActionAddAdmin, logs[0].Action)
	assert.Len(t, f.notifier.to(memberTG), 1)

	_, err = uc.AddAdmin(ctx, ownerTG, memberTG)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAddAdmin_SoloOwner(t *testing.T) {
	f := newFixture(t)
	_, err := newAdmin(f).AddAdmin(context.Background(), adminTG, memberTG)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, f.logs(t))
}

func TestAddAdmin_UsuarioDesconocido(t *testing.T) {
	f := newFixture(t)
	_, err := newAdmin(f).AddAdmin(context.Background(), ownerTG, 777)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestRemoveAdmin_DevuelveRolOrganizacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := newAdmin(f)

	u, err := uc.RemoveAdmin(ctx, ownerTG, adminTG)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleOrganization, u.Role)

	_, err = uc.RemoveAdmin(ctx, ownerTG, adminTG)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = uc.RemoveAdmin(ctx, ownerTG, ownerTG)
	assert.ErrorIs(t, err, domain.ErrConflict, "el owner no se puede degradar")
}
