package verification_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/partnerhub/internal/application/auth"
	"github.com/jhoicas/partnerhub/internal/application/notify"
	"github.com/jhoicas/partnerhub/internal/application/verification"
	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/infrastructure/memory"
)

type fakeNotifier struct {
	mu  sync.Mutex
	out map[int64][]string
}

func (f *fakeNotifier) Notify(_ context.Context, telegramID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out[telegramID] = append(f.out[telegramID], text)
	return nil
}

const (
	ownerTG  = int64(1)
	adminTG  = int64(2)
	memberTG = int64(3)
	orgTG    = int64(4)
)

type fixture struct {
	uc       *verification.UseCase
	store    *memory.Store
	notifier *fakeNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Now()

	for _, u := range []entity.User{
		{ID: "u-owner", TelegramID: ownerTG, Role: entity.RoleOwner},
		{ID: "u-admin", TelegramID: adminTG, Role: entity.RoleAdmin},
		{ID: "u-member", TelegramID: memberTG, Role: entity.RoleOrganization},
		{ID: "u-org", TelegramID: orgTG, Role: entity.RoleOrganization},
	} {
		u.CreatedAt = now
		require.NoError(t, store.Users().Create(ctx, &u))
	}
	require.NoError(t, store.Organizations().Create(ctx, &entity.Organization{
		ID: "o-1", UserID: "u-org", Name: "Ромашка", INN: "7707083893",
		VerificationStatus: entity.OrgStatusPending, CreatedAt: now,
	}))
	require.NoError(t, store.Verifications().Create(ctx, &entity.Verification{
		ID: "v-1", OrganizationID: "o-1", Status: entity.VerificationPending, CreatedAt: now,
	}))

	n := &fakeNotifier{out: map[int64][]string{}}
	guard := auth.NewGuard(store.Users(), ownerTG)
	uc := verification.NewUseCase(store, store.Verifications(), guard, notify.NewDispatcher(n, nil), nil)
	return &fixture{uc: uc, store: store, notifier: n}
}

func (f *fixture) logs(t *testing.T) []*entity.Log {
	t.Helper()
	list, err := f.store.Logs().ListRecent(context.Background(), 0)
	require.NoError(t, err)
	return list
}

func (f *fixture) org(t *testing.T) *entity.Organization {
	t.Helper()
	o, err := f.store.Organizations().GetByID(context.Background(), "o-1")
	require.NoError(t, err)
	return o
}

// ──────────────────────────────────────────────────────────────────────────────
// Aprobación y rechazo
// ──────────────────────────────────────────────────────────────────────────────

func TestApprove_Admin_VerificaOrganizacionYAvisa(t *testing.T) {
	f := newFixture(t)

	view, err := f.uc.Approve(context.Background(), adminTG, "v-1", "Добро пожаловать")
	require.NoError(t, err)

	assert.Equal(t, entity.VerificationApproved, view.Verification.Status)
	require.NotNil(t, view.Verification.AdminID)
	assert.Equal(t, "u-admin", *view.Verification.AdminID)
	assert.NotNil(t, view.Verification.VerifiedAt)
	assert.Equal(t, entity.OrgStatusVerified, f.org(t).VerificationStatus)

	logs := f.logs(t)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.ActionVerificationApprove, logs[0].Action)
	assert.Equal(t, "o-1", logs[0].Details["organization_id"])

	msgs := f.notifier.out[orgTG]
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "верифицирована")
	assert.Contains(t, msgs[0], "Добро пожаловать")
}

func TestReject_SinMotivo_UsaElMotivoPorDefecto(t *testing.T) {
	f := newFixture(t)

	view, err := f.uc.Reject(context.Background(), ownerTG, "v-1", "", "")
	require.NoError(t, err)

	assert.Equal(t, entity.VerificationRejected, view.Verification.Status)
	assert.Equal(t, entity.DefaultRejectionReason, view.Verification.RejectionReason)
	assert.Equal(t, entity.OrgStatusRejected, f.org(t).VerificationStatus)

	logs := f.logs(t)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.ActionVerificationReject, logs[0].Action)
	assert.Equal(t, entity.DefaultRejectionReason, logs[0].Details["reason"])
	assert.Contains(t, f.notifier.out[orgTG][0], entity.DefaultRejectionReason)
}

func TestDecision_SolicitudYaDecidida_Conflicto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Approve(ctx, adminTG, "v-1", "")
	require.NoError(t, err)

	_, err = f.uc.Reject(ctx, ownerTG, "v-1", "tarde", "")
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.uc.Approve(ctx, ownerTG, "v-1", "")
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.Equal(t, entity.OrgStatusVerified, f.org(t).VerificationStatus)
	assert.Len(t, f.logs(t), 1)
	assert.Len(t, f.notifier.out[orgTG], 1)
}

func TestDecision_SolicitudInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Approve(context.Background(), adminTG, "v-zzz", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Permisos
// ──────────────────────────────────────────────────────────────────────────────

func TestDecision_NoAdmin_SinCambiosNiLog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Approve(ctx, memberTG, "v-1", "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.uc.Reject(ctx, 999, "v-1", "", "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	assert.Equal(t, entity.OrgStatusPending, f.org(t).VerificationStatus)
	assert.Empty(t, f.logs(t))
	assert.Empty(t, f.notifier.out)
}

func TestListPending_SoloStaff(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list, err := f.uc.ListPending(ctx, adminTG)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "v-1", list[0].Verification.ID)
	assert.Equal(t, "Ромашка", list[0].Organization.Name)
	assert.Equal(t, orgTG, list[0].Owner.TelegramID)

	_, err = f.uc.ListPending(ctx, memberTG)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListPending_TrasDecidir_Vacia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Reject(ctx, adminTG, "v-1", "Документы", "")
	require.NoError(t, err)

	list, err := f.uc.ListPending(ctx, adminTG)
	require.NoError(t, err)
	assert.Empty(t, list)
}
