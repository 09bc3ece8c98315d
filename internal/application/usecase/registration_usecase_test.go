package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/partnerhub/internal/application/auth"
	"github.com/jhoicas/partnerhub/internal/application/dto"
	"github.com/jhoicas/partnerhub/internal/application/notify"
	"github.com/jhoicas/partnerhub/internal/application/usecase"
	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
)

func newRegistration(f *fixture) *usecase.RegistrationUseCase {
	return usecase.NewRegistrationUseCase(f.store, f.store.Users(), f.store.Organizations(), f.guard, f.dispatch, ownerTG, nil)
}

func draft(inn string) dto.OrganizationDraft {
	return dto.OrganizationDraft{
		Name: "Ромашка", LegalForm: "ООО", OKVED: "62.01", INN: inn,
		Phone: "+79990000000", Email: "info@romashka.ru", Telegram: "@romashka",
		Description: "Разработка", Turnover: "До 3 млн",
		CanGive: []string{"Кадровое"}, Need: []string{"Площадка"},
		InteractionFormat: "Очно", PartnershipType: "Разовое", GDPRConsent: true,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// EnsureUser
// ──────────────────────────────────────────────────────────────────────────────

func TestEnsureUser_CreaUnaSolaVez(t *testing.T) {
	f := newFixture(t)
	uc := newRegistration(f)
	ctx := context.Background()
	actor := dto.Actor{TelegramID: 500, Username: "new", FullName: "Новый"}

	u1, err := uc.EnsureUser(ctx, actor)
	require.NoError(t, err)
	u2, err := uc.EnsureUser(ctx, actor)
	require.NoError(t, err)

	assert.Equal(t, u1.ID, u2.ID)
	assert.Equal(t, entity.RoleOrganization, u1.Role)
	assert.Equal(t, "new", u1.Username)
}

func TestEnsureUser_OwnerConfiguradoRecibeRolOwner(t *testing.T) {
	f := newFixture(t)
	guard := auth.NewGuard(f.store.Users(), memberTG)
	uc := usecase.NewRegistrationUseCase(f.store, f.store.Users(), f.store.Organizations(), guard, f.dispatch, memberTG, nil)
	ctx := context.Background()

	u, err := uc.EnsureUser(ctx, dto.Actor{TelegramID: memberTG})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleOwner, u.Role)

	stored, err := f.store.Users().GetByTelegramID(ctx, memberTG)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleOwner, stored.Role)

	u, err = uc.EnsureUser(ctx, dto.Actor{TelegramID: 501})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleOrganization, u.Role)
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterOrganization
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterOrganization_PersisteTodoYAvisaAlStaff(t *testing.T) {
	f := newFixture(t)
	uc := newRegistration(f)
	ctx := context.Background()

	org, ver, err := uc.RegisterOrganization(ctx, dto.Actor{TelegramID: memberTG}, draft("7707083893"))
	require.NoError(t, err)

	assert.Equal(t, entity.OrgStatusPending, org.VerificationStatus)
	assert.Equal(t, org.ID, ver.OrganizationID)
	assert.Equal(t, entity.VerificationPending, ver.Status)

	stored, err := f.store.Organizations().GetByINN(ctx, "7707083893")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "u-m", stored.UserID)

	logs := f.logs(t)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.ActionRegistration, logs[0].Action)

	toOwner := f.notifier.to(ownerTG)
	require.Len(t, toOwner, 1, "el owner recibe un solo aviso aunque también tenga rol owner")
	assert.Contains(t, toOwner[0].text, "Ромашка")
	assert.Equal(t, notify.VerificationButtons(ver.ID), toOwner[0].buttons)
	assert.Len(t, f.notifier.to(adminTG), 1)
	assert.Empty(t, f.notifier.to(memberTG))
}

func TestRegisterOrganization_INNDuplicado(t *testing.T) {
	f := newFixture(t)
	uc := newRegistration(f)

	_, _, err := uc.RegisterOrganization(context.Background(), dto.Actor{TelegramID: memberTG}, draft("1111111111"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Empty(t, f.logs(t))
	assert.Empty(t, f.notifier.out)
}

func TestRegisterOrganization_YaTieneOrganizacion(t *testing.T) {
	f := newFixture(t)
	uc := newRegistration(f)

	_, _, err := uc.RegisterOrganization(context.Background(), dto.Actor{TelegramID: orgATG}, draft("7707083893"))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegisterOrganization_SinConsentimientoOListasVacias(t *testing.T) {
	f := newFixture(t)
	uc := newRegistration(f)
	ctx := context.Background()

	d := draft("7707083893")
	d.GDPRConsent = false
	_, _, err := uc.RegisterOrganization(ctx, dto.Actor{TelegramID: memberTG}, d)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	d = draft("7707083893")
	d.Need = nil
	_, _, err = uc.RegisterOrganization(ctx, dto.Actor{TelegramID: memberTG}, d)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestINNTaken(t *testing.T) {
	f := newFixture(t)
	uc := newRegistration(f)

	taken, err := uc.INNTaken(context.Background(), "2222222222")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = uc.INNTaken(context.Background(), "9999999999")
	require.NoError(t, err)
	assert.False(t, taken)
}

// ──────────────────────────────────────────────────────────────────────────────
// RegisterMentor
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterMentor_AsignaRolMentor(t *testing.T) {
	f := newFixture(t)
	uc := newRegistration(f)
	ctx := context.Background()

	m, err := uc.RegisterMentor(ctx, dto.Actor{TelegramID: memberTG}, dto.MentorDraft{Name: "Пётр", Expertise: "Финансы"})
	require.NoError(t, err)
	assert.True(t, m.IsAvailable)

	u, err := f.store.Users().GetByTelegramID(ctx, memberTG)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleMentor, u.Role)

	_, err = uc.RegisterMentor(ctx, dto.Actor{TelegramID: memberTG}, dto.MentorDraft{Name: "Пётр"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestRegisterMentor_OrganizacionNoPuede(t *testing.T) {
	f := newFixture(t)
	uc := newRegistration(f)

	_, err := uc.RegisterMentor(context.Background(), dto.Actor{TelegramID: orgATG}, dto.MentorDraft{Name: "Альфа"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
