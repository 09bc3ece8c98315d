package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/partnerhub/internal/application/auth"
	"github.com/jhoicas/partnerhub/internal/application/dto"
	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/infrastructure/memory"
	"github.com/jhoicas/partnerhub/pkg/jwt"
)

const (
	ownerTG   = int64(1)
	adminTG   = int64(2)
	memberTG  = int64(3)
	blockedTG = int64(4)
	spoofTG   = int64(5)
)

func newGuard(t *testing.T) *auth.Guard {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	for _, u := range []entity.User{
		{ID: "u-owner", TelegramID: ownerTG, Role: entity.RoleOrganization},
		{ID: "u-admin", TelegramID: adminTG, Role: entity.RoleAdmin},
		{ID: "u-member", TelegramID: memberTG, Role: entity.RoleOrganization},
		{ID: "u-blocked", TelegramID: blockedTG, Role: entity.RoleAdmin, IsBlocked: true},
		{ID: "u-spoof", TelegramID: spoofTG, Role: entity.RoleOwner},
	} {
		require.NoError(t, store.Users().Create(ctx, &u))
	}
	return auth.NewGuard(store.Users(), ownerTG)
}

// ──────────────────────────────────────────────────────────────────────────────
// Guard
// ──────────────────────────────────────────────────────────────────────────────

func TestGuard_Politica(t *testing.T) {
	g := newGuard(t)
	ctx := context.Background()

	cases := []struct {
		name string
		tg   int64
		cap  auth.Capability
		ok   bool
	}{
		{"owner por configuración verifica", ownerTG, auth.CapVerify, true},
		{"owner gestiona admins", ownerTG, auth.CapManageAdmins, true},
		{"admin verifica", adminTG, auth.CapVerify, true},
		{"admin no gestiona admins", adminTG, auth.CapManageAdmins, false},
		{"miembro no verifica", memberTG, auth.CapVerify, false},
		{"admin bloqueado sin permisos", blockedTG, auth.CapVerify, false},
		{"rol owner guardado no otorga privilegios", spoofTG, auth.CapManageAdmins, false},
		{"desconocido", 999, auth.CapViewStats, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := g.Require(ctx, tc.tg, tc.cap)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrForbidden)
		})
	}
}

func TestGuard_RolEfectivo(t *testing.T) {
	g := newGuard(t)
	assert.Equal(t, entity.RoleOwner, g.EffectiveRole(&entity.User{TelegramID: ownerTG, Role: entity.RoleOrganization}))
	assert.Equal(t, entity.RoleOrganization, g.EffectiveRole(&entity.User{TelegramID: spoofTG, Role: entity.RoleOwner}))
	assert.False(t, g.Allows(&entity.User{TelegramID: spoofTG, Role: entity.RoleOwner}, auth.CapVerify), "tampoco cuenta como admin")
	assert.Equal(t, entity.RoleAdmin, g.EffectiveRole(&entity.User{TelegramID: adminTG, Role: entity.RoleAdmin}))
	assert.Empty(t, g.EffectiveRole(nil))
}

func TestGuard_SinOwnerConfigurado(t *testing.T) {
	g := auth.NewGuard(memory.NewStore().Users(), 0)
	assert.False(t, g.IsOwner(0))
}

// ──────────────────────────────────────────────────────────────────────────────
// Login de la API de administración
// ──────────────────────────────────────────────────────────────────────────────

var testTokens = jwt.NewIssuer("test-secret", "test", 5*time.Minute)

func newAuth(t *testing.T, password string) *auth.AuthUseCase {
	t.Helper()
	hash := ""
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		require.NoError(t, err)
		hash = string(h)
	}
	return auth.NewAuthUseCase(newGuard(t), hash, testTokens)
}

func TestLogin_AdminRecibeTokenConSuRol(t *testing.T) {
	uc := newAuth(t, "clave")
	resp, err := uc.Login(context.Background(), dto.LoginRequest{TelegramID: ownerTG, Password: "clave"})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleOwner, resp.User.Role)

	claims, err := testTokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-owner", claims.UserID)
	assert.Equal(t, ownerTG, claims.TelegramID)
	assert.Equal(t, entity.RoleOwner, claims.Role)
	assert.Equal(t, "test", claims.Issuer)
	assert.Equal(t, 300, resp.ExpiresIn)
}

func TestLogin_ClaveIncorrecta(t *testing.T) {
	uc := newAuth(t, "clave")
	_, err := uc.Login(context.Background(), dto.LoginRequest{TelegramID: adminTG, Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_MiembroSinPermiso(t *testing.T) {
	uc := newAuth(t, "clave")
	_, err := uc.Login(context.Background(), dto.LoginRequest{TelegramID: memberTG, Password: "clave"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLogin_APIDesactivada(t *testing.T) {
	uc := newAuth(t, "")
	_, err := uc.Login(context.Background(), dto.LoginRequest{TelegramID: adminTG, Password: ""})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
