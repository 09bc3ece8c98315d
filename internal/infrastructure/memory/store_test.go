package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/partnerhub/internal/application/ports"
	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/infrastructure/memory"
)

var errFallo = errors.New("fallo en la transacción")

// ──────────────────────────────────────────────────────────────────────────────
// Transacciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRun_Error_RevierteLoEscritoEnLaTx(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	err := store.Run(ctx, func(repos ports.Repositories) error {
		require.NoError(t, repos.Users.Create(ctx, &entity.User{ID: "u-tx", TelegramID: 11, Role: entity.RoleOrganization}))
		return errFallo
	})
	assert.ErrorIs(t, err, errFallo)

	u, err := store.Users().GetByTelegramID(ctx, 11)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestRun_Rollback_ConservaEscriturasConcurrentesFueraDeLaTx(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	inTx := make(chan struct{})
	release := make(chan struct{})
	txDone := make(chan error, 1)
	go func() {
		txDone <- store.Run(ctx, func(repos ports.Repositories) error {
			if err := repos.Logs.Create(ctx, &entity.Log{ID: "l-tx", Action: entity.ActionLike}); err != nil {
				return err
			}
			close(inTx)
			<-release
			return errFallo
		})
	}()
	<-inTx

	outside := make(chan error, 1)
	go func() {
		outside <- store.Users().Create(ctx, &entity.User{ID: "u-x", TelegramID: 77, Role: entity.RoleOrganization})
	}()

	select {
	case <-outside:
		t.Fatal("la escritura externa no debe completarse mientras la transacción está abierta")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	assert.ErrorIs(t, <-txDone, errFallo)
	require.NoError(t, <-outside)

	u, err := store.Users().GetByTelegramID(ctx, 77)
	require.NoError(t, err)
	require.NotNil(t, u, "el usuario creado fuera de la transacción sobrevive al rollback")
	assert.Equal(t, "u-x", u.ID)

	logs, err := store.Logs().ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestRun_Exito_ConfirmaLosCambios(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, store.Run(ctx, func(repos ports.Repositories) error {
		return repos.Users.Create(ctx, &entity.User{ID: "u-ok", TelegramID: 5, Role: entity.RoleOrganization})
	}))
	u, err := store.Users().GetByID(ctx, "u-ok")
	require.NoError(t, err)
	require.NotNil(t, u)
}

func TestRun_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := memory.NewStore().Run(ctx, func(ports.Repositories) error { called = true; return nil })
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

// ──────────────────────────────────────────────────────────────────────────────
// Restricciones
// ──────────────────────────────────────────────────────────────────────────────

func TestVerifications_UnaPorOrganizacion(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	require.NoError(t, store.Verifications().Create(ctx, &entity.Verification{ID: "v-1", OrganizationID: "o-1", Status: entity.VerificationPending}))
	err := store.Verifications().Create(ctx, &entity.Verification{ID: "v-2", OrganizationID: "o-1", Status: entity.VerificationPending})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	require.NoError(t, store.Verifications().Create(ctx, &entity.Verification{ID: "v-3", OrganizationID: "o-2", Status: entity.VerificationPending}))
}
