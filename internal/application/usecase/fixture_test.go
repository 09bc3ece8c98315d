package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/partnerhub/internal/application/auth"
	"github.com/jhoicas/partnerhub/internal/application/notify"
	"github.com/jhoicas/partnerhub/internal/application/ports"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/infrastructure/memory"
)

const (
	ownerTG  = int64(1)
	adminTG  = int64(2)
	orgATG   = int64(10)
	orgBTG   = int64(20)
	memberTG = int64(30)
)

type notice struct {
	to      int64
	text    string
	buttons []ports.Button
}

type fakeNotifier struct {
	mu  sync.Mutex
	out []notice
}

func (f *fakeNotifier) Notify(_ context.Context, telegramID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out = append(f.out, notice{to: telegramID, text: text})
	return nil
}

func (f *fakeNotifier) NotifyWithActions(_ context.Context, telegramID int64, text string, buttons []ports.Button) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out = append(f.out, notice{to: telegramID, text: text, buttons: buttons})
	return nil
}

func (f *fakeNotifier) to(id int64) []notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []notice
	for _, n := range f.out {
		if n.to == id {
			out = append(out, n)
		}
	}
	return out
}

type fixture struct {
	store    *memory.Store
	guard    *auth.Guard
	notifier *fakeNotifier
	dispatch *notify.Dispatcher
}

// newFixture siembra owner, un admin, dos organizaciones verificadas con match y un miembro sin organización.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Now()

	users := []entity.User{
		{ID: "u-owner", TelegramID: ownerTG, Role: entity.RoleOwner},
		{ID: "u-admin", TelegramID: adminTG, Role: entity.RoleAdmin},
		{ID: "u-a", TelegramID: orgATG, Role: entity.RoleOrganization},
		{ID: "u-b", TelegramID: orgBTG, Role: entity.RoleOrganization},
		{ID: "u-m", TelegramID: memberTG, Role: entity.RoleOrganization},
	}
	for i, u := range users {
		u.CreatedAt = now.Add(time.Duration(i) * time.Second)
		require.NoError(t, store.Users().Create(ctx, &u))
	}
	for _, o := range []entity.Organization{
		{ID: "o-a", UserID: "u-a", Name: "Альфа", INN: "1111111111", Turnover: "До 3 млн", VerificationStatus: entity.OrgStatusVerified},
		{ID: "o-b", UserID: "u-b", Name: "Бета", INN: "2222222222", Turnover: "До 3 млн", VerificationStatus: entity.OrgStatusVerified},
	} {
		o.CreatedAt = now
		require.NoError(t, store.Organizations().Create(ctx, &o))
	}
	created, err := store.Matches().CreateIfAbsent(ctx, entity.NewMatch("m-ab", "o-b", "o-a", now))
	require.NoError(t, err)
	require.True(t, created)

	n := &fakeNotifier{}
	return &fixture{
		store:    store,
		guard:    auth.NewGuard(store.Users(), ownerTG),
		notifier: n,
		dispatch: notify.NewDispatcher(n, nil),
	}
}

func (f *fixture) logs(t *testing.T) []*entity.Log {
	t.Helper()
	list, err := f.store.Logs().ListRecent(context.Background(), 0)
	require.NoError(t, err)
	return list
}
