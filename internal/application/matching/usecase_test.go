package matching_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/partnerhub/internal/application/matching"
	"github.com/jhoicas/partnerhub/internal/application/notify"
	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/infrastructure/memory"
)

type sent struct {
	to   int64
	text string
}

type fakeNotifier struct {
	mu  sync.Mutex
	out []sent
}

func (f *fakeNotifier) Notify(_ context.Context, telegramID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.out = append(f.out, sent{to: telegramID, text: text})
	return nil
}

func (f *fakeNotifier) to(id int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, s := range f.out {
		if s.to == id {
			out = append(out, s.text)
		}
	}
	return out
}

const (
	tgA       = int64(10)
	tgB       = int64(20)
	tgC       = int64(30)
	tgPending = int64(40)
	tgBig     = int64(50)
	tgNoOrg   = int64(60)
)

type fixture struct {
	uc       *matching.UseCase
	store    *memory.Store
	notifier *fakeNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Now()

	seed := func(n int, tg int64, name, turnover, status string) {
		uid := "u-" + name
		require.NoError(t, store.Users().Create(ctx, &entity.User{ID: uid, TelegramID: tg, Role: entity.RoleOrganization, CreatedAt: now}))
		if status == "" {
			return
		}
		require.NoError(t, store.Organizations().Create(ctx, &entity.Organization{
			ID: "o-" + name, UserID: uid, Name: name, INN: "777000000" + string(rune('0'+n)),
			Phone: "+7999" + name, Email: name + "@example.com", Telegram: "@" + name,
			Turnover: turnover, VerificationStatus: status, CreatedAt: now,
		}))
	}
	seed(1, tgA, "a", "До 3 млн", entity.OrgStatusVerified)
	seed(2, tgB, "b", "До 3 млн", entity.OrgStatusVerified)
	seed(3, tgC, "c", "До 3 млн", entity.OrgStatusVerified)
	seed(4, tgPending, "p", "До 3 млн", entity.OrgStatusPending)
	seed(5, tgBig, "big", "21+ млн", entity.OrgStatusVerified)
	seed(6, tgNoOrg, "none", "", "")

	n := &fakeNotifier{}
	uc := matching.NewUseCase(store, store.Users(), store.Organizations(), store.Matches(), notify.NewDispatcher(n, nil), nil)
	return &fixture{uc: uc, store: store, notifier: n}
}

func ids(orgs []*entity.Organization) []string {
	out := make([]string, len(orgs))
	for i, o := range orgs {
		out[i] = o.ID
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Feed de candidatos
// ──────────────────────────────────────────────────────────────────────────────

func TestCandidates_MismaFacturacionVerificadasSinLaPropia(t *testing.T) {
	f := newFixture(t)
	list, err := f.uc.Candidates(context.Background(), tgA)
	require.NoError(t, err)
	assert.Equal(t, []string{"o-b", "o-c"}, ids(list))
}

func TestCandidates_ExcluyeLosYaLikeados(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Like(ctx, tgA, "o-b")
	require.NoError(t, err)

	list, err := f.uc.Candidates(ctx, tgA)
	require.NoError(t, err)
	assert.Equal(t, []string{"o-c"}, ids(list))
}

func TestCandidates_NoVerificada_ErrNotVerified(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Candidates(context.Background(), tgPending)
	assert.ErrorIs(t, err, domain.ErrNotVerified)
}

func TestCandidates_SinOrganizacion_ErrNotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Candidates(context.Background(), tgNoOrg)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.Candidates(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSkip_EsTransitorioPorPasada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.uc.StartFeed(ctx, tgA)
	require.NoError(t, err)
	require.Equal(t, "o-b", first.ID)

	next, err := f.uc.Skip(ctx, tgA, "o-b")
	require.NoError(t, err)
	require.Equal(t, "o-c", next.ID)

	next, err = f.uc.Skip(ctx, tgA, "o-c")
	require.NoError(t, err)
	assert.Nil(t, next, "sin más candidatos en esta pasada")

	again, err := f.uc.StartFeed(ctx, tgA)
	require.NoError(t, err)
	assert.Equal(t, "o-b", again.ID, "una nueva pasada vuelve a mostrar los descartados")
}

func TestSkip_PasadaAgotada_LiberaLosDescartes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.StartFeed(ctx, tgA)
	require.NoError(t, err)
	_, err = f.uc.Skip(ctx, tgA, "o-b")
	require.NoError(t, err)
	last, err := f.uc.Skip(ctx, tgA, "o-c")
	require.NoError(t, err)
	require.Nil(t, last)

	// sin StartFeed: al agotarse la pasada los descartes ya no se retienen
	next, err := f.uc.Next(ctx, tgA)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "o-b", next.ID)

	list, err := f.uc.Candidates(ctx, tgA)
	require.NoError(t, err)
	assert.Equal(t, []string{"o-b", "o-c"}, ids(list))
}

// ──────────────────────────────────────────────────────────────────────────────
// Likes y matches
// ──────────────────────────────────────────────────────────────────────────────

func TestLike_Unidireccional_SinMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.uc.Like(ctx, tgA, "o-b")
	require.NoError(t, err)
	assert.False(t, res.Mutual)
	assert.Nil(t, res.Match)

	partners, err := f.uc.ListMatches(ctx, tgA)
	require.NoError(t, err)
	assert.Empty(t, partners)
	assert.Empty(t, f.notifier.to(tgB), "el destino no se entera de un like unilateral")
	assert.Len(t, f.notifier.to(tgA), 1)
}

func TestLike_Mutuo_CreaUnSoloMatchYAvisaAAmbos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Like(ctx, tgA, "o-b")
	require.NoError(t, err)
	res, err := f.uc.Like(ctx, tgB, "o-a")
	require.NoError(t, err)

	require.True(t, res.Mutual)
	require.NotNil(t, res.Match)
	assert.Equal(t, "o-a", res.Match.Org1ID, "par normalizado")
	assert.Equal(t, "o-b", res.Match.Org2ID)

	toA := f.notifier.to(tgA)
	toB := f.notifier.to(tgB)
	require.NotEmpty(t, toA)
	require.NotEmpty(t, toB)
	assert.Contains(t, toA[len(toA)-1], "b@example.com")
	assert.Contains(t, toB[len(toB)-1], "a@example.com")

	// un like repetido del mismo par no crea otro match
	again, err := f.uc.Like(ctx, tgA, "o-b")
	require.NoError(t, err)
	assert.True(t, again.Mutual)
	assert.Nil(t, again.Match)

	pa, err := f.uc.ListMatches(ctx, tgA)
	require.NoError(t, err)
	pb, err := f.uc.ListMatches(ctx, tgB)
	require.NoError(t, err)
	require.Len(t, pa, 1)
	require.Len(t, pb, 1)
	assert.Equal(t, "o-b", pa[0].Organization.ID)
	assert.Equal(t, "o-a", pb[0].Organization.ID)
	assert.Equal(t, pa[0].Match.ID, pb[0].Match.ID)
}

func TestLike_Concurrente_UnSoloMatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(2)
		go func() { defer wg.Done(); _, _ = f.uc.Like(ctx, tgA, "o-c") }()
		go func() { defer wg.Done(); _, _ = f.uc.Like(ctx, tgC, "o-a") }()
	}
	wg.Wait()

	partners, err := f.uc.ListMatches(ctx, tgA)
	require.NoError(t, err)
	assert.Len(t, partners, 1)
}

func TestLike_DestinoNoVerificado(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Like(context.Background(), tgA, "o-p")
	assert.ErrorIs(t, err, domain.ErrNotVerified)
}

func TestLike_DestinoInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Like(context.Background(), tgA, "o-zzz")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLike_PropiaOrganizacion(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Like(context.Background(), tgA, "o-a")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
