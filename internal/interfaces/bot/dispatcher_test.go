package bot_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/partnerhub/internal/application/auth"
	"github.com/jhoicas/partnerhub/internal/application/conversation"
	"github.com/jhoicas/partnerhub/internal/application/matching"
	"github.com/jhoicas/partnerhub/internal/application/notify"
	"github.com/jhoicas/partnerhub/internal/application/ports"
	"github.com/jhoicas/partnerhub/internal/application/usecase"
	"github.com/jhoicas/partnerhub/internal/application/verification"
	"github.com/jhoicas/partnerhub/internal/domain/catalog"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/infrastructure/memory"
	"github.com/jhoicas/partnerhub/internal/infrastructure/telegram"
	"github.com/jhoicas/partnerhub/internal/interfaces/bot"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fake de Telegram: registra mensajes, ediciones, respuestas y avisos
// ──────────────────────────────────────────────────────────────────────────────

type outgoing struct {
	chatID int64
	text   string
	markup telegram.Markup
	edited bool
}

type fakeMessenger struct {
	mu      sync.Mutex
	nextID  int64
	out     []outgoing
	answers []string
}

func (f *fakeMessenger) SendMessage(_ context.Context, chatID int64, text string, kb telegram.Markup) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.out = append(f.out, outgoing{chatID: chatID, text: text, markup: kb})
	return f.nextID, nil
}

func (f *fakeMessenger) EditMessage(_ context.Context, chatID, _ int64, text string, kb *telegram.InlineKeyboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var m telegram.Markup
	if kb != nil {
		m = kb
	}
	f.out = append(f.out, outgoing{chatID: chatID, text: text, markup: m, edited: true})
	return nil
}

func (f *fakeMessenger) AnswerCallback(_ context.Context, _ string, text string, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, text)
	return nil
}

func (f *fakeMessenger) Notify(ctx context.Context, telegramID int64, text string) error {
	_, err := f.SendMessage(ctx, telegramID, text, nil)
	return err
}

func (f *fakeMessenger) NotifyWithActions(ctx context.Context, telegramID int64, text string, buttons []ports.Button) error {
	_, err := f.SendMessage(ctx, telegramID, text, telegram.ButtonGrid(buttons, 2))
	return err
}

func (f *fakeMessenger) last(chatID int64) outgoing {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.out) - 1; i >= 0; i-- {
		if f.out[i].chatID == chatID {
			return f.out[i]
		}
	}
	return outgoing{}
}

func (f *fakeMessenger) to(chatID int64) []outgoing {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []outgoing
	for _, o := range f.out {
		if o.chatID == chatID {
			out = append(out, o)
		}
	}
	return out
}

func (f *fakeMessenger) lastAnswer() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.answers) == 0 {
		return ""
	}
	return f.answers[len(f.answers)-1]
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: bot completo sobre el almacén en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	ownerTG    = int64(1)
	orgATG     = int64(10)
	orgBTG     = int64(20)
	pendingTG  = int64(30)
	newcomerTG = int64(100)
	turnover   = "До 3 млн"
)

type botFixture struct {
	bot    *bot.Dispatcher
	store  *memory.Store
	tg     *fakeMessenger
	engine *conversation.Engine
}

func newBotFixture(t *testing.T) *botFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	now := time.Now()

	seedUser := func(id string, tg int64, role string) {
		require.NoError(t, store.Users().Create(ctx, &entity.User{ID: id, TelegramID: tg, FullName: id, Role: role, CreatedAt: now}))
	}
	seedOrg := func(id, userID, name, inn, status string) {
		require.NoError(t, store.Organizations().Create(ctx, &entity.Organization{
			ID: id, UserID: userID, Name: name, LegalForm: "ООО", INN: inn,
			Phone: "+7900" + inn[:7], Email: id + "@example.com", Telegram: "@" + id,
			Turnover: turnover, CanGive: []string{"Кадровое"}, Need: []string{"Площадка"},
			InteractionFormat: "Очно", PartnershipType: "Постоянное", GDPRConsent: true,
			VerificationStatus: status, CreatedAt: now,
		}))
	}
	seedUser("u-owner", ownerTG, entity.RoleOwner)
	seedUser("u-a", orgATG, entity.RoleOrganization)
	seedUser("u-b", orgBTG, entity.RoleOrganization)
	seedUser("u-c", pendingTG, entity.RoleOrganization)
	seedOrg("o-a", "u-a", "Альфа", "1111111111", entity.OrgStatusVerified)
	seedOrg("o-b", "u-b", "Бета", "2222222222", entity.OrgStatusVerified)
	seedOrg("o-c", "u-c", "Гамма", "3333333333", entity.OrgStatusPending)
	require.NoError(t, store.Verifications().Create(ctx, &entity.Verification{
		ID: "v-c", OrganizationID: "o-c", Status: entity.VerificationPending, CreatedAt: now,
	}))

	tg := &fakeMessenger{}
	guard := auth.NewGuard(store.Users(), ownerTG)
	notifier := notify.NewDispatcher(tg, nil)

	registration := usecase.NewRegistrationUseCase(store, store.Users(), store.Organizations(), guard, notifier, ownerTG, nil)
	matcher := matching.NewUseCase(store, store.Users(), store.Organizations(), store.Matches(), notifier, nil)
	verifier := verification.NewUseCase(store, store.Verifications(), guard, notifier, nil)
	resources := usecase.NewResourceUseCase(store, store.Resources(), guard)
	news := usecase.NewNewsUseCase(store, store.Users(), store.Organizations(), store.News())
	contracts := usecase.NewContractUseCase(store, store.Users(), store.Organizations(), store.Matches(), store.Contracts(), nil, nil, notifier, nil)
	admin := usecase.NewAdminUseCase(store, store.Users(), store.Logs(), store.Stats(), guard, notifier)

	engine := conversation.NewEngine(conversation.NewMemoryStore(0), catalog.Default(), conversation.Services{
		Registration: registration,
		Resources:    resources,
		News:         news,
		Partners:     matcher,
		Contracts:    contracts,
		Questions:    usecase.NewQuestionUseCase(store.Users(), store.Logs(), notifier, ownerTG),
		Verification: verifier,
		Admins:       admin,
		Guard:        guard,
	}, nil)

	d := bot.New(bot.Deps{
		Messenger:    tg,
		Engine:       engine,
		Guard:        guard,
		Registration: registration,
		Profiles:     usecase.NewProfileUseCase(store.Users(), store.Organizations(), store.Mentors()),
		Matching:     matcher,
		Verification: verifier,
		Resources:    resources,
		News:         news,
		Mentors:      usecase.NewMentorUseCase(store.Mentors()),
		Contracts:    contracts,
		Admin:        admin,
	})
	return &botFixture{bot: d, store: store, tg: tg, engine: engine}
}

func (f *botFixture) text(from int64, text string) {
	f.bot.Handle(context.Background(), telegram.Update{Message: &telegram.Message{
		MessageID: 1, From: &telegram.User{ID: from, FirstName: "Тест"}, Chat: &telegram.Chat{ID: from}, Text: text,
	}})
}

func (f *botFixture) press(from int64, data string) {
	f.bot.Handle(context.Background(), telegram.Update{CallbackQuery: &telegram.CallbackQuery{
		ID: "cb", From: telegram.User{ID: from, FirstName: "Тест"}, Data: data,
		Message: &telegram.Message{MessageID: 77, Chat: &telegram.Chat{ID: from}},
	}})
}

func inlineData(m telegram.Markup) []string {
	kb, ok := m.(*telegram.InlineKeyboard)
	if !ok {
		return nil
	}
	var out []string
	for _, row := range kb.InlineKeyboard {
		for _, b := range row {
			out = append(out, b.CallbackData)
		}
	}
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Comandos y menú
// ──────────────────────────────────────────────────────────────────────────────

func TestStart_ActorNuevo_MuestraBienvenidaConRegistro(t *testing.T) {
	f := newBotFixture(t)
	f.text(newcomerTG, "/start")

	msg := f.tg.last(newcomerTG)
	assert.Contains(t, msg.text, "Добро пожаловать")
	assert.Contains(t, inlineData(msg.markup), "flow:"+string(conversation.FlowOrgRegistration))

	u, err := f.store.Users().GetByTelegramID(context.Background(), newcomerTG)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, entity.RoleOrganization, u.Role)
}

func TestStart_Owner_MuestraPanelAdministrador(t *testing.T) {
	f := newBotFixture(t)
	f.text(ownerTG, "/start")

	kb, ok := f.tg.last(ownerTG).markup.(*telegram.ReplyKeyboard)
	require.True(t, ok)
	assert.Equal(t, bot.BtnPending, kb.Keyboard[0][0].Text)
}

func TestMenu_TextoDesconocido_Responde(t *testing.T) {
	f := newBotFixture(t)
	f.text(orgATG, "hola")
	assert.Contains(t, f.tg.last(orgATG).text, "/menu")
}

// ──────────────────────────────────────────────────────────────────────────────
// Conversaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestRegistro_OrganizacionCompletaConBotones(t *testing.T) {
	f := newBotFixture(t)
	ctx := context.Background()

	f.text(newcomerTG, "/start")
	f.press(newcomerTG, "flow:"+string(conversation.FlowOrgRegistration))
	f.text(newcomerTG, "ООО Вектор")
	f.press(newcomerTG, "opt:legal_form:2") // ООО
	f.text(newcomerTG, "62.01")
	f.text(newcomerTG, "7707083893")
	f.text(newcomerTG, "+79001234567")
	f.text(newcomerTG, "info@vector.ru")
	f.text(newcomerTG, "@vector")
	f.text(newcomerTG, "Разработка программного обеспечения")
	f.press(newcomerTG, "opt:turnover:0")

	f.press(newcomerTG, "opt:can_give:2")
	refresh := f.tg.last(newcomerTG)
	assert.True(t, refresh.edited, "el teclado múltiple se actualiza en sitio")
	f.press(newcomerTG, "opt:can_give:12") // готово

	f.press(newcomerTG, "opt:need:4")
	f.press(newcomerTG, "opt:need:12")
	f.press(newcomerTG, "opt:interaction_format:1")
	f.text(newcomerTG, "нет")
	f.press(newcomerTG, "opt:partnership_type:0")
	f.press(newcomerTG, "opt:consent:0")

	assert.Contains(t, f.tg.last(newcomerTG).text, "Регистрация завершена")
	_, _, active := f.engine.Active(newcomerTG)
	assert.False(t, active)

	org, err := f.store.Organizations().GetByINN(ctx, "7707083893")
	require.NoError(t, err)
	require.NotNil(t, org)
	assert.Equal(t, "ООО Вектор", org.Name)
	assert.Equal(t, entity.OrgStatusPending, org.VerificationStatus)
	assert.Equal(t, []string{"Кадровое"}, org.CanGive)
	assert.Equal(t, []string{"Площадка"}, org.Need)
	assert.Empty(t, org.City)

	var notified bool
	for _, m := range f.tg.to(ownerTG) {
		if strings.Contains(m.text, "ООО Вектор") {
			notified = true
			assert.Contains(t, inlineData(m.markup), notify.ActionApprove+mustVerificationID(t, f, org.ID))
		}
	}
	assert.True(t, notified, "el owner recibe la solicitud con botones de moderación")
}

func mustVerificationID(t *testing.T, f *botFixture, orgID string) string {
	t.Helper()
	views, err := f.store.Verifications().ListPendingViews(context.Background())
	require.NoError(t, err)
	for _, v := range views {
		if v.Organization.ID == orgID {
			return v.Verification.ID
		}
	}
	t.Fatalf("sin verificación pendiente para %s", orgID)
	return ""
}

func TestRegistro_Cancelar_TerminaConversacion(t *testing.T) {
	f := newBotFixture(t)
	f.text(newcomerTG, "/start")
	f.press(newcomerTG, "flow:"+string(conversation.FlowOrgRegistration))
	f.text(newcomerTG, "ООО Вектор")
	f.text(newcomerTG, "Отмена")

	assert.Equal(t, conversation.MsgCancelled, f.tg.last(newcomerTG).text)
	_, _, active := f.engine.Active(newcomerTG)
	assert.False(t, active)
}

func TestBoton_Obsoleto_SeIgnora(t *testing.T) {
	f := newBotFixture(t)
	f.text(newcomerTG, "/start")
	f.press(newcomerTG, "flow:"+string(conversation.FlowOrgRegistration))
	f.text(newcomerTG, "ООО Вектор")
	before := len(f.tg.to(newcomerTG))

	f.press(newcomerTG, "opt:turnover:0")

	assert.Equal(t, "Кнопка устарела", f.tg.lastAnswer())
	assert.Len(t, f.tg.to(newcomerTG), before)
	_, step, active := f.engine.Active(newcomerTG)
	require.True(t, active)
	assert.Equal(t, conversation.StepLegalForm, step)
}

func TestBoton_SinConversacion_Obsoleto(t *testing.T) {
	f := newBotFixture(t)
	f.press(orgATG, "opt:name:0")
	assert.Equal(t, "Кнопка устарела", f.tg.lastAnswer())
}

// ──────────────────────────────────────────────────────────────────────────────
// Matching
// ──────────────────────────────────────────────────────────────────────────────

func TestBuscarSocio_MuestraTarjetaConBotones(t *testing.T) {
	f := newBotFixture(t)
	f.text(orgATG, bot.BtnFindPartner)

	msg := f.tg.last(orgATG)
	assert.Contains(t, msg.text, "Бета")
	assert.Equal(t, []string{"like:o-b", "skip:o-b"}, inlineData(msg.markup))
}

func TestBuscarSocio_NoVerificada_Rechazada(t *testing.T) {
	f := newBotFixture(t)
	f.text(pendingTG, bot.BtnFindPartner)
	assert.Equal(t, conversation.MsgNotVerified, f.tg.last(pendingTG).text)
}

func TestLike_Mutuo_CreaMatchYAvisaAAmbos(t *testing.T) {
	f := newBotFixture(t)
	ctx := context.Background()

	f.press(orgATG, "like:o-b")
	matches, err := f.store.Matches().ListActiveByOrganization(ctx, "o-a")
	require.NoError(t, err)
	assert.Empty(t, matches)
	for _, m := range f.tg.to(orgBTG) {
		assert.NotContains(t, m.text, "Это матч")
	}

	f.press(orgBTG, "like:o-a")
	matches, err = f.store.Matches().ListActiveByOrganization(ctx, "o-a")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	var toA, toB bool
	for _, m := range f.tg.to(orgATG) {
		toA = toA || strings.Contains(m.text, "Это матч") && strings.Contains(m.text, "Бета")
	}
	for _, m := range f.tg.to(orgBTG) {
		toB = toB || strings.Contains(m.text, "Это матч") && strings.Contains(m.text, "Альфа")
	}
	assert.True(t, toA)
	assert.True(t, toB)

	f.text(orgATG, bot.BtnMyPartners)
	assert.Contains(t, f.tg.last(orgATG).text, "o-b@example.com")
}

func TestLike_OrganizacionInexistente_BotonObsoleto(t *testing.T) {
	f := newBotFixture(t)
	f.text(orgATG, bot.BtnFindPartner)
	f.press(orgATG, "like:no-es-un-uuid")

	assert.Equal(t, "Кнопка устарела", f.tg.lastAnswer())
	likes, err := f.store.Likes().Exists(context.Background(), "o-a", "no-es-un-uuid")
	require.NoError(t, err)
	assert.False(t, likes)
}

func TestSkip_SinMasCandidatos_Avisa(t *testing.T) {
	f := newBotFixture(t)
	f.text(orgATG, bot.BtnFindPartner)
	f.press(orgATG, "skip:o-b")
	assert.Equal(t, "Больше подходящих партнёров нет", f.tg.lastAnswer())
}

// ──────────────────────────────────────────────────────────────────────────────
// Verificación por botones
// ──────────────────────────────────────────────────────────────────────────────

func TestVerificacion_NoAdmin_SinCambios(t *testing.T) {
	f := newBotFixture(t)
	f.press(orgATG, notify.ActionApprove+"v-c")

	assert.Equal(t, conversation.MsgForbidden, f.tg.lastAnswer())
	v, err := f.store.Verifications().GetByID(context.Background(), "v-c")
	require.NoError(t, err)
	assert.Equal(t, entity.VerificationPending, v.Status)
}

func TestVerificacion_OwnerAprueba_EditaMensajeYAvisa(t *testing.T) {
	f := newBotFixture(t)
	f.press(ownerTG, notify.ActionApprove+"v-c")

	edit := f.tg.last(ownerTG)
	assert.True(t, edit.edited)
	assert.Contains(t, edit.text, "Гамма")

	org, err := f.store.Organizations().GetByID(context.Background(), "o-c")
	require.NoError(t, err)
	assert.True(t, org.IsVerified())
	assert.NotEmpty(t, f.tg.to(pendingTG), "la organización recibe el resultado")

	f.press(ownerTG, notify.ActionReject+"v-c")
	assert.Contains(t, f.tg.lastAnswer(), "уже обработана")
}

func TestVerificacion_ConMensaje_AbreConversacion(t *testing.T) {
	f := newBotFixture(t)
	f.press(ownerTG, notify.ActionRejectMessage+"v-c")

	flow, _, active := f.engine.Active(ownerTG)
	require.True(t, active)
	assert.Equal(t, conversation.FlowVerificationMessage, flow)
}

// ──────────────────────────────────────────────────────────────────────────────
// Panel del owner
// ──────────────────────────────────────────────────────────────────────────────

func TestAdmin_SoloOwner(t *testing.T) {
	f := newBotFixture(t)
	f.text(orgATG, "/admin")
	assert.Contains(t, f.tg.last(orgATG).text, "только владельцу")

	f.text(ownerTG, "/admin")
	assert.Contains(t, inlineData(f.tg.last(ownerTG).markup), "admin:add")
}
