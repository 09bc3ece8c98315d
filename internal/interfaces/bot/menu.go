package bot

import (
	"context"
	"errors"

	"github.com/jhoicas/partnerhub/internal/application/auth"
	"github.com/jhoicas/partnerhub/internal/application/conversation"
	"github.com/jhoicas/partnerhub/internal/application/dto"
	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/infrastructure/telegram"
)

// Botones del menú principal.
const (
	BtnFindPartner  = "Найти партнёра"
	BtnMyPartners   = "Мои партнёры"
	BtnContract     = "Создать договор"
	BtnNews         = "Новости"
	BtnCompetitions = "Конкурсы"
	BtnResourceHub  = "Ресурсный центр"
	BtnCourses      = "Обучение"
	BtnMentors      = "Наставник"
	BtnProfile      = "Профиль"
	BtnDocuments    = "Документы"
)

// Botones del menú de administración.
const (
	BtnPending        = "Заявки на проверку"
	BtnAddCourse      = "Добавить курс"
	BtnAddCompetition = "Добавить конкурс"
	BtnLogs           = "Логи"
	BtnStats          = "Статистика"
	BtnMainMenu       = "Главное меню"
)

const (
	msgWelcome = "<b>Добро пожаловать в Партнёрский Центр Организаций!</b>\n\n" +
		"Этот бот поможет вам:\n" +
		"✅ Найти партнёров для вашего бизнеса\n" +
		"✅ Создавать договоры\n" +
		"✅ Получать информацию о конкурсах и финансировании\n" +
		"✅ Найти наставника\n\n" +
		"Для начала работы выберите тип регистрации:"
	msgUnknown          = "Не понимаю команду. Используйте /menu для возврата в главное меню."
	msgOwnerOnly        = "❌ Эта команда доступна только владельцу!"
	msgMainMenu         = "Главное меню:"
	msgAdminMenu        = "Админ-панель:"
	msgNotRegistered    = "Вы не зарегистрированы. Используйте /start для регистрации."
	msgAlreadyProcessed = "ℹ️ Эта заявка уже обработана."
)

func (d *Dispatcher) menuActions() map[string]menuAction {
	return map[string]menuAction{
		BtnFindPartner:    d.findPartner,
		BtnMyPartners:     d.myPartners,
		BtnContract:       d.flowAction(conversation.FlowCreateContract),
		BtnNews:           d.newsMenu,
		BtnCompetitions:   d.competitions,
		BtnResourceHub:    d.resourceHub,
		BtnCourses:        d.courses,
		BtnMentors:        d.mentors,
		BtnProfile:        d.profile,
		BtnDocuments:      d.documents,
		BtnPending:        d.pending,
		BtnAddCourse:      d.flowAction(conversation.FlowAddCourse),
		BtnAddCompetition: d.flowAction(conversation.FlowAddCompetition),
		BtnLogs:           d.logs,
		BtnStats:          d.stats,
		BtnMainMenu:       d.mainMenu,
	}
}

func (d *Dispatcher) flowAction(flow conversation.FlowName) menuAction {
	return func(ctx context.Context, actor dto.Actor, chatID int64) error {
		return d.startFlow(ctx, actor, chatID, flow, nil)
	}
}

// start registra al actor en su primer contacto y muestra su menú o la bienvenida.
func (d *Dispatcher) start(ctx context.Context, actor dto.Actor, chatID int64) error {
	user, err := d.Registration.EnsureUser(ctx, actor)
	if err != nil {
		return err
	}
	p, err := d.Profiles.Get(ctx, actor.TelegramID)
	if err != nil {
		return err
	}
	switch {
	case d.Guard.Allows(user, auth.CapVerify):
		return d.send(ctx, chatID, "Добро пожаловать, "+nameOr(user.FullName, "Администратор")+"!", adminKeyboard())
	case p.Organization != nil || p.Mentor != nil:
		return d.send(ctx, chatID, "С возвращением, "+nameOr(user.FullName, actor.FullName)+"!", mainKeyboard())
	}
	return d.send(ctx, chatID, msgWelcome, &telegram.InlineKeyboard{InlineKeyboard: [][]telegram.InlineKeyboardButton{
		{{Text: "Зарегистрироваться как организация", CallbackData: "flow:" + string(conversation.FlowOrgRegistration)}},
		{{Text: "Зарегистрироваться как наставник", CallbackData: "flow:" + string(conversation.FlowMentorRegistration)}},
	}})
}

func (d *Dispatcher) showMenu(ctx context.Context, actor dto.Actor, chatID int64) error {
	kb, err := d.menuKeyboard(ctx, actor.TelegramID)
	if err != nil {
		return err
	}
	if kb == nil {
		return d.send(ctx, chatID, msgNotRegistered, nil)
	}
	if isAdminKeyboard(kb) {
		return d.send(ctx, chatID, msgAdminMenu, kb)
	}
	return d.send(ctx, chatID, msgMainMenu, kb)
}

// mainMenu botón "Главное меню" del panel de administración: muestra el menú de organización.
func (d *Dispatcher) mainMenu(ctx context.Context, _ dto.Actor, chatID int64) error {
	return d.send(ctx, chatID, msgMainMenu, mainKeyboard())
}

// menuKeyboard teclado según el rol efectivo; nil si el actor nunca usó /start.
func (d *Dispatcher) menuKeyboard(ctx context.Context, telegramID int64) (telegram.Markup, error) {
	p, err := d.Profiles.Get(ctx, telegramID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if d.Guard.Allows(p.User, auth.CapVerify) {
		return adminKeyboard(), nil
	}
	return mainKeyboard(), nil
}

func mainKeyboard() *telegram.ReplyKeyboard {
	return replyKeyboard(2,
		BtnFindPartner, BtnMyPartners,
		BtnContract, BtnNews,
		BtnCompetitions, BtnResourceHub,
		BtnCourses, BtnMentors,
		BtnProfile, BtnDocuments,
	)
}

func adminKeyboard() *telegram.ReplyKeyboard {
	return replyKeyboard(2,
		BtnPending, BtnAddCourse,
		BtnAddCompetition, BtnLogs,
		BtnStats, BtnMainMenu,
	)
}

func isAdminKeyboard(m telegram.Markup) bool {
	kb, ok := m.(*telegram.ReplyKeyboard)
	return ok && len(kb.Keyboard) > 0 && kb.Keyboard[0][0].Text == BtnPending
}

func replyKeyboard(perRow int, labels ...string) *telegram.ReplyKeyboard {
	kb := &telegram.ReplyKeyboard{ResizeKeyboard: true}
	var row []telegram.KeyboardButton
	for _, l := range labels {
		row = append(row, telegram.KeyboardButton{Text: l})
		if len(row) == perRow {
			kb.Keyboard = append(kb.Keyboard, row)
			row = nil
		}
	}
	if len(row) > 0 {
		kb.Keyboard = append(kb.Keyboard, row)
	}
	return kb
}

func nameOr(name, fallback string) string {
	if name != "" {
		return name
	}
	return fallback
}

// ownerPanel /admin: gestión de administradores, solo para el owner configurado.
func (d *Dispatcher) ownerPanel(ctx context.Context, actor dto.Actor, chatID int64) error {
	if !d.Guard.IsOwner(actor.TelegramID) {
		return d.send(ctx, chatID, msgOwnerOnly, nil)
	}
	admins, err := d.Admin.ListAdmins(ctx, actor.TelegramID)
	if err != nil {
		return err
	}
	return d.send(ctx, chatID, ownerPanelText(admins), ownerPanelKeyboard())
}

func ownerPanelKeyboard() *telegram.InlineKeyboard {
	return &telegram.InlineKeyboard{InlineKeyboard: [][]telegram.InlineKeyboardButton{
		{{Text: "➕ Добавить оператора", CallbackData: cbAdminAdd}},
		{{Text: "➖ Удалить оператора", CallbackData: cbAdminRemove}},
		{{Text: "📋 Список всех админов", CallbackData: cbAdminList}},
	}}
}

func roleLabel(u *entity.User) string {
	if u.Role == entity.RoleOwner {
		return "OWNER"
	}
	return "Админ"
}
