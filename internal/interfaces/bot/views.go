package bot

import (
	"context"
	"fmt"
	"html"
	"maps"
	"slices"
	"strings"

	"github.com/jhoicas/partnerhub/internal/application/dto"
	"github.com/jhoicas/partnerhub/internal/application/matching"
	"github.com/jhoicas/partnerhub/internal/application/notify"
	"github.com/jhoicas/partnerhub/internal/application/usecase"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/infrastructure/telegram"
)

const separator = "➖➖➖➖➖➖➖➖➖➖\n\n"

// previewRunes longitud del extracto de una noticia en los listados.
const previewRunes = 150

const (
	msgNoCandidates   = "К сожалению, подходящих партнеров пока нет.\nПопробуйте позже!"
	msgNoMatches      = "У вас пока нет партнёров. Найдите их через «" + BtnFindPartner + "»!"
	msgNoNews         = "Новостей пока нет."
	msgNoMyNews       = "У вас пока нет опубликованных новостей."
	msgNoCourses      = "Доступных курсов пока нет."
	msgNoCompetitions = "Активных конкурсов пока нет."
	msgNoMentors      = "К сожалению, сейчас нет доступных наставников. Попробуйте позже!"
	msgNoContracts    = "У вас пока нет договоров."
	msgNoPending      = "Нет заявок на проверку."
	msgNoLogs         = "Логов пока нет."
	msgRCContacts     = "<b>📞 Контакты специалистов ресурсного центра</b>\n\n" +
		"Вы можете связаться с нашими специалистами:\n\n" +
		"📧 Email: support@example.com\n" +
		"💬 Telegram: @resource_center_support\n\n" +
		"Время работы: Пн-Пт, 9:00-18:00"
)

// ─── Matching ────────────────────────────────────────────────────────────────

func (d *Dispatcher) findPartner(ctx context.Context, actor dto.Actor, chatID int64) error {
	org, err := d.Matching.StartFeed(ctx, actor.TelegramID)
	if err != nil {
		return err
	}
	return d.sendCandidate(ctx, chatID, org)
}

func (d *Dispatcher) sendCandidate(ctx context.Context, chatID int64, org *entity.Organization) error {
	if org == nil {
		return d.send(ctx, chatID, msgNoCandidates, nil)
	}
	return d.send(ctx, chatID, matching.Card(org), &telegram.InlineKeyboard{InlineKeyboard: [][]telegram.InlineKeyboardButton{{
		{Text: "❤️ Интересно", CallbackData: cbLike + org.ID},
		{Text: "👎 Не интересно", CallbackData: cbSkip + org.ID},
	}}})
}

func (d *Dispatcher) myPartners(ctx context.Context, actor dto.Actor, chatID int64) error {
	partners, err := d.Matching.ListMatches(ctx, actor.TelegramID)
	if err != nil {
		return err
	}
	if len(partners) == 0 {
		return d.send(ctx, chatID, msgNoMatches, nil)
	}
	var b strings.Builder
	b.WriteString("<b>🤝 Ваши партнёры</b>\n\n")
	for _, p := range partners {
		c := p.Organization.Contacts()
		fmt.Fprintf(&b, "<b>%s</b>\n", html.EscapeString(p.Organization.Name))
		fmt.Fprintf(&b, "📞 %s\n📧 %s\n💬 %s\n", html.EscapeString(c.Phone), html.EscapeString(c.Email), html.EscapeString(c.Telegram))
		fmt.Fprintf(&b, "📅 Матч с %s\n\n", p.Match.CreatedAt.Format("02.01.2006"))
		b.WriteString(separator)
	}
	return d.send(ctx, chatID, b.String(), nil)
}

// ─── Noticias ────────────────────────────────────────────────────────────────

func (d *Dispatcher) newsMenu(ctx context.Context, _ dto.Actor, chatID int64) error {
	return d.send(ctx, chatID, "<b>📰 Новости</b>\n\nВыберите действие:", &telegram.InlineKeyboard{InlineKeyboard: [][]telegram.InlineKeyboardButton{
		{{Text: "📰 Все новости", CallbackData: cbNewsAll}},
		{{Text: "➕ Создать новость", CallbackData: cbNewsCreate}},
		{{Text: "📝 Мои новости", CallbackData: cbNewsMine}},
	}})
}

func newsList(title string, items []*entity.NewsItem, withAuthor bool) (string, *telegram.InlineKeyboard) {
	var b strings.Builder
	b.WriteString(title)
	kb := &telegram.InlineKeyboard{}
	for _, n := range items {
		fmt.Fprintf(&b, "<b>%s</b>\n", html.EscapeString(n.Title))
		if withAuthor {
			fmt.Fprintf(&b, "От: %s\n", html.EscapeString(n.OrganizationName))
		}
		fmt.Fprintf(&b, "%s\n", html.EscapeString(preview(n.Content, previewRunes)))
		fmt.Fprintf(&b, "👁 Просмотров: %d\n", n.ViewsCount)
		fmt.Fprintf(&b, "📅 %s\n\n", n.CreatedAt.Format("2006-01-02"))
		b.WriteString(separator)
		kb.InlineKeyboard = append(kb.InlineKeyboard, []telegram.InlineKeyboardButton{
			{Text: "📖 " + preview(n.Title, 40), CallbackData: cbNewsView + n.ID},
		})
	}
	return b.String(), kb
}

func newsView(n *entity.NewsItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n", html.EscapeString(n.Title))
	fmt.Fprintf(&b, "От: %s\n\n", html.EscapeString(n.OrganizationName))
	fmt.Fprintf(&b, "%s\n\n", html.EscapeString(n.Content))
	fmt.Fprintf(&b, "👁 Просмотров: %d | 📅 %s", n.ViewsCount, n.CreatedAt.Format("2006-01-02"))
	return b.String()
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// ─── Recursos ────────────────────────────────────────────────────────────────

func (d *Dispatcher) courses(ctx context.Context, _ dto.Actor, chatID int64) error {
	list, err := d.Resources.ListCourses(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return d.send(ctx, chatID, msgNoCourses, nil)
	}
	return d.send(ctx, chatID, resourceList("<b>📚 Доступные курсы</b>\n\n", list), nil)
}

func (d *Dispatcher) competitions(ctx context.Context, _ dto.Actor, chatID int64) error {
	list, err := d.Resources.ListCompetitions(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return d.send(ctx, chatID, msgNoCompetitions, nil)
	}
	return d.send(ctx, chatID, resourceList("<b>🏆 Активные конкурсы</b>\n\n", list), nil)
}

func resourceList(title string, list []*entity.Resource) string {
	var b strings.Builder
	b.WriteString(title)
	for _, r := range list {
		fmt.Fprintf(&b, "<b>%s</b>\n%s\n", html.EscapeString(r.Title), html.EscapeString(r.Content))
		if r.Deadline != "" {
			fmt.Fprintf(&b, "📅 Дедлайн: %s\n", html.EscapeString(r.Deadline))
		}
		if r.Link != "" {
			fmt.Fprintf(&b, "🔗 Ссылка: %s\n", html.EscapeString(r.Link))
		}
		b.WriteString("\n" + separator)
	}
	return b.String()
}

func (d *Dispatcher) resourceHub(ctx context.Context, _ dto.Actor, chatID int64) error {
	text := "<b>📚 Ресурсный центр</b>\n\n" +
		"Добро пожаловать в ресурсный центр! Здесь вы можете:\n\n" +
		"• Задать вопрос специалистам\n" +
		"• Получить консультацию по поиску партнёров\n" +
		"• Узнать о доступных программах поддержки\n\n" +
		"Выберите действие:"
	return d.send(ctx, chatID, text, &telegram.InlineKeyboard{InlineKeyboard: [][]telegram.InlineKeyboardButton{
		{{Text: "❓ Задать вопрос", CallbackData: cbAskQuestion}},
		{{Text: "📞 Контакты специалистов", CallbackData: cbRCContacts}},
	}})
}

func (d *Dispatcher) mentors(ctx context.Context, _ dto.Actor, chatID int64) error {
	list, err := d.Mentors.ListAvailable(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return d.send(ctx, chatID, msgNoMentors, nil)
	}
	var b strings.Builder
	b.WriteString("<b>👥 Доступные наставники</b>\n\n")
	for _, m := range list {
		fmt.Fprintf(&b, "<b>%s</b>\n", html.EscapeString(m.Name))
		fmt.Fprintf(&b, "Экспертиза: %s\n", html.EscapeString(m.Expertise))
		fmt.Fprintf(&b, "Опыт: %s\n", html.EscapeString(m.Experience))
		fmt.Fprintf(&b, "Контакт: %s\n\n", html.EscapeString(m.ContactInfo))
		b.WriteString(separator)
	}
	return d.send(ctx, chatID, b.String(), nil)
}

// ─── Perfil y documentos ─────────────────────────────────────────────────────

var statusEmoji = map[string]string{
	entity.OrgStatusPending:  "⏳",
	entity.OrgStatusVerified: "✅",
	entity.OrgStatusRejected: "❌",
}

func (d *Dispatcher) profile(ctx context.Context, actor dto.Actor, chatID int64) error {
	p, err := d.Profiles.Get(ctx, actor.TelegramID)
	if err != nil {
		return err
	}
	switch {
	case p.Organization != nil:
		return d.send(ctx, chatID, organizationProfile(p.Organization), nil)
	case p.Mentor != nil:
		m := p.Mentor
		text := fmt.Sprintf("<b>🎓 Профиль наставника</b>\n\nИмя: <b>%s</b>\nЭкспертиза: %s\nОпыт: %s\nКонтакт: %s",
			html.EscapeString(m.Name), html.EscapeString(m.Expertise), html.EscapeString(m.Experience), html.EscapeString(m.ContactInfo))
		return d.send(ctx, chatID, text, nil)
	}
	return d.send(ctx, chatID, "У вас нет организации!", nil)
}

func organizationProfile(o *entity.Organization) string {
	var b strings.Builder
	b.WriteString("<b>🏢 Профиль организации</b>\n\n")
	fmt.Fprintf(&b, "Название: <b>%s</b>\n", html.EscapeString(o.Name))
	fmt.Fprintf(&b, "Юридическая форма: %s\n", html.EscapeString(o.LegalForm))
	fmt.Fprintf(&b, "ИНН: %s\n", o.INN)
	fmt.Fprintf(&b, "Телефон: %s\n", html.EscapeString(o.Phone))
	fmt.Fprintf(&b, "Email: %s\n", html.EscapeString(o.Email))
	fmt.Fprintf(&b, "Telegram: %s\n\n", html.EscapeString(o.Telegram))
	fmt.Fprintf(&b, "<b>Описание:</b>\n%s\n\n", html.EscapeString(o.Description))
	fmt.Fprintf(&b, "Оборот: %s\n", html.EscapeString(o.Turnover))
	city := o.City
	if city == "" {
		city = "Не указан"
	}
	fmt.Fprintf(&b, "Город: %s\n", html.EscapeString(city))
	fmt.Fprintf(&b, "Формат взаимодействия: %s\n", html.EscapeString(o.InteractionFormat))
	fmt.Fprintf(&b, "Тип партнёрства: %s\n\n", html.EscapeString(o.PartnershipType))
	fmt.Fprintf(&b, "%s Статус: %s\n", statusEmoji[o.VerificationStatus], o.VerificationStatus)
	return b.String()
}

func (d *Dispatcher) documents(ctx context.Context, actor dto.Actor, chatID int64) error {
	list, err := d.Contracts.ListMine(ctx, actor.TelegramID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return d.send(ctx, chatID, msgNoContracts, nil)
	}
	var b strings.Builder
	b.WriteString("<b>📄 Ваши договоры</b>\n\n")
	for _, c := range list {
		fmt.Fprintf(&b, "<b>Договор #%s</b>\n", shortID(c.ID))
		fmt.Fprintf(&b, "С: %s\n", html.EscapeString(c.CounterpartyName))
		fmt.Fprintf(&b, "Тип: %s\n", usecase.ContractTypeLabel(c.Type))
		fmt.Fprintf(&b, "Дата: %s\n\n", c.CreatedAt.Format("2006-01-02"))
		b.WriteString(separator)
	}
	return d.send(ctx, chatID, b.String(), nil)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// ─── Administración ──────────────────────────────────────────────────────────

func (d *Dispatcher) pending(ctx context.Context, actor dto.Actor, chatID int64) error {
	views, err := d.Verification.ListPending(ctx, actor.TelegramID)
	if err != nil {
		return err
	}
	if len(views) == 0 {
		return d.send(ctx, chatID, msgNoPending, nil)
	}
	for _, v := range views {
		kb := telegram.ButtonGrid(notify.VerificationButtons(v.Verification.ID), 2)
		if err := d.send(ctx, chatID, verificationCard(v), kb); err != nil {
			return err
		}
	}
	return nil
}

func verificationCard(v *entity.VerificationView) string {
	o := v.Organization
	c := o.Contacts()
	return fmt.Sprintf("<b>Заявка #%s</b>\n\n", shortID(v.Verification.ID)) +
		matching.Card(&o) +
		fmt.Sprintf("\n\nИНН: %s\n📞 %s\n📧 %s\n💬 %s", o.INN, html.EscapeString(c.Phone), html.EscapeString(c.Email), html.EscapeString(c.Telegram))
}

func (d *Dispatcher) stats(ctx context.Context, actor dto.Actor, chatID int64) error {
	s, err := d.Admin.Stats(ctx, actor.TelegramID)
	if err != nil {
		return err
	}
	text := "<b>📊 Статистика платформы</b>\n\n" +
		fmt.Sprintf("👥 Всего пользователей: %d\n", s.TotalUsers) +
		fmt.Sprintf("🏢 Всего организаций: %d\n", s.TotalOrgs) +
		fmt.Sprintf("✅ Верифицированных: %d (%s%%)\n", s.VerifiedOrgs, s.VerifiedShare) +
		fmt.Sprintf("⏳ На проверке: %d\n", s.PendingOrgs) +
		fmt.Sprintf("🤝 Всего матчей: %d\n", s.TotalMatches) +
		fmt.Sprintf("📈 Матчей на организацию: %s", s.MatchesPerVerOrg)
	return d.send(ctx, chatID, text, nil)
}

var actionLabels = map[string]string{
	entity.ActionRegistration:        "📝 Регистрация",
	entity.ActionVerificationApprove: "✅ Верифицирована организация",
	entity.ActionVerificationReject:  "❌ Отклонена организация",
	entity.ActionLike:                "❤️ Лайк",
	entity.ActionMatch:               "🤝 Матч",
	entity.ActionCreateContract:      "📄 Создан договор",
	entity.ActionCreateNews:          "📰 Создана новость",
	entity.ActionAddResource:         "➕ Добавлен ресурс",
	entity.ActionResourceQuestion:    "❓ Вопрос в ресурсный центр",
	entity.ActionAddAdmin:            "👨‍💼 Назначен администратор",
	entity.ActionRemoveAdmin:         "➖ Снят администратор",
}

func (d *Dispatcher) logs(ctx context.Context, actor dto.Actor, chatID int64) error {
	list, err := d.Admin.RecentLogs(ctx, actor.TelegramID, usecase.RecentLogsLimit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return d.send(ctx, chatID, msgNoLogs, nil)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "<b>📋 Последние %d логов:</b>\n\n", len(list))
	for _, l := range list {
		label, ok := actionLabels[l.Action]
		if !ok {
			label = l.Action
		}
		fmt.Fprintf(&b, "<b>%s</b>\n📌 %s\n", l.CreatedAt.Format("2006-01-02 15:04"), label)
		if len(l.Details) > 0 {
			keys := slices.Sorted(maps.Keys(l.Details))
			pairs := make([]string, 0, len(keys))
			for _, k := range keys {
				pairs = append(pairs, fmt.Sprintf("%s: %v", k, l.Details[k]))
			}
			fmt.Fprintf(&b, "ℹ️ %s\n", html.EscapeString(strings.Join(pairs, ", ")))
		}
		b.WriteString("\n")
	}
	return d.send(ctx, chatID, b.String(), nil)
}

func ownerPanelText(admins []*entity.User) string {
	lines := make([]string, 0, len(admins))
	for _, a := range admins {
		lines = append(lines, fmt.Sprintf("👨‍💼 %s (@%s) - %s", html.EscapeString(a.FullName), usernameOr(a.Username), roleLabel(a)))
	}
	list := "Нет администраторов"
	if len(lines) > 0 {
		list = strings.Join(lines, "\n")
	}
	return "<b>🔧 Панель управления операторами</b>\n\n<b>Текущие операторы:</b>\n" + list
}

func adminListText(admins []*entity.User) string {
	if len(admins) == 0 {
		return "<b>📋 Список всех операторов:</b>\n\nНет администраторов"
	}
	blocks := make([]string, 0, len(admins))
	for _, a := range admins {
		blocks = append(blocks, fmt.Sprintf("👨‍💼 <b>%s</b>\n   @%s | ID: %d\n   Роль: %s",
			html.EscapeString(a.FullName), usernameOr(a.Username), a.TelegramID, roleLabel(a)))
	}
	return "<b>📋 Список всех операторов:</b>\n\n" + strings.Join(blocks, "\n\n")
}

func usernameOr(u string) string {
	if u == "" {
		return "нет"
	}
	return html.EscapeString(u)
}
