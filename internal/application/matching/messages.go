package matching

import (
	"fmt"
	"html"
	"strings"

	"github.com/jhoicas/partnerhub/internal/domain/entity"
)

const likeSentMessage = "Лайк отправлен! ❤️\n\nЕсли организация тоже поставит вам лайк, вы получите уведомление."

func matchMessage(partner *entity.Organization) string {
	c := partner.Contacts()
	return fmt.Sprintf(
		"🎉 <b>Это матч!</b>\n\n"+
			"Вы понравились друг другу с организацией <b>%s</b>!\n\n"+
			"Контакты партнёра:\n"+
			"📞 Телефон: %s\n"+
			"📧 Email: %s\n"+
			"💬 Telegram: %s\n\n"+
			"Свяжитесь с ними для обсуждения сотрудничества!",
		html.EscapeString(partner.Name),
		html.EscapeString(c.Phone),
		html.EscapeString(c.Email),
		html.EscapeString(c.Telegram),
	)
}

func alreadyMatchedMessage(partner *entity.Organization) string {
	return fmt.Sprintf("У вас уже есть матч с организацией <b>%s</b>.", html.EscapeString(partner.Name))
}

// Card formatea la tarjeta de una organización para el feed y para la moderación.
func Card(org *entity.Organization) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%s</b>\n\n", html.EscapeString(org.Name))
	fmt.Fprintf(&b, "📋 Юр. форма: %s\n", html.EscapeString(org.LegalForm))
	fmt.Fprintf(&b, "💰 Оборот: %s\n", html.EscapeString(org.Turnover))
	fmt.Fprintf(&b, "📍 Формат: %s", html.EscapeString(org.InteractionFormat))
	if org.City != "" {
		fmt.Fprintf(&b, " (%s)", html.EscapeString(org.City))
	}
	fmt.Fprintf(&b, "\n🤝 Тип: %s\n\n", html.EscapeString(org.PartnershipType))
	fmt.Fprintf(&b, "<b>Может дать:</b>\n%s\n\n", html.EscapeString(strings.Join(org.CanGive, ", ")))
	fmt.Fprintf(&b, "<b>Нужно:</b>\n%s\n\n", html.EscapeString(strings.Join(org.Need, ", ")))
	fmt.Fprintf(&b, "<b>Описание:</b>\n%s", html.EscapeString(org.Description))
	return b.String()
}
