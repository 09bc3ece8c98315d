package verification

import (
	"html"
	"strings"
)

func approvedMessage(custom string) string {
	var b strings.Builder
	b.WriteString("✅ <b>Поздравляем!</b>\n\nВаша организация успешно верифицирована!")
	if custom != "" {
		b.WriteString("\n\n📩 <b>Сообщение от администратора:</b>\n")
		b.WriteString(html.EscapeString(custom))
	}
	b.WriteString("\n\nТеперь вы можете искать партнёров и пользоваться всеми функциями платформы.")
	return b.String()
}

func rejectedMessage(reason, custom string) string {
	var b strings.Builder
	b.WriteString("❌ К сожалению, ваша заявка отклонена.\n\nПричина: ")
	b.WriteString(html.EscapeString(reason))
	if custom != "" {
		b.WriteString("\n\n📩 <b>Сообщение от администратора:</b>\n")
		b.WriteString(html.EscapeString(custom))
	}
	b.WriteString("\n\nДля получения дополнительной информации обратитесь к администратору.")
	return b.String()
}
