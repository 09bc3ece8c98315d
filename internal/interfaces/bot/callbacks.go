package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/jhoicas/partnerhub/internal/application/conversation"
	"github.com/jhoicas/partnerhub/internal/application/dto"
	"github.com/jhoicas/partnerhub/internal/application/notify"
	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/infrastructure/telegram"
)

// Datos de callback de los botones inline.
const (
	cbFlow         = "flow:"
	cbLike         = "like:"
	cbSkip         = "skip:"
	cbNewsAll      = "news:all"
	cbNewsMine     = "news:mine"
	cbNewsView     = "news:view:"
	cbNewsCreate   = cbFlow + string(conversation.FlowCreateNews)
	cbAskQuestion  = "rc:ask"
	cbRCContacts   = "rc:contacts"
	cbAdminAdd     = "admin:add"
	cbAdminRemove  = "admin:remove"
	cbAdminRemoveN = "admin:remove:"
	cbAdminList    = "admin:list"
	cbAdminBack    = "admin:back"
)

const (
	msgStaleButton   = "Кнопка устарела"
	msgNoMoreCards   = "Больше подходящих партнёров нет"
	msgNoAdminsToDel = "Нет операторов для удаления"
)

// answer respuesta al callback; text vacío solo cierra el indicador de carga.
type answer struct {
	text  string
	alert bool
}

func (d *Dispatcher) onCallback(ctx context.Context, q *telegram.CallbackQuery) {
	actor := actorOf(&q.From)
	chatID := q.From.ID
	origin := &callbackOrigin{id: q.ID}
	if q.Message != nil {
		origin.messageID = q.Message.MessageID
		if q.Message.Chat != nil {
			chatID = q.Message.Chat.ID
		}
	}

	ans, err := d.callback(ctx, actor, chatID, origin, q.Data)
	if err != nil {
		if msg, ok := userMessage(err); ok {
			ans = answer{text: msg, alert: true}
		} else {
			d.Log.Actor(actor.TelegramID).Error().Err(err).Str("data", q.Data).Msg("fallo procesando callback")
			ans = answer{text: MsgInternalError, alert: true}
		}
	}
	if err := d.Messenger.AnswerCallback(ctx, q.ID, ans.text, ans.alert); err != nil {
		d.Log.Warn().Err(err).Str("callback_id", q.ID).Msg("no se pudo responder el callback")
	}
}

func (d *Dispatcher) callback(ctx context.Context, actor dto.Actor, chatID int64, origin *callbackOrigin, data string) (answer, error) {
	switch {
	case strings.HasPrefix(data, optionPrefix):
		return d.onOption(ctx, actor, chatID, origin, data)
	case strings.HasPrefix(data, cbFlow):
		if _, err := d.Registration.EnsureUser(ctx, actor); err != nil {
			return answer{}, err
		}
		return answer{}, d.startFlow(ctx, actor, chatID, conversation.FlowName(strings.TrimPrefix(data, cbFlow)), nil)
	case strings.HasPrefix(data, cbLike):
		return d.onLike(ctx, actor, chatID, strings.TrimPrefix(data, cbLike))
	case strings.HasPrefix(data, cbSkip):
		return d.onSkip(ctx, actor, chatID, strings.TrimPrefix(data, cbSkip))
	case strings.HasPrefix(data, "verify:"):
		return d.onVerification(ctx, actor, chatID, origin, data)
	case strings.HasPrefix(data, "news:"):
		return answer{}, d.onNews(ctx, actor, chatID, data)
	case data == cbAskQuestion:
		return answer{}, d.startFlow(ctx, actor, chatID, conversation.FlowResourceQuestion, nil)
	case data == cbRCContacts:
		return answer{}, d.send(ctx, chatID, msgRCContacts, nil)
	case strings.HasPrefix(data, "admin:"):
		return d.onAdmin(ctx, actor, chatID, origin, data)
	}
	return answer{text: msgStaleButton}, nil
}

// onOption entrega al engine la opción pulsada en el paso en curso.
func (d *Dispatcher) onOption(ctx context.Context, actor dto.Actor, chatID int64, origin *callbackOrigin, data string) (answer, error) {
	in, ok := d.resolveOption(actor.TelegramID, data)
	if !ok {
		return answer{text: msgStaleButton}, nil
	}
	reply, err := d.Engine.Advance(ctx, actor.TelegramID, in)
	if errors.Is(err, domain.ErrNoSession) {
		return answer{text: msgStaleButton}, nil
	}
	if err != nil {
		return answer{}, err
	}
	if reply.Ignored {
		return answer{text: msgStaleButton}, nil
	}
	if err := d.render(ctx, actor, chatID, origin, reply); err != nil {
		return answer{}, err
	}
	return answer{text: reply.Alert, alert: reply.Alert != ""}, nil
}

// ─── Matching ────────────────────────────────────────────────────────────────

func (d *Dispatcher) onLike(ctx context.Context, actor dto.Actor, chatID int64, orgID string) (answer, error) {
	if _, err := d.Matching.Like(ctx, actor.TelegramID, orgID); err != nil {
		// la tarjeta apunta a una organización que ya no existe o a datos corruptos
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
			return answer{text: msgStaleButton, alert: true}, nil
		}
		return answer{}, err
	}
	next, err := d.Matching.Next(ctx, actor.TelegramID)
	if err != nil {
		return answer{}, err
	}
	return d.nextCard(ctx, chatID, next)
}

func (d *Dispatcher) onSkip(ctx context.Context, actor dto.Actor, chatID int64, orgID string) (answer, error) {
	next, err := d.Matching.Skip(ctx, actor.TelegramID, orgID)
	if err != nil {
		return answer{}, err
	}
	return d.nextCard(ctx, chatID, next)
}

func (d *Dispatcher) nextCard(ctx context.Context, chatID int64, next *entity.Organization) (answer, error) {
	if next == nil {
		return answer{text: msgNoMoreCards}, d.send(ctx, chatID, msgNoCandidates, nil)
	}
	return answer{}, d.sendCandidate(ctx, chatID, next)
}

// ─── Verificación ────────────────────────────────────────────────────────────

func (d *Dispatcher) onVerification(ctx context.Context, actor dto.Actor, chatID int64, origin *callbackOrigin, data string) (answer, error) {
	switch {
	case strings.HasPrefix(data, notify.ActionApproveMessage):
		return answer{}, d.startFlow(ctx, actor, chatID, conversation.FlowVerificationMessage, map[string]string{
			conversation.ParamVerificationID: strings.TrimPrefix(data, notify.ActionApproveMessage),
			conversation.ParamDecision:       conversation.DecisionApprove,
		})
	case strings.HasPrefix(data, notify.ActionRejectMessage):
		return answer{}, d.startFlow(ctx, actor, chatID, conversation.FlowVerificationMessage, map[string]string{
			conversation.ParamVerificationID: strings.TrimPrefix(data, notify.ActionRejectMessage),
			conversation.ParamDecision:       conversation.DecisionReject,
		})
	case strings.HasPrefix(data, notify.ActionApprove):
		view, err := d.Verification.Approve(ctx, actor.TelegramID, strings.TrimPrefix(data, notify.ActionApprove), "")
		if err != nil {
			return answer{}, err
		}
		text := fmt.Sprintf("✅ Организация <b>%s</b> одобрена!", html.EscapeString(view.Organization.Name))
		return answer{text: "Одобрено"}, d.replace(ctx, chatID, origin, text)
	case strings.HasPrefix(data, notify.ActionReject):
		view, err := d.Verification.Reject(ctx, actor.TelegramID, strings.TrimPrefix(data, notify.ActionReject), "", "")
		if err != nil {
			return answer{}, err
		}
		text := fmt.Sprintf("❌ Организация <b>%s</b> отклонена.", html.EscapeString(view.Organization.Name))
		return answer{text: "Отклонено"}, d.replace(ctx, chatID, origin, text)
	}
	return answer{text: msgStaleButton}, nil
}

// replace sustituye el mensaje del botón pulsado; sin mensaje de origen envía uno nuevo.
func (d *Dispatcher) replace(ctx context.Context, chatID int64, origin *callbackOrigin, text string) error {
	if origin != nil && origin.messageID != 0 {
		return d.Messenger.EditMessage(ctx, chatID, origin.messageID, text, nil)
	}
	return d.send(ctx, chatID, text, nil)
}

// ─── Noticias ────────────────────────────────────────────────────────────────

func (d *Dispatcher) onNews(ctx context.Context, actor dto.Actor, chatID int64, data string) error {
	switch {
	case data == cbNewsAll:
		items, err := d.News.ListRecent(ctx)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return d.send(ctx, chatID, msgNoNews, nil)
		}
		text, kb := newsList("<b>📰 Последние новости</b>\n\n", items, true)
		return d.send(ctx, chatID, text, kb)
	case data == cbNewsMine:
		items, err := d.News.ListMine(ctx, actor.TelegramID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return d.send(ctx, chatID, msgNoMyNews, nil)
		}
		text, kb := newsList("<b>📝 Ваши новости</b>\n\n", items, false)
		return d.send(ctx, chatID, text, kb)
	case strings.HasPrefix(data, cbNewsView):
		item, err := d.News.View(ctx, strings.TrimPrefix(data, cbNewsView))
		if err != nil {
			return err
		}
		return d.send(ctx, chatID, newsView(item), nil)
	}
	return nil
}

// ─── Operadores ──────────────────────────────────────────────────────────────

func (d *Dispatcher) onAdmin(ctx context.Context, actor dto.Actor, chatID int64, origin *callbackOrigin, data string) (answer, error) {
	if !d.Guard.IsOwner(actor.TelegramID) {
		return answer{text: msgOwnerOnly, alert: true}, nil
	}
	switch {
	case data == cbAdminAdd:
		return answer{}, d.startFlow(ctx, actor, chatID, conversation.FlowAddAdmin, nil)
	case data == cbAdminList:
		admins, err := d.Admin.ListAdmins(ctx, actor.TelegramID)
		if err != nil {
			return answer{}, err
		}
		return answer{}, d.edit(ctx, chatID, origin, adminListText(admins), backKeyboard())
	case data == cbAdminBack:
		admins, err := d.Admin.ListAdmins(ctx, actor.TelegramID)
		if err != nil {
			return answer{}, err
		}
		return answer{}, d.edit(ctx, chatID, origin, ownerPanelText(admins), ownerPanelKeyboard())
	case data == cbAdminRemove:
		admins, err := d.Admin.ListAdmins(ctx, actor.TelegramID)
		if err != nil {
			return answer{}, err
		}
		kb := &telegram.InlineKeyboard{}
		for _, a := range admins {
			if a.TelegramID == actor.TelegramID {
				continue
			}
			kb.InlineKeyboard = append(kb.InlineKeyboard, []telegram.InlineKeyboardButton{{
				Text:         "❌ " + nameOr(a.FullName, strconv.FormatInt(a.TelegramID, 10)),
				CallbackData: cbAdminRemoveN + strconv.FormatInt(a.TelegramID, 10),
			}})
		}
		if len(kb.InlineKeyboard) == 0 {
			return answer{text: msgNoAdminsToDel, alert: true}, nil
		}
		kb.InlineKeyboard = append(kb.InlineKeyboard, backKeyboard().InlineKeyboard...)
		return answer{}, d.edit(ctx, chatID, origin, "<b>Выберите оператора для удаления:</b>", kb)
	case strings.HasPrefix(data, cbAdminRemoveN):
		target, err := strconv.ParseInt(strings.TrimPrefix(data, cbAdminRemoveN), 10, 64)
		if err != nil {
			return answer{text: msgStaleButton}, nil
		}
		removed, err := d.Admin.RemoveAdmin(ctx, actor.TelegramID, target)
		if err != nil {
			return answer{}, err
		}
		admins, err := d.Admin.ListAdmins(ctx, actor.TelegramID)
		if err != nil {
			return answer{}, err
		}
		text := fmt.Sprintf("✅ Оператор <b>%s</b> удалён.\n\n", html.EscapeString(nameOr(removed.FullName, strconv.FormatInt(removed.TelegramID, 10)))) +
			ownerPanelText(admins)
		return answer{text: "Удалено"}, d.edit(ctx, chatID, origin, text, ownerPanelKeyboard())
	}
	return answer{text: msgStaleButton}, nil
}

func backKeyboard() *telegram.InlineKeyboard {
	return &telegram.InlineKeyboard{InlineKeyboard: [][]telegram.InlineKeyboardButton{
		{{Text: "⬅️ Назад", CallbackData: cbAdminBack}},
	}}
}

// edit reescribe el mensaje de origen con un teclado nuevo.
func (d *Dispatcher) edit(ctx context.Context, chatID int64, origin *callbackOrigin, text string, kb *telegram.InlineKeyboard) error {
	if origin != nil && origin.messageID != 0 {
		return d.Messenger.EditMessage(ctx, chatID, origin.messageID, text, kb)
	}
	return d.send(ctx, chatID, text, kb)
}
