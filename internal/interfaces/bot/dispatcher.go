// Package bot traduce los updates de Telegram a operaciones del núcleo:
// comandos y menús, botones de acción y entradas de las conversaciones.
package bot

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jhoicas/partnerhub/internal/application/auth"
	"github.com/jhoicas/partnerhub/internal/application/conversation"
	"github.com/jhoicas/partnerhub/internal/application/dto"
	"github.com/jhoicas/partnerhub/internal/application/matching"
	"github.com/jhoicas/partnerhub/internal/application/usecase"
	"github.com/jhoicas/partnerhub/internal/application/verification"
	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/infrastructure/telegram"
	"github.com/jhoicas/partnerhub/pkg/logger"
)

// MsgInternalError respuesta ante un fallo inesperado.
const MsgInternalError = "Произошла ошибка. Попробуйте позже."

// Messenger subconjunto del cliente de Telegram que usa el dispatcher.
type Messenger interface {
	SendMessage(ctx context.Context, chatID int64, text string, kb telegram.Markup) (int64, error)
	EditMessage(ctx context.Context, chatID, messageID int64, text string, kb *telegram.InlineKeyboard) error
	AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error
}

// Deps casos de uso que el dispatcher expone por el chat.
type Deps struct {
	Messenger    Messenger
	Engine       *conversation.Engine
	Guard        *auth.Guard
	Registration *usecase.RegistrationUseCase
	Profiles     *usecase.ProfileUseCase
	Matching     *matching.UseCase
	Verification *verification.UseCase
	Resources    *usecase.ResourceUseCase
	News         *usecase.NewsUseCase
	Mentors      *usecase.MentorUseCase
	Contracts    *usecase.ContractUseCase
	Admin        *usecase.AdminUseCase
	Log          *logger.Logger
}

// Dispatcher punto de entrada de todos los updates, tanto en polling como en webhook.
type Dispatcher struct {
	Deps
	menu map[string]menuAction

	mu sync.Mutex
	// keyboards opciones del último paso presentado a cada actor; los botones solo llevan el índice.
	keyboards map[int64]renderedStep
}

type menuAction func(ctx context.Context, actor dto.Actor, chatID int64) error

// New construye el dispatcher.
func New(deps Deps) *Dispatcher {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	d := &Dispatcher{Deps: deps, keyboards: make(map[int64]renderedStep)}
	d.menu = d.menuActions()
	return d
}

// Handle procesa un update. Los errores se registran y se responde con un mensaje genérico.
func (d *Dispatcher) Handle(ctx context.Context, u telegram.Update) {
	defer func() {
		if r := recover(); r != nil {
			d.Log.Error().Interface("panic", r).Int64("update_id", u.UpdateID).Msg("pánico procesando update")
		}
	}()
	switch {
	case u.CallbackQuery != nil:
		d.onCallback(ctx, u.CallbackQuery)
	case u.Message != nil && u.Message.From != nil && u.Message.Chat != nil:
		if err := d.onMessage(ctx, u.Message); err != nil {
			d.fail(ctx, u.Message.Chat.ID, err)
		}
	}
}

func (d *Dispatcher) onMessage(ctx context.Context, m *telegram.Message) error {
	actor := actorOf(m.From)
	chatID := m.Chat.ID
	text := strings.TrimSpace(m.Text)
	if text == "" {
		text = strings.TrimSpace(m.Caption)
	}

	switch command(text) {
	case "/start":
		d.Engine.Cancel(ctx, actor.TelegramID)
		return d.start(ctx, actor, chatID)
	case "/menu":
		d.Engine.Cancel(ctx, actor.TelegramID)
		return d.showMenu(ctx, actor, chatID)
	case "/admin":
		d.Engine.Cancel(ctx, actor.TelegramID)
		return d.ownerPanel(ctx, actor, chatID)
	}

	if _, step, ok := d.Engine.Active(actor.TelegramID); ok {
		value := text
		if media := m.MediaFileID(); media != "" && step == conversation.StepMedia {
			value = media
		}
		reply, err := d.Engine.Advance(ctx, actor.TelegramID, conversation.Input{Value: value})
		if errors.Is(err, domain.ErrNoSession) {
			return d.onMenu(ctx, actor, chatID, text)
		}
		if err != nil {
			return err
		}
		return d.render(ctx, actor, chatID, nil, reply)
	}
	return d.onMenu(ctx, actor, chatID, text)
}

func (d *Dispatcher) onMenu(ctx context.Context, actor dto.Actor, chatID int64, text string) error {
	if action, ok := d.menu[text]; ok {
		return action(ctx, actor, chatID)
	}
	if conversation.IsCancel(text) {
		return d.showMenu(ctx, actor, chatID)
	}
	return d.send(ctx, chatID, msgUnknown, nil)
}

// startFlow abre una conversación y presenta su primer paso.
func (d *Dispatcher) startFlow(ctx context.Context, actor dto.Actor, chatID int64, flow conversation.FlowName, params map[string]string) error {
	reply, err := d.Engine.Start(ctx, actor, flow, params)
	if err != nil {
		return err
	}
	return d.render(ctx, actor, chatID, nil, reply)
}

// fail traduce errores de dominio a mensajes visibles; el resto se registra.
func (d *Dispatcher) fail(ctx context.Context, chatID int64, err error) {
	if msg, ok := userMessage(err); ok {
		_ = d.send(ctx, chatID, msg, nil)
		return
	}
	d.Log.Actor(chatID).Error().Err(err).Msg("fallo procesando mensaje")
	_ = d.send(ctx, chatID, MsgInternalError, nil)
}

func userMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUnauthorized):
		return conversation.MsgForbidden, true
	case errors.Is(err, domain.ErrNotVerified):
		return conversation.MsgNotVerified, true
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrNotFound):
		return conversation.MsgNoProfile, true
	case errors.Is(err, domain.ErrConflict):
		return msgAlreadyProcessed, true
	}
	return "", false
}

func actorOf(u *telegram.User) dto.Actor {
	return dto.Actor{TelegramID: u.ID, Username: u.Username, FullName: u.FullName()}
}

// command devuelve el comando sin el sufijo @bot ("/start@mi_bot" → "/start").
func command(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd, _, _ := strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return strings.ToLower(cmd)
}
