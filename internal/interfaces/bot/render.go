package bot

import (
	"context"
	"strconv"
	"strings"

	"github.com/jhoicas/partnerhub/internal/application/conversation"
	"github.com/jhoicas/partnerhub/internal/application/dto"
	"github.com/jhoicas/partnerhub/internal/infrastructure/telegram"
)

// maxMessageRunes límite práctico de un mensaje de Telegram.
const maxMessageRunes = 4000

const optionPrefix = "opt:"

type renderedStep struct {
	step   conversation.StepID
	values []string
}

// callbackOrigin mensaje con el botón pulsado; permite editar el teclado en sitio.
type callbackOrigin struct {
	id        string
	messageID int64
}

// render presenta una respuesta del engine. Desde un botón de selección múltiple
// se edita el mensaje original; en otro caso se envía un mensaje nuevo.
func (d *Dispatcher) render(ctx context.Context, actor dto.Actor, chatID int64, origin *callbackOrigin, r conversation.Reply) error {
	if r.Terminal {
		d.forget(actor.TelegramID)
		kb, err := d.menuKeyboard(ctx, actor.TelegramID)
		if err != nil {
			return err
		}
		return d.send(ctx, chatID, r.Prompt, kb)
	}

	kb := d.keyboardFor(actor.TelegramID, r)
	text := r.Prompt
	if origin != nil && r.Multi && !r.Ignored && origin.messageID != 0 {
		return d.Messenger.EditMessage(ctx, chatID, origin.messageID, text, kb)
	}
	if origin == nil && r.Alert != "" {
		text = r.Alert + "\n\n" + text
	}
	if kb == nil {
		return d.send(ctx, chatID, text, nil)
	}
	return d.send(ctx, chatID, text, kb)
}

// keyboardFor construye el teclado de opciones y recuerda sus valores para resolver el índice.
func (d *Dispatcher) keyboardFor(actorID int64, r conversation.Reply) *telegram.InlineKeyboard {
	if len(r.Options) == 0 {
		d.forget(actorID)
		return nil
	}
	values := make([]string, len(r.Options))
	kb := &telegram.InlineKeyboard{}
	var tail []telegram.InlineKeyboardButton
	for i, o := range r.Options {
		values[i] = o.Value
		label := o.Label
		if o.Selected {
			label = "✅ " + label
		}
		btn := telegram.InlineKeyboardButton{Text: label, CallbackData: optionData(r.Step, i)}
		if r.Multi && (o.Value == conversation.OptionOther || o.Value == conversation.OptionDone) {
			tail = append(tail, btn)
			continue
		}
		kb.InlineKeyboard = append(kb.InlineKeyboard, []telegram.InlineKeyboardButton{btn})
	}
	if len(tail) > 0 {
		kb.InlineKeyboard = append(kb.InlineKeyboard, tail)
	}
	if len(r.Options) == 2 && r.Options[0].Value == conversation.OptionAccept {
		kb.InlineKeyboard = [][]telegram.InlineKeyboardButton{{kb.InlineKeyboard[0][0], kb.InlineKeyboard[1][0]}}
	}

	d.mu.Lock()
	d.keyboards[actorID] = renderedStep{step: r.Step, values: values}
	d.mu.Unlock()
	return kb
}

func (d *Dispatcher) forget(actorID int64) {
	d.mu.Lock()
	delete(d.keyboards, actorID)
	d.mu.Unlock()
}

func optionData(step conversation.StepID, i int) string {
	return optionPrefix + string(step) + ":" + strconv.Itoa(i)
}

// resolveOption traduce "opt:<paso>:<índice>" a la entrada del engine. Un botón de un paso
// que ya no es el presentado se entrega con su paso para que el engine lo ignore.
func (d *Dispatcher) resolveOption(actorID int64, data string) (conversation.Input, bool) {
	step, idx, ok := strings.Cut(strings.TrimPrefix(data, optionPrefix), ":")
	if !ok {
		return conversation.Input{}, false
	}
	i, err := strconv.Atoi(idx)
	if err != nil || i < 0 {
		return conversation.Input{}, false
	}
	d.mu.Lock()
	current, known := d.keyboards[actorID]
	d.mu.Unlock()
	in := conversation.Input{Step: conversation.StepID(step), Choice: true}
	if !known || current.step != in.Step || i >= len(current.values) {
		return in, true
	}
	in.Value = current.values[i]
	return in, true
}

// send envía text partido en trozos si es necesario; el teclado va en el último.
func (d *Dispatcher) send(ctx context.Context, chatID int64, text string, kb telegram.Markup) error {
	parts := splitMessage(text, maxMessageRunes)
	for i, p := range parts {
		var markup telegram.Markup
		if i == len(parts)-1 {
			markup = kb
		}
		if _, err := d.Messenger.SendMessage(ctx, chatID, p, markup); err != nil {
			return err
		}
	}
	return nil
}

// splitMessage corta en saltos de línea para no partir etiquetas HTML.
func splitMessage(text string, limit int) []string {
	if len([]rune(text)) <= limit {
		return []string{text}
	}
	var (
		parts []string
		b     strings.Builder
		n     int
	)
	for _, line := range strings.SplitAfter(text, "\n") {
		l := len([]rune(line))
		if n+l > limit && n > 0 {
			parts = append(parts, b.String())
			b.Reset()
			n = 0
		}
		for l > limit {
			r := []rune(line)
			parts = append(parts, string(r[:limit]))
			line = string(r[limit:])
			l -= limit
		}
		b.WriteString(line)
		n += l
	}
	if b.Len() > 0 {
		parts = append(parts, b.String())
	}
	return parts
}
