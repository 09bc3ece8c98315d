package telegram

import (
	"context"

	"github.com/jhoicas/partnerhub/internal/application/ports"
)

var (
	_ ports.ActionNotifier = (*Notifier)(nil)
	_ ports.DocumentSender = (*Notifier)(nil)
)

// Notifier adapta el cliente a los puertos de notificación del núcleo.
type Notifier struct {
	client *Client
}

// NewNotifier construye el adaptador.
func NewNotifier(client *Client) *Notifier {
	return &Notifier{client: client}
}

// Notify envía un mensaje de texto.
func (n *Notifier) Notify(ctx context.Context, telegramID int64, text string) error {
	_, err := n.client.SendMessage(ctx, telegramID, text, nil)
	return err
}

// NotifyWithActions envía el mensaje con los botones en filas de dos.
func (n *Notifier) NotifyWithActions(ctx context.Context, telegramID int64, text string, buttons []ports.Button) error {
	_, err := n.client.SendMessage(ctx, telegramID, text, ButtonGrid(buttons, 2))
	return err
}

// SendDocument sube el archivo y devuelve su file_id.
func (n *Notifier) SendDocument(ctx context.Context, telegramID int64, filename string, data []byte, caption string) (string, error) {
	return n.client.SendDocument(ctx, telegramID, filename, data, caption)
}

// ButtonGrid reparte los botones en filas de perRow.
func ButtonGrid(buttons []ports.Button, perRow int) *InlineKeyboard {
	if perRow <= 0 {
		perRow = 1
	}
	kb := &InlineKeyboard{}
	var row []InlineKeyboardButton
	for _, b := range buttons {
		row = append(row, InlineKeyboardButton{Text: b.Text, CallbackData: b.Data})
		if len(row) == perRow {
			kb.InlineKeyboard = append(kb.InlineKeyboard, row)
			row = nil
		}
	}
	if len(row) > 0 {
		kb.InlineKeyboard = append(kb.InlineKeyboard, row)
	}
	return kb
}
