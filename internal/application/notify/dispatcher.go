// Package notify envuelve el puerto Notifier con la política fire-and-forget:
// los errores de entrega se registran y se descartan, nunca se propagan.
package notify

import (
	"context"

	"github.com/jhoicas/partnerhub/internal/application/ports"
	"github.com/jhoicas/partnerhub/pkg/logger"
)

// Dispatcher envío best-effort de avisos.
type Dispatcher struct {
	n   ports.Notifier
	log *logger.Logger
}

// NewDispatcher construye el dispatcher. n puede ser nil (sin transporte configurado).
func NewDispatcher(n ports.Notifier, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{n: n, log: log}
}

// Send envía text a telegramID e ignora cualquier fallo.
func (d *Dispatcher) Send(ctx context.Context, telegramID int64, text string) {
	if d == nil || d.n == nil || telegramID == 0 {
		return
	}
	if err := d.n.Notify(ctx, telegramID, text); err != nil {
		d.log.Warn().Err(err).Int64("telegram_id", telegramID).Msg("notificación descartada")
	}
}

// SendWithActions envía text con botones si el transporte lo soporta; si no, solo el texto.
func (d *Dispatcher) SendWithActions(ctx context.Context, telegramID int64, text string, buttons []ports.Button) {
	if d == nil || d.n == nil || telegramID == 0 {
		return
	}
	an, ok := d.n.(ports.ActionNotifier)
	if !ok || len(buttons) == 0 {
		d.Send(ctx, telegramID, text)
		return
	}
	if err := an.NotifyWithActions(ctx, telegramID, text, buttons); err != nil {
		d.log.Warn().Err(err).Int64("telegram_id", telegramID).Msg("notificación con acciones descartada")
	}
}

// Broadcast envía text a cada destinatario, sin repetir IDs.
func (d *Dispatcher) Broadcast(ctx context.Context, telegramIDs []int64, text string, buttons ...ports.Button) {
	seen := make(map[int64]struct{}, len(telegramIDs))
	for _, id := range telegramIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		d.SendWithActions(ctx, id, text, buttons)
	}
}
