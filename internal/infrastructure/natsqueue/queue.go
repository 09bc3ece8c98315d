// Package natsqueue desacopla el envío de notificaciones: los casos de uso publican en un
// subject de NATS y un relay consume la cola y entrega por Telegram.
package natsqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jhoicas/partnerhub/internal/application/ports"
	"github.com/jhoicas/partnerhub/pkg/logger"
	"github.com/nats-io/nats.go"
)

var _ ports.ActionNotifier = (*Publisher)(nil)

// QueueGroup grupo de consumidores: cada notificación la entrega una sola réplica.
const QueueGroup = "partnerhub-notifier"

// Envelope mensaje serializado en la cola.
type Envelope struct {
	TelegramID int64          `json:"telegram_id"`
	Text       string         `json:"text"`
	Buttons    []ports.Button `json:"buttons,omitempty"`
}

// Connect abre la conexión con reconexión ilimitada.
func Connect(url, name string, log *logger.Logger) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("nats: desconectado")
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			log.Info().Str("url", c.ConnectedUrl()).Msg("nats: reconectado")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats: conectar %s: %w", url, err)
	}
	return nc, nil
}

// Publisher implementa el notificador publicando en la cola.
type Publisher struct {
	nc      *nats.Conn
	subject string
}

// NewPublisher construye el publicador.
func NewPublisher(nc *nats.Conn, subject string) *Publisher {
	return &Publisher{nc: nc, subject: subject}
}

// Notify encola un mensaje de texto.
func (p *Publisher) Notify(_ context.Context, telegramID int64, text string) error {
	return p.publish(Envelope{TelegramID: telegramID, Text: text})
}

// NotifyWithActions encola un mensaje con botones.
func (p *Publisher) NotifyWithActions(_ context.Context, telegramID int64, text string, buttons []ports.Button) error {
	return p.publish(Envelope{TelegramID: telegramID, Text: text, Buttons: buttons})
}

func (p *Publisher) publish(env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("nats: serializar: %w", err)
	}
	if err := p.nc.Publish(p.subject, data); err != nil {
		return fmt.Errorf("nats: publicar: %w", err)
	}
	return nil
}

// Relay consume la cola y entrega cada mensaje con el notificador de destino.
type Relay struct {
	nc      *nats.Conn
	subject string
	target  ports.ActionNotifier
	log     *logger.Logger

	mu  sync.Mutex
	sub *nats.Subscription
}

// NewRelay construye el relay.
func NewRelay(nc *nats.Conn, subject string, target ports.ActionNotifier, log *logger.Logger) *Relay {
	if log == nil {
		log = logger.Nop()
	}
	return &Relay{nc: nc, subject: subject, target: target, log: log}
}

// Name identifica al worker en los logs.
func (r *Relay) Name() string { return "notification-relay" }

// Start se suscribe al subject dentro del grupo de cola. No bloquea.
func (r *Relay) Start(ctx context.Context) error {
	sub, err := r.nc.QueueSubscribe(r.subject, QueueGroup, func(msg *nats.Msg) {
		r.handle(ctx, msg.Data)
	})
	if err != nil {
		return fmt.Errorf("nats: suscribir %s: %w", r.subject, err)
	}
	r.mu.Lock()
	r.sub = sub
	r.mu.Unlock()
	r.log.Info().Str("subject", r.subject).Str("queue", QueueGroup).Msg("relay de notificaciones iniciado")
	return nil
}

// Stop drena la suscripción.
func (r *Relay) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sub == nil {
		return nil
	}
	err := r.sub.Drain()
	r.sub = nil
	return err
}

func (r *Relay) handle(ctx context.Context, data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		r.log.Warn().Err(err).Msg("relay: mensaje inválido descartado")
		return
	}
	var err error
	if len(env.Buttons) > 0 {
		err = r.target.NotifyWithActions(ctx, env.TelegramID, env.Text, env.Buttons)
	} else {
		err = r.target.Notify(ctx, env.TelegramID, env.Text)
	}
	if err != nil {
		r.log.Warn().Err(err).Int64("telegram_id", env.TelegramID).Msg("relay: entrega fallida")
	}
}
