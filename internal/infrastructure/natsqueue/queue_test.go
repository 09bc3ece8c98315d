package natsqueue_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/partnerhub/internal/application/ports"
	"github.com/jhoicas/partnerhub/internal/infrastructure/natsqueue"
	"github.com/jhoicas/partnerhub/pkg/logger"
	"github.com/nats-io/nats-server/v2/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu   sync.Mutex
	sent []natsqueue.Envelope
}

func (r *recorder) Notify(_ context.Context, id int64, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, natsqueue.Envelope{TelegramID: id, Text: text})
	return nil
}

func (r *recorder) NotifyWithActions(_ context.Context, id int64, text string, b []ports.Button) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, natsqueue.Envelope{TelegramID: id, Text: text, Buttons: b})
	return nil
}

func (r *recorder) all() []natsqueue.Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]natsqueue.Envelope(nil), r.sent...)
}

func runServer(t *testing.T) string {
	t.Helper()
	ns, err := server.NewServer(&server.Options{Host: "127.0.0.1", Port: -1, NoLog: true, NoSigs: true})
	require.NoError(t, err)
	go ns.Start()
	require.True(t, ns.ReadyForConnections(5*time.Second))
	t.Cleanup(ns.Shutdown)
	return ns.ClientURL()
}

func TestRelay_EntregaLoPublicado(t *testing.T) {
	url := runServer(t)
	log := logger.Nop()

	consumer, err := natsqueue.Connect(url, "relay", log)
	require.NoError(t, err)
	defer consumer.Close()
	producer, err := natsqueue.Connect(url, "publisher", log)
	require.NoError(t, err)
	defer producer.Close()

	rec := &recorder{}
	relay := natsqueue.NewRelay(consumer, "test.notify", rec, log)
	require.NoError(t, relay.Start(context.Background()))
	defer relay.Stop()
	require.NoError(t, consumer.Flush())

	pub := natsqueue.NewPublisher(producer, "test.notify")
	ctx := context.Background()
	require.NoError(t, pub.Notify(ctx, 42, "hola"))
	require.NoError(t, pub.NotifyWithActions(ctx, 7, "revisar", []ports.Button{{Text: "ok", Data: "verify:approve:1"}}))

	require.Eventually(t, func() bool { return len(rec.all()) == 2 }, 3*time.Second, 20*time.Millisecond)
	sent := rec.all()
	assert.ElementsMatch(t, []int64{42, 7}, []int64{sent[0].TelegramID, sent[1].TelegramID})
	for _, e := range sent {
		if e.TelegramID == 7 {
			require.Len(t, e.Buttons, 1)
			assert.Equal(t, "verify:approve:1", e.Buttons[0].Data)
		} else {
			assert.Empty(t, e.Buttons)
		}
	}
}

func TestRelay_StopSinStartNoFalla(t *testing.T) {
	relay := natsqueue.NewRelay(nil, "x", &recorder{}, nil)
	assert.NoError(t, relay.Stop())
}
