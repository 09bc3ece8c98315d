package ports

import "context"

// Notifier puerto de salida para avisar a un actor por su Telegram ID.
// Es best-effort: el núcleo nunca consulta el resultado para decidir su estado.
type Notifier interface {
	Notify(ctx context.Context, telegramID int64, text string) error
}

// Button acción adjunta a una notificación (p. ej. aprobar / rechazar).
type Button struct {
	Text string
	Data string
}

// ActionNotifier notificador capaz de adjuntar botones de acción.
type ActionNotifier interface {
	Notifier
	NotifyWithActions(ctx context.Context, telegramID int64, text string, buttons []Button) error
}

// DocumentSender envía un archivo y devuelve la referencia (file_id) asignada por el transporte.
type DocumentSender interface {
	SendDocument(ctx context.Context, telegramID int64, filename string, data []byte, caption string) (string, error)
}
