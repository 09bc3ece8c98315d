package telegram

// Update actualización de la Bot API (solo los campos que usa el bot).
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

// Message mensaje entrante.
type Message struct {
	MessageID int64       `json:"message_id"`
	From      *User       `json:"from,omitempty"`
	Chat      *Chat       `json:"chat,omitempty"`
	Text      string      `json:"text,omitempty"`
	Caption   string      `json:"caption,omitempty"`
	Photo     []PhotoSize `json:"photo,omitempty"`
	Video     *File       `json:"video,omitempty"`
	Document  *File       `json:"document,omitempty"`
}

// MediaFileID devuelve el file_id del adjunto (la foto de mayor tamaño) o "".
func (m *Message) MediaFileID() string {
	switch {
	case len(m.Photo) > 0:
		return m.Photo[len(m.Photo)-1].FileID
	case m.Video != nil:
		return m.Video.FileID
	case m.Document != nil:
		return m.Document.FileID
	}
	return ""
}

// User remitente.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// FullName nombre y apellido.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Chat conversación.
type Chat struct {
	ID int64 `json:"id"`
}

// PhotoSize una de las resoluciones de una foto.
type PhotoSize struct {
	FileID string `json:"file_id"`
}

// File referencia a un archivo enviado.
type File struct {
	FileID string `json:"file_id"`
}

// CallbackQuery pulsación de un botón inline.
type CallbackQuery struct {
	ID      string   `json:"id"`
	From    User     `json:"from"`
	Message *Message `json:"message,omitempty"`
	Data    string   `json:"data,omitempty"`
}

// InlineKeyboardButton botón con datos de callback.
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

// InlineKeyboard teclado inline, una fila por slice.
type InlineKeyboard struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// ReplyKeyboard teclado persistente del menú principal.
type ReplyKeyboard struct {
	Keyboard       [][]KeyboardButton `json:"keyboard"`
	ResizeKeyboard bool               `json:"resize_keyboard"`
}

// KeyboardButton botón de texto del teclado persistente.
type KeyboardButton struct {
	Text string `json:"text"`
}

// Markup teclado adjunto a un mensaje (InlineKeyboard o ReplyKeyboard).
type Markup interface {
	markup()
}

func (*InlineKeyboard) markup() {}
func (*ReplyKeyboard) markup()  {}

type apiResponse[T any] struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      T      `json:"result"`
}

type sentDocument struct {
	Document *File `json:"document"`
}
