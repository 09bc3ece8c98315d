// Package telegram cliente mínimo de la Bot API sobre net/http: envío de mensajes,
// teclados, documentos y recepción por long polling.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jhoicas/partnerhub/pkg/logger"
)

const defaultBaseURL = "https://api.telegram.org"

// Client cliente de la Bot API.
type Client struct {
	token   string
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// NewClient crea el cliente. El timeout cubre el long polling de 30 s.
func NewClient(token string, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		token:   token,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 35 * time.Second},
		log:     log,
	}
}

// WithBaseURL cambia el endpoint de la API (servidores locales de la Bot API y tests).
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

func (c *Client) endpoint(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
}

// SendMessage envía text en HTML con un teclado opcional y devuelve el message_id.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, kb Markup) (int64, error) {
	form := url.Values{
		"chat_id":                  {strconv.FormatInt(chatID, 10)},
		"text":                     {text},
		"parse_mode":               {"HTML"},
		"disable_web_page_preview": {"true"},
	}
	if err := setMarkup(form, kb); err != nil {
		return 0, err
	}
	var msg Message
	if err := c.postForm(ctx, "sendMessage", form, &msg); err != nil {
		return 0, err
	}
	return msg.MessageID, nil
}

// EditMessage reemplaza el texto y el teclado inline de un mensaje enviado por el bot.
func (c *Client) EditMessage(ctx context.Context, chatID, messageID int64, text string, kb *InlineKeyboard) error {
	form := url.Values{
		"chat_id":    {strconv.FormatInt(chatID, 10)},
		"message_id": {strconv.FormatInt(messageID, 10)},
		"text":       {text},
		"parse_mode": {"HTML"},
	}
	if kb != nil {
		if err := setMarkup(form, kb); err != nil {
			return err
		}
	}
	var ignored json.RawMessage
	return c.postForm(ctx, "editMessageText", form, &ignored)
}

// AnswerCallback confirma una pulsación; text se muestra como aviso (alert = ventana modal).
func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string, alert bool) error {
	form := url.Values{"callback_query_id": {callbackID}}
	if text != "" {
		form.Set("text", text)
	}
	if alert {
		form.Set("show_alert", "true")
	}
	var ignored bool
	return c.postForm(ctx, "answerCallbackQuery", form, &ignored)
}

// SendDocument sube data como archivo y devuelve el file_id asignado por Telegram.
func (c *Client) SendDocument(ctx context.Context, chatID int64, filename string, data []byte, caption string) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	_ = w.WriteField("chat_id", strconv.FormatInt(chatID, 10))
	if caption != "" {
		_ = w.WriteField("caption", caption)
		_ = w.WriteField("parse_mode", "HTML")
	}
	part, err := w.CreateFormFile("document", filename)
	if err != nil {
		return "", fmt.Errorf("telegram: preparar documento: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("telegram: escribir documento: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("telegram: cerrar multipart: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("sendDocument"), &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	var sent sentDocument
	if err := c.do(req, "sendDocument", &sent); err != nil {
		return "", err
	}
	if sent.Document == nil {
		return "", fmt.Errorf("telegram: sendDocument sin documento en la respuesta")
	}
	return sent.Document.FileID, nil
}

// GetUpdates long polling desde offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout int) ([]Update, error) {
	q := url.Values{
		"offset":          {strconv.FormatInt(offset, 10)},
		"timeout":         {strconv.Itoa(timeout)},
		"allowed_updates": {`["message","callback_query"]`},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("getUpdates")+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var updates []Update
	if err := c.do(req, "getUpdates", &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// DeleteWebhook desactiva el webhook para poder usar long polling.
func (c *Client) DeleteWebhook(ctx context.Context) error {
	var ignored bool
	return c.postForm(ctx, "deleteWebhook", url.Values{}, &ignored)
}

// SetWebhook registra la URL pública y el secreto que Telegram enviará en cada petición.
func (c *Client) SetWebhook(ctx context.Context, webhookURL, secret string) error {
	form := url.Values{
		"url":             {webhookURL},
		"secret_token":    {secret},
		"allowed_updates": {`["message","callback_query"]`},
	}
	var ignored bool
	return c.postForm(ctx, "setWebhook", form, &ignored)
}

// Poll bloquea hasta que ctx termina, entregando cada actualización a handle en orden.
func (c *Client) Poll(ctx context.Context, handle func(context.Context, Update)) {
	if err := c.DeleteWebhook(ctx); err != nil {
		c.log.Warn().Err(err).Msg("telegram: deleteWebhook")
	}
	offset := int64(0)
	for {
		if ctx.Err() != nil {
			return
		}
		updates, err := c.GetUpdates(ctx, offset, 30)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Warn().Err(err).Msg("telegram: poll")
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}
		for _, u := range updates {
			offset = u.UpdateID + 1
			handle(ctx, u)
		}
	}
}

func (c *Client) postForm(ctx context.Context, method string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(method), bytes.NewBufferString(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, method, out)
}

func (c *Client) do(req *http.Request, method string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("telegram %s: leer respuesta: %w", method, err)
	}
	var result apiResponse[json.RawMessage]
	if err := json.Unmarshal(raw, &result); err != nil {
		return fmt.Errorf("telegram %s: respuesta inválida (HTTP %d): %w", method, resp.StatusCode, err)
	}
	if !result.OK {
		return fmt.Errorf("telegram %s: %s", method, result.Description)
	}
	if out == nil || len(result.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(result.Result, out); err != nil {
		return fmt.Errorf("telegram %s: decodificar resultado: %w", method, err)
	}
	return nil
}

func setMarkup(form url.Values, kb Markup) error {
	if kb == nil {
		return nil
	}
	raw, err := json.Marshal(kb)
	if err != nil {
		return fmt.Errorf("telegram: serializar teclado: %w", err)
	}
	if string(raw) == "null" {
		return nil
	}
	form.Set("reply_markup", string(raw))
	return nil
}
