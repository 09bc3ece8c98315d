package http

import (
	"context"
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/partnerhub/internal/application/dto"
	"github.com/jhoicas/partnerhub/internal/infrastructure/telegram"
)

// SecretHeader cabecera con la que Telegram firma cada entrega del webhook.
const SecretHeader = "X-Telegram-Bot-Api-Secret-Token"

// UpdateHandler procesa un update del bot. Lo implementa *bot.Dispatcher.
type UpdateHandler interface {
	Handle(ctx context.Context, u telegram.Update)
}

// WebhookHandler recibe los updates de Telegram en modo webhook.
type WebhookHandler struct {
	handler UpdateHandler
	secret  string
}

// NewWebhookHandler construye el handler. secret vacío desactiva la comprobación de cabecera.
func NewWebhookHandler(handler UpdateHandler, secret string) *WebhookHandler {
	return &WebhookHandler{handler: handler, secret: secret}
}

// Receive godoc
// @Summary      Webhook de Telegram
// @Tags         telegram
// @Accept       json
// @Param        X-Telegram-Bot-Api-Secret-Token  header  string  true  "secreto del webhook"
// @Success      200
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /telegram/webhook [post]
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	if h.secret != "" && subtle.ConstantTimeCompare([]byte(c.Get(SecretHeader)), []byte(h.secret)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_SECRET", Message: "secreto del webhook inválido"})
	}
	var u telegram.Update
	if err := c.BodyParser(&u); err != nil {
		return badRequest(c, "INVALID_BODY", "update inválido")
	}
	h.handler.Handle(c.UserContext(), u)
	return c.SendStatus(fiber.StatusOK)
}
