package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/partnerhub/internal/application/dto"
	"github.com/jhoicas/partnerhub/internal/application/usecase"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
)

// AdminHandler estadísticas, auditoría y administradores (protegido).
type AdminHandler struct {
	uc *usecase.AdminUseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(uc *usecase.AdminUseCase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// Stats godoc
// @Summary      Estadísticas de la plataforma
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StatsResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/stats [get]
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext(), GetTelegramID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Logs godoc
// @Summary      Últimas entradas de auditoría
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Límite"  default(20)
// @Success      200    {array}   dto.LogResponse
// @Router       /api/logs [get]
func (h *AdminHandler) Logs(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badRequest(c, "INVALID_QUERY", "parámetro limit inválido")
	}
	page.DefaultPage(usecase.RecentLogsLimit)
	logs, err := h.uc.RecentLogs(c.UserContext(), GetTelegramID(c), page.Limit)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.LogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, dto.LogResponse{ID: l.ID, UserID: l.UserID, Action: l.Action, Details: l.Details, CreatedAt: l.CreatedAt})
	}
	return c.JSON(out)
}

// ListAdmins godoc
// @Summary      Listar administradores
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.UserResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admins [get]
func (h *AdminHandler) ListAdmins(c *fiber.Ctx) error {
	users, err := h.uc.ListAdmins(c.UserContext(), GetTelegramID(c))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return c.JSON(out)
}

// AddAdmin godoc
// @Summary      Dar rol de administrador
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AddAdminRequest  true  "telegram_id del usuario"
// @Success      201   {object}  dto.UserResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/admins [post]
func (h *AdminHandler) AddAdmin(c *fiber.Ctx) error {
	var in dto.AddAdminRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if in.TelegramID <= 0 {
		return badRequest(c, "VALIDATION", "telegram_id es requerido")
	}
	u, err := h.uc.AddAdmin(c.UserContext(), GetTelegramID(c), in.TelegramID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toUserResponse(u))
}

// RemoveAdmin godoc
// @Summary      Quitar rol de administrador
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        telegram_id  path  int  true  "Telegram ID del administrador"
// @Success      200  {object}  dto.UserResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admins/{telegram_id} [delete]
func (h *AdminHandler) RemoveAdmin(c *fiber.Ctx) error {
	target, err := strconv.ParseInt(c.Params("telegram_id"), 10, 64)
	if err != nil || target <= 0 {
		return badRequest(c, "VALIDATION", "telegram_id inválido")
	}
	u, err := h.uc.RemoveAdmin(c.UserContext(), GetTelegramID(c), target)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toUserResponse(u))
}

func toUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         u.ID,
		TelegramID: u.TelegramID,
		Username:   u.Username,
		FullName:   u.FullName,
		Role:       u.Role,
		CreatedAt:  u.CreatedAt,
	}
}
