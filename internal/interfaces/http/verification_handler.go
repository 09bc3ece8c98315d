package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/partnerhub/internal/application/dto"
	"github.com/jhoicas/partnerhub/internal/application/verification"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
)

// VerificationHandler moderación de organizaciones desde la API (protegido).
type VerificationHandler struct {
	uc *verification.UseCase
}

// NewVerificationHandler construye el handler.
func NewVerificationHandler(uc *verification.UseCase) *VerificationHandler {
	return &VerificationHandler{uc: uc}
}

// ListPending godoc
// @Summary      Listar solicitudes pendientes
// @Tags         verifications
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.VerificationResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/verifications/pending [get]
func (h *VerificationHandler) ListPending(c *fiber.Ctx) error {
	views, err := h.uc.ListPending(c.UserContext(), GetTelegramID(c))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.VerificationResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toVerificationResponse(v))
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar organización
// @Tags         verifications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true   "ID de la verificación"
// @Param        body  body  dto.DecisionRequest  false  "custom_message opcional"
// @Success      200   {object}  dto.VerificationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/verifications/{id}/approve [post]
func (h *VerificationHandler) Approve(c *fiber.Ctx) error {
	in, err := decisionBody(c)
	if err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	view, err := h.uc.Approve(c.UserContext(), GetTelegramID(c), c.Params("id"), in.CustomMessage)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toVerificationResponse(view))
}

// Reject godoc
// @Summary      Rechazar organización
// @Tags         verifications
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true   "ID de la verificación"
// @Param        body  body  dto.DecisionRequest  false  "reason y custom_message opcionales"
// @Success      200   {object}  dto.VerificationResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/verifications/{id}/reject [post]
func (h *VerificationHandler) Reject(c *fiber.Ctx) error {
	in, err := decisionBody(c)
	if err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	view, err := h.uc.Reject(c.UserContext(), GetTelegramID(c), c.Params("id"), in.Reason, in.CustomMessage)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toVerificationResponse(view))
}

// decisionBody acepta un cuerpo vacío.
func decisionBody(c *fiber.Ctx) (dto.DecisionRequest, error) {
	var in dto.DecisionRequest
	if len(c.Body()) == 0 {
		return in, nil
	}
	err := c.BodyParser(&in)
	return in, err
}

func toVerificationResponse(v *entity.VerificationView) dto.VerificationResponse {
	return dto.VerificationResponse{
		ID:                 v.Verification.ID,
		Status:             v.Verification.Status,
		RejectionReason:    v.Verification.RejectionReason,
		CreatedAt:          v.Verification.CreatedAt,
		VerifiedAt:         v.Verification.VerifiedAt,
		OrganizationID:     v.Organization.ID,
		OrganizationName:   v.Organization.Name,
		INN:                v.Organization.INN,
		LegalForm:          v.Organization.LegalForm,
		Turnover:           v.Organization.Turnover,
		OwnerTelegramID:    v.Owner.TelegramID,
		VerificationStatus: v.Organization.VerificationStatus,
	}
}
