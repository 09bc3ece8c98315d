package notify

import "github.com/jhoicas/partnerhub/internal/application/ports"

// Prefijos de los datos de acción que el transporte devuelve al pulsar un botón.
const (
	ActionApprove        = "verify:approve:"
	ActionReject         = "verify:reject:"
	ActionApproveMessage = "verify:approve_msg:"
	ActionRejectMessage  = "verify:reject_msg:"
)

// VerificationButtons botones de moderación para una solicitud.
func VerificationButtons(verificationID string) []ports.Button {
	return []ports.Button{
		{Text: "✅ Одобрить", Data: ActionApprove + verificationID},
		{Text: "❌ Отклонить", Data: ActionReject + verificationID},
		{Text: "✍️ Одобрить с сообщением", Data: ActionApproveMessage + verificationID},
		{Text: "✍️ Отклонить с сообщением", Data: ActionRejectMessage + verificationID},
	}
}
