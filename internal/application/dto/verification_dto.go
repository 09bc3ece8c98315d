package dto

import "time"

// VerificationResponse solicitud de verificación con los datos de la organización.
type VerificationResponse struct {
	ID                 string     `json:"id"`
	Status             string     `json:"status"`
	RejectionReason    string     `json:"rejection_reason,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	VerifiedAt         *time.Time `json:"verified_at,omitempty"`
	OrganizationID     string     `json:"organization_id"`
	OrganizationName   string     `json:"organization_name"`
	INN                string     `json:"inn"`
	LegalForm          string     `json:"legal_form"`
	Turnover           string     `json:"turnover"`
	OwnerTelegramID    int64      `json:"owner_telegram_id"`
	VerificationStatus string     `json:"verification_status"`
}

// DecisionRequest cuerpo para aprobar / rechazar.
type DecisionRequest struct {
	Reason        string `json:"reason"`
	CustomMessage string `json:"custom_message"`
}
