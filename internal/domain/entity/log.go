package entity

import "time"

// Acciones registradas en la auditoría.
const (
	ActionRegistration        = "registration"
	ActionVerificationApprove = "verification_approve"
	ActionVerificationReject  = "verification_reject"
	ActionLike                = "like"
	ActionMatch               = "match"
	ActionCreateContract      = "create_contract"
	ActionCreateNews          = "create_news"
	ActionAddResource         = "add_resource"
	ActionResourceQuestion    = "resource_center_question"
	ActionAddAdmin            = "add_admin"
	ActionRemoveAdmin         = "remove_admin"
)

// Log entrada de auditoría append-only.
type Log struct {
	ID        string
	UserID    *string
	Action    string
	Details   map[string]any
	CreatedAt time.Time
}

// Statistics contadores agregados para el panel de administración.
type Statistics struct {
	TotalUsers   int
	TotalOrgs    int
	VerifiedOrgs int
	PendingOrgs  int
	TotalMatches int
}
