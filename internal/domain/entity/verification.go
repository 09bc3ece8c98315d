package entity

import "time"

// Estados del flujo de verificación (pending → approved | rejected).
const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

// DefaultRejectionReason motivo usado cuando el administrador no indica otro.
const DefaultRejectionReason = "Не прошла проверку администратора"

// Verification registro de moderación 1:1 con Organization.
type Verification struct {
	ID                 string
	OrganizationID     string
	AdminID            *string
	Status             string
	VideoCallCompleted bool
	RejectionReason    string
	CreatedAt          time.Time
	VerifiedAt         *time.Time
}

// IsTerminal indica si la verificación ya tiene una decisión.
func (v *Verification) IsTerminal() bool {
	return v.Status == VerificationApproved || v.Status == VerificationRejected
}

// Approve marca la verificación como aprobada por adminID.
func (v *Verification) Approve(adminID string, at time.Time) {
	v.Status = VerificationApproved
	v.AdminID = &adminID
	v.RejectionReason = ""
	v.VerifiedAt = &at
}

// Reject marca la verificación como rechazada con el motivo indicado.
func (v *Verification) Reject(adminID, reason string) {
	if reason == "" {
		reason = DefaultRejectionReason
	}
	v.Status = VerificationRejected
	v.AdminID = &adminID
	v.RejectionReason = reason
}

// VerificationView vista unida verificación + organización + usuario dueño.
type VerificationView struct {
	Verification Verification
	Organization Organization
	Owner        User
}
