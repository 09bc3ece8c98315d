package entity

import "time"

// Estados de verificación de una organización.
const (
	OrgStatusPending  = "pending"
	OrgStatusVerified = "verified"
	OrgStatusRejected = "rejected"
)

// Organization representa la empresa que busca socios; pertenece a un único User.
type Organization struct {
	ID                 string
	UserID             string
	Name               string
	LegalForm          string
	ActivityField      string // solo para autónomos (Самозанятость)
	OKVED              string // resto de formas jurídicas
	INN                string // único e inmutable
	Phone              string
	Email              string
	Telegram           string
	Description        string
	Turnover           string
	CanGive            []string
	Need               []string
	InteractionFormat  string
	City               string
	PartnershipType    string
	GDPRConsent        bool
	VerificationStatus string // pending, verified, rejected
	CreatedAt          time.Time
}

// IsVerified indica si la organización superó la moderación.
func (o *Organization) IsVerified() bool {
	return o != nil && o.VerificationStatus == OrgStatusVerified
}

// Contacts devuelve el triple de contacto que se comparte al producirse un match.
func (o *Organization) Contacts() Contacts {
	return Contacts{Phone: o.Phone, Email: o.Email, Telegram: o.Telegram}
}

// Contacts datos de contacto de una organización.
type Contacts struct {
	Phone    string
	Email    string
	Telegram string
}
