package dto

// Actor identidad del remitente tal como la entrega el transporte.
type Actor struct {
	TelegramID int64
	Username   string
	FullName   string
}

// OrganizationDraft datos recogidos por el flujo de registro de organización.
type OrganizationDraft struct {
	Name              string
	LegalForm         string
	ActivityField     string
	OKVED             string
	INN               string
	Phone             string
	Email             string
	Telegram          string
	Description       string
	Turnover          string
	CanGive           []string
	Need              []string
	InteractionFormat string
	City              string
	PartnershipType   string
	GDPRConsent       bool
}

// MentorDraft datos del registro de mentor.
type MentorDraft struct {
	Name        string
	Expertise   string
	Experience  string
	ContactInfo string
}

// ResourceDraft curso o concurso creado por un administrador.
type ResourceDraft struct {
	Type     string
	Title    string
	Content  string
	Deadline string
	Link     string
}

// NewsDraft noticia creada por una organización.
type NewsDraft struct {
	Title    string
	Content  string
	MediaIDs []string
}

// ContractDraft contrato con un socio que ya tiene match.
type ContractDraft struct {
	PartnerOrgID string
	Type         string
	Details      string
}
