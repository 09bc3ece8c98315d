package entity

import "time"

// Tipos de contrato.
const (
	ContractPartnership = "partnership"
	ContractCooperation = "cooperation"
	ContractServices    = "services"
)

// Contract registro de un acuerdo entre dos organizaciones (solo registro, sin ejecución).
type Contract struct {
	ID             string
	CreatorOrgID   string
	RecipientOrgID string
	Type           string
	Details        string
	CreatedBy      string // user id del creador
	FileID         string // referencia del documento adjunto en Telegram
	CreatedAt      time.Time
}

// ContractItem contrato con el nombre de la contraparte (listado "Documentos").
type ContractItem struct {
	Contract
	CounterpartyName string
}
