package ports

import (
	"context"
	"time"
)

// ContractDocument datos necesarios para la representación gráfica de un contrato.
type ContractDocument struct {
	ContractID    string
	Type          string
	Details       string
	CreatorName   string
	CreatorINN    string
	RecipientName string
	RecipientINN  string
	CreatedAt     time.Time
}

// ContractRenderer genera el PDF de un contrato.
type ContractRenderer interface {
	Render(ctx context.Context, doc ContractDocument) ([]byte, error)
}
