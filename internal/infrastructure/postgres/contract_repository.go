package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/domain/repository"
)

var _ repository.ContractRepository = (*ContractRepo)(nil)

// ContractRepo contratos entre organizaciones con match.
type ContractRepo struct {
	db Querier
}

// NewContractRepository construye el adaptador de contratos.
func NewContractRepository(db Querier) *ContractRepo {
	return &ContractRepo{db: db}
}

// Create persiste un contrato.
func (r *ContractRepo) Create(ctx context.Context, c *entity.Contract) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO contracts (id, creator_org_id, recipient_org_id, type, details, created_by, file_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.CreatorOrgID, c.RecipientOrgID, c.Type, c.Details, c.CreatedBy, c.FileID, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert contract: %w", err)
	}
	return nil
}

// UpdateFileID guarda la referencia del documento enviado.
func (r *ContractRepo) UpdateFileID(ctx context.Context, id, fileID string) error {
	tag, err := r.db.Exec(ctx, `UPDATE contracts SET file_id = $2 WHERE id = $1`, id, fileID)
	if err != nil {
		return fmt.Errorf("update contract file: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByOrganization contratos de orgID (como creador o destinatario) con el nombre de la contraparte.
func (r *ContractRepo) ListByOrganization(ctx context.Context, orgID string) ([]*entity.ContractItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.creator_org_id, c.recipient_org_id, c.type, c.details, c.created_by, c.file_id, c.created_at,
			o.name
		FROM contracts c
		JOIN organizations o
		  ON o.id = CASE WHEN c.creator_org_id = $1 THEN c.recipient_org_id ELSE c.creator_org_id END
		WHERE c.creator_org_id = $1 OR c.recipient_org_id = $1
		ORDER BY c.created_at DESC`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	defer rows.Close()
	var list []*entity.ContractItem
	for rows.Next() {
		var it entity.ContractItem
		if err := rows.Scan(&it.ID, &it.CreatorOrgID, &it.RecipientOrgID, &it.Type, &it.Details,
			&it.CreatedBy, &it.FileID, &it.CreatedAt, &it.CounterpartyName); err != nil {
			return nil, fmt.Errorf("scan contract: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
