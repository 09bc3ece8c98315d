package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/domain/repository"
)

var _ repository.OrganizationRepository = (*OrganizationRepo)(nil)

const orgColumns = `o.id, o.user_id, o.name, o.legal_form, o.activity_field, o.okved, o.inn, o.phone, o.email,
	o.telegram, o.description, o.turnover, o.can_give, o.need, o.interaction_format, o.city,
	o.partnership_type, o.gdpr_consent, o.verification_status, o.created_at`

// OrganizationRepo implementación del puerto OrganizationRepository sobre PostgreSQL.
type OrganizationRepo struct {
	db Querier
}

// NewOrganizationRepository construye el adaptador de persistencia para organizaciones.
func NewOrganizationRepository(db Querier) *OrganizationRepo {
	return &OrganizationRepo{db: db}
}

// Create persiste una organización. ИНН y usuario son únicos.
func (r *OrganizationRepo) Create(ctx context.Context, o *entity.Organization) error {
	query := `
		INSERT INTO organizations (id, user_id, name, legal_form, activity_field, okved, inn, phone, email,
			telegram, description, turnover, can_give, need, interaction_format, city, partnership_type,
			gdpr_consent, verification_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.db.Exec(ctx, query,
		o.ID, o.UserID, o.Name, o.LegalForm, o.ActivityField, o.OKVED, o.INN, o.Phone, o.Email,
		o.Telegram, o.Description, o.Turnover, emptyIfNil(o.CanGive), emptyIfNil(o.Need),
		o.InteractionFormat, o.City, o.PartnershipType, o.GDPRConsent, o.VerificationStatus, o.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

// GetByID obtiene una organización por ID.
func (r *OrganizationRepo) GetByID(ctx context.Context, id string) (*entity.Organization, error) {
	if !validID(id) {
		return nil, nil
	}
	return r.findOne(ctx, `SELECT `+orgColumns+` FROM organizations o WHERE o.id = $1`, id)
}

// GetByUserID obtiene la organización de un usuario.
func (r *OrganizationRepo) GetByUserID(ctx context.Context, userID string) (*entity.Organization, error) {
	return r.findOne(ctx, `SELECT `+orgColumns+` FROM organizations o WHERE o.user_id = $1`, userID)
}

// GetByINN obtiene una organización por ИНН.
func (r *OrganizationRepo) GetByINN(ctx context.Context, inn string) (*entity.Organization, error) {
	return r.findOne(ctx, `SELECT `+orgColumns+` FROM organizations o WHERE o.inn = $1`, inn)
}

// UpdateVerificationStatus cambia el estado de verificación.
func (r *OrganizationRepo) UpdateVerificationStatus(ctx context.Context, id, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE organizations SET verification_status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update organization status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListCandidates organizaciones verificadas con la misma facturación, excluyendo orgID y
// las que ya recibieron un like suyo. Orden de inserción.
func (r *OrganizationRepo) ListCandidates(ctx context.Context, orgID, turnover string) ([]*entity.Organization, error) {
	query := `
		SELECT ` + orgColumns + `
		FROM organizations o
		WHERE o.verification_status = 'verified'
		  AND o.turnover = $2
		  AND o.id <> $1
		  AND NOT EXISTS (SELECT 1 FROM likes l WHERE l.from_org_id = $1 AND l.to_org_id = o.id)
		ORDER BY o.seq`
	rows, err := r.db.Query(ctx, query, orgID, turnover)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()
	var list []*entity.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func (r *OrganizationRepo) findOne(ctx context.Context, query string, arg any) (*entity.Organization, error) {
	o, err := scanOrganization(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return o, nil
}

func scanOrganization(row rowScanner, extra ...any) (*entity.Organization, error) {
	var o entity.Organization
	dest := []any{
		&o.ID, &o.UserID, &o.Name, &o.LegalForm, &o.ActivityField, &o.OKVED, &o.INN, &o.Phone, &o.Email,
		&o.Telegram, &o.Description, &o.Turnover, &o.CanGive, &o.Need, &o.InteractionFormat, &o.City,
		&o.PartnershipType, &o.GDPRConsent, &o.VerificationStatus, &o.CreatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &o, nil
}
