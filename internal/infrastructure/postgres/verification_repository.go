package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/domain/repository"
)

var _ repository.VerificationRepository = (*VerificationRepo)(nil)

const verificationColumns = `v.id, v.organization_id, v.admin_id, v.status, v.video_call_completed,
	v.rejection_reason, v.created_at, v.verified_at`

// VerificationRepo implementación del puerto VerificationRepository sobre PostgreSQL.
type VerificationRepo struct {
	db Querier
}

// NewVerificationRepository construye el adaptador de persistencia para verificaciones.
func NewVerificationRepository(db Querier) *VerificationRepo {
	return &VerificationRepo{db: db}
}

// Create persiste una verificación pendiente.
func (r *VerificationRepo) Create(ctx context.Context, v *entity.Verification) error {
	query := `
		INSERT INTO verifications (id, organization_id, admin_id, status, video_call_completed,
			rejection_reason, created_at, verified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, query,
		v.ID, v.OrganizationID, nullable(v.AdminID), v.Status, v.VideoCallCompleted,
		v.RejectionReason, v.CreatedAt, v.VerifiedAt,
	)
	if err != nil {
		// una sola verificación por organización
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert verification: %w", err)
	}
	return nil
}

// GetByID obtiene una verificación por ID.
func (r *VerificationRepo) GetByID(ctx context.Context, id string) (*entity.Verification, error) {
	if !validID(id) {
		return nil, nil
	}
	v, err := scanVerification(r.db.QueryRow(ctx, `SELECT `+verificationColumns+` FROM verifications v WHERE v.id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get verification: %w", err)
	}
	return v, nil
}

// Update guarda la decisión del administrador.
func (r *VerificationRepo) Update(ctx context.Context, v *entity.Verification) error {
	query := `
		UPDATE verifications
		SET admin_id = $2, status = $3, video_call_completed = $4, rejection_reason = $5, verified_at = $6
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		v.ID, nullable(v.AdminID), v.Status, v.VideoCallCompleted, v.RejectionReason, v.VerifiedAt,
	)
	if err != nil {
		return fmt.Errorf("update verification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const viewQuery = `
	SELECT ` + verificationColumns + `, ` + orgColumns + `,
		u.id, u.telegram_id, u.username, u.full_name, u.role, u.is_blocked, u.created_at
	FROM verifications v
	JOIN organizations o ON o.id = v.organization_id
	JOIN users u ON u.id = o.user_id`

// GetView devuelve verificación, organización y dueño. Bloquea la fila de la verificación
// hasta el fin de la transacción en curso.
func (r *VerificationRepo) GetView(ctx context.Context, id string) (*entity.VerificationView, error) {
	if !validID(id) {
		return nil, nil
	}
	view, err := scanView(r.db.QueryRow(ctx, viewQuery+` WHERE v.id = $1 FOR UPDATE OF v`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get verification view: %w", err)
	}
	return view, nil
}

// ListPendingViews verificaciones pendientes, más antiguas primero.
func (r *VerificationRepo) ListPendingViews(ctx context.Context) ([]*entity.VerificationView, error) {
	rows, err := r.db.Query(ctx, viewQuery+` WHERE v.status = 'pending' ORDER BY v.created_at`)
	if err != nil {
		return nil, fmt.Errorf("list pending verifications: %w", err)
	}
	defer rows.Close()
	var list []*entity.VerificationView
	for rows.Next() {
		view, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan verification view: %w", err)
		}
		list = append(list, view)
	}
	return list, rows.Err()
}

func scanVerification(row rowScanner) (*entity.Verification, error) {
	var v entity.Verification
	if err := row.Scan(&v.ID, &v.OrganizationID, &v.AdminID, &v.Status, &v.VideoCallCompleted,
		&v.RejectionReason, &v.CreatedAt, &v.VerifiedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

func scanView(row rowScanner) (*entity.VerificationView, error) {
	var view entity.VerificationView
	v, o, u := &view.Verification, &view.Organization, &view.Owner
	err := row.Scan(
		&v.ID, &v.OrganizationID, &v.AdminID, &v.Status, &v.VideoCallCompleted,
		&v.RejectionReason, &v.CreatedAt, &v.VerifiedAt,
		&o.ID, &o.UserID, &o.Name, &o.LegalForm, &o.ActivityField, &o.OKVED, &o.INN, &o.Phone, &o.Email,
		&o.Telegram, &o.Description, &o.Turnover, &o.CanGive, &o.Need, &o.InteractionFormat, &o.City,
		&o.PartnershipType, &o.GDPRConsent, &o.VerificationStatus, &o.CreatedAt,
		&u.ID, &u.TelegramID, &u.Username, &u.FullName, &u.Role, &u.IsBlocked, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &view, nil
}
