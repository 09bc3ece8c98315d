package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/domain/repository"
)

var _ repository.MentorRepository = (*MentorRepo)(nil)

// MentorRepo perfiles de mentor.
type MentorRepo struct {
	db Querier
}

// NewMentorRepository construye el adaptador de mentores.
func NewMentorRepository(db Querier) *MentorRepo {
	return &MentorRepo{db: db}
}

// Create persiste un mentor.
func (r *MentorRepo) Create(ctx context.Context, m *entity.Mentor) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO mentors (id, user_id, name, expertise, experience, contact_info, is_available, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		m.ID, m.UserID, m.Name, m.Expertise, m.Experience, m.ContactInfo, m.IsAvailable, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert mentor: %w", err)
	}
	return nil
}

// GetByUserID perfil de mentor del usuario.
func (r *MentorRepo) GetByUserID(ctx context.Context, userID string) (*entity.Mentor, error) {
	var m entity.Mentor
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, name, expertise, experience, contact_info, is_available, created_at
		FROM mentors WHERE user_id = $1`, userID).Scan(
		&m.ID, &m.UserID, &m.Name, &m.Expertise, &m.Experience, &m.ContactInfo, &m.IsAvailable, &m.CreatedAt)
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get mentor: %w", err)
	}
	return &m, nil
}

// ListAvailable mentores disponibles por orden de alta.
func (r *MentorRepo) ListAvailable(ctx context.Context) ([]*entity.Mentor, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, name, expertise, experience, contact_info, is_available, created_at
		FROM mentors WHERE is_available ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list mentors: %w", err)
	}
	defer rows.Close()
	var list []*entity.Mentor
	for rows.Next() {
		var m entity.Mentor
		if err := rows.Scan(&m.ID, &m.UserID, &m.Name, &m.Expertise, &m.Experience, &m.ContactInfo, &m.IsAvailable, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan mentor: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
