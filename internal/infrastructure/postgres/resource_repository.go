package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/domain/repository"
)

var _ repository.ResourceRepository = (*ResourceRepo)(nil)

// ResourceRepo cursos y concursos.
type ResourceRepo struct {
	db Querier
}

// NewResourceRepository construye el adaptador de recursos.
func NewResourceRepository(db Querier) *ResourceRepo {
	return &ResourceRepo{db: db}
}

// Create persiste un recurso.
func (r *ResourceRepo) Create(ctx context.Context, res *entity.Resource) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO resources (id, type, title, content, deadline, link, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		res.ID, res.Type, res.Title, res.Content, res.Deadline, res.Link, res.IsActive, res.CreatedAt, res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert resource: %w", err)
	}
	return nil
}

// ListActive recursos activos del tipo indicado, más recientes primero.
func (r *ResourceRepo) ListActive(ctx context.Context, resourceType string) ([]*entity.Resource, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, type, title, content, deadline, link, is_active, created_at, updated_at
		FROM resources WHERE type = $1 AND is_active ORDER BY created_at DESC`, resourceType)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()
	var list []*entity.Resource
	for rows.Next() {
		var res entity.Resource
		if err := rows.Scan(&res.ID, &res.Type, &res.Title, &res.Content, &res.Deadline, &res.Link,
			&res.IsActive, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		list = append(list, &res)
	}
	return list, rows.Err()
}

// Deactivate oculta un recurso.
func (r *ResourceRepo) Deactivate(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.db.Exec(ctx, `UPDATE resources SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate resource: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
