package repository

import (
	"context"

	"github.com/jhoicas/partnerhub/internal/domain/entity"
)

// MentorRepository puerto de persistencia para Mentor.
type MentorRepository interface {
	Create(ctx context.Context, m *entity.Mentor) error
	GetByUserID(ctx context.Context, userID string) (*entity.Mentor, error)
	ListAvailable(ctx context.Context) ([]*entity.Mentor, error)
}

// ResourceRepository puerto de persistencia para cursos y concursos.
type ResourceRepository interface {
	Create(ctx context.Context, r *entity.Resource) error
	ListActive(ctx context.Context, resourceType string) ([]*entity.Resource, error)
	Deactivate(ctx context.Context, id string) error
}

// NewsRepository puerto de persistencia para noticias.
type NewsRepository interface {
	Create(ctx context.Context, n *entity.News) error
	GetByID(ctx context.Context, id string) (*entity.NewsItem, error)
	ListRecent(ctx context.Context, limit int) ([]*entity.NewsItem, error)
	ListByOrganization(ctx context.Context, orgID string) ([]*entity.NewsItem, error)
	IncrementViews(ctx context.Context, id string) error
}

// ContractRepository puerto de persistencia para contratos.
type ContractRepository interface {
	Create(ctx context.Context, c *entity.Contract) error
	UpdateFileID(ctx context.Context, id, fileID string) error
	// ListByOrganization lista contratos donde orgID es creador o destinatario.
	ListByOrganization(ctx context.Context, orgID string) ([]*entity.ContractItem, error)
}
