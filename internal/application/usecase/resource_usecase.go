package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/partnerhub/internal/application/auth"
	"github.com/jhoicas/partnerhub/internal/application/dto"
	"github.com/jhoicas/partnerhub/internal/application/ports"
	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/domain/repository"
)

// ResourceUseCase cursos y concursos publicados por administradores.
type ResourceUseCase struct {
	tx        ports.TxRunner
	resources repository.ResourceRepository
	guard     *auth.Guard
	now       func() time.Time
}

// NewResourceUseCase construye el caso de uso de recursos.
func NewResourceUseCase(tx ports.TxRunner, resources repository.ResourceRepository, guard *auth.Guard) *ResourceUseCase {
	return &ResourceUseCase{tx: tx, resources: resources, guard: guard, now: time.Now}
}

// Create publica un recurso. Requiere la capacidad manage_resources.
func (uc *ResourceUseCase) Create(ctx context.Context, actorTelegramID int64, in dto.ResourceDraft) (*entity.Resource, error) {
	admin, err := uc.guard.Require(ctx, actorTelegramID, auth.CapManageResources)
	if err != nil {
		return nil, err
	}
	if in.Type != entity.ResourceCourse && in.Type != entity.ResourceCompetition {
		return nil, fmt.Errorf("%w: tipo de recurso %q", domain.ErrInvalidInput, in.Type)
	}
	now := uc.now()
	res := &entity.Resource{
		ID:        uuid.New().String(),
		Type:      in.Type,
		Title:     in.Title,
		Content:   in.Content,
		Deadline:  in.Deadline,
		Link:      in.Link,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = uc.tx.Run(ctx, func(repos ports.Repositories) error {
		if err := repos.Resources.Create(ctx, res); err != nil {
			return fmt.Errorf("crear recurso: %w", err)
		}
		return repos.Logs.Create(ctx, &entity.Log{
			ID:        uuid.New().String(),
			UserID:    &admin.ID,
			Action:    entity.ActionAddResource,
			Details:   map[string]any{"type": res.Type, "title": res.Title},
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ListCourses cursos activos.
func (uc *ResourceUseCase) ListCourses(ctx context.Context) ([]*entity.Resource, error) {
	return uc.resources.ListActive(ctx, entity.ResourceCourse)
}

// ListCompetitions concursos activos.
func (uc *ResourceUseCase) ListCompetitions(ctx context.Context) ([]*entity.Resource, error) {
	return uc.resources.ListActive(ctx, entity.ResourceCompetition)
}

// Deactivate retira un recurso (borrado lógico).
func (uc *ResourceUseCase) Deactivate(ctx context.Context, actorTelegramID int64, id string) error {
	if _, err := uc.guard.Require(ctx, actorTelegramID, auth.CapManageResources); err != nil {
		return err
	}
	return uc.resources.Deactivate(ctx, id)
}
