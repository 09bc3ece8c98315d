package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/partnerhub/internal/application/dto"
	"github.com/jhoicas/partnerhub/internal/application/ports"
	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/domain/repository"
)

// NewsFeedLimit número de noticias del listado general.
const NewsFeedLimit = 10

// NewsUseCase noticias publicadas por organizaciones verificadas.
type NewsUseCase struct {
	tx    ports.TxRunner
	users repository.UserRepository
	orgs  repository.OrganizationRepository
	news  repository.NewsRepository
	now   func() time.Time
}

// NewNewsUseCase construye el caso de uso de noticias.
func NewNewsUseCase(tx ports.TxRunner, users repository.UserRepository, orgs repository.OrganizationRepository, news repository.NewsRepository) *NewsUseCase {
	return &NewsUseCase{tx: tx, users: users, orgs: orgs, news: news, now: time.Now}
}

// Author devuelve la organización verificada del actor, requisito para publicar.
func (uc *NewsUseCase) Author(ctx context.Context, telegramID int64) (*entity.Organization, error) {
	org, err := organizationOf(ctx, uc.users, uc.orgs, telegramID)
	if err != nil {
		return nil, err
	}
	if !org.IsVerified() {
		return nil, domain.ErrNotVerified
	}
	return org, nil
}

// Create publica una noticia de la organización del actor.
func (uc *NewsUseCase) Create(ctx context.Context, telegramID int64, in dto.NewsDraft) (*entity.News, error) {
	org, err := uc.Author(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	n := &entity.News{
		ID:             uuid.New().String(),
		OrganizationID: org.ID,
		Title:          in.Title,
		Content:        in.Content,
		MediaIDs:       in.MediaIDs,
		CreatedAt:      now,
	}
	err = uc.tx.Run(ctx, func(repos ports.Repositories) error {
		if err := repos.News.Create(ctx, n); err != nil {
			return fmt.Errorf("crear noticia: %w", err)
		}
		return repos.Logs.Create(ctx, &entity.Log{
			ID:        uuid.New().String(),
			UserID:    &org.UserID,
			Action:    entity.ActionCreateNews,
			Details:   map[string]any{"news_id": n.ID, "title": n.Title},
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ListRecent últimas noticias de todas las organizaciones.
func (uc *NewsUseCase) ListRecent(ctx context.Context) ([]*entity.NewsItem, error) {
	return uc.news.ListRecent(ctx, NewsFeedLimit)
}

// ListMine noticias de la organización del actor.
func (uc *NewsUseCase) ListMine(ctx context.Context, telegramID int64) ([]*entity.NewsItem, error) {
	org, err := organizationOf(ctx, uc.users, uc.orgs, telegramID)
	if err != nil {
		return nil, err
	}
	return uc.news.ListByOrganization(ctx, org.ID)
}

// View devuelve la noticia e incrementa su contador de vistas.
func (uc *NewsUseCase) View(ctx context.Context, id string) (*entity.NewsItem, error) {
	if err := uc.news.IncrementViews(ctx, id); err != nil {
		return nil, fmt.Errorf("contar vista: %w", err)
	}
	item, err := uc.news.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// organizationOf resuelve la organización de un actor; domain.ErrNotFound si no tiene.
func organizationOf(ctx context.Context, users repository.UserRepository, orgs repository.OrganizationRepository, telegramID int64) (*entity.Organization, error) {
	u, err := users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("obtener usuario: %w", err)
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	org, err := orgs.GetByUserID(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("obtener organización: %w", err)
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return org, nil
}
