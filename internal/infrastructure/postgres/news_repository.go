package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/domain/repository"
)

var _ repository.NewsRepository = (*NewsRepo)(nil)

const newsQuery = `
	SELECT n.id, n.organization_id, n.title, n.content, n.media_ids, n.views_count, n.created_at, o.name
	FROM news n JOIN organizations o ON o.id = n.organization_id`

// NewsRepo noticias de organizaciones.
type NewsRepo struct {
	db Querier
}

// NewNewsRepository construye el adaptador de noticias.
func NewNewsRepository(db Querier) *NewsRepo {
	return &NewsRepo{db: db}
}

// Create persiste una noticia.
func (r *NewsRepo) Create(ctx context.Context, n *entity.News) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO news (id, organization_id, title, content, media_ids, views_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		n.ID, n.OrganizationID, n.Title, n.Content, emptyIfNil(n.MediaIDs), n.ViewsCount, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert news: %w", err)
	}
	return nil
}

// GetByID noticia con el nombre de su organización.
func (r *NewsRepo) GetByID(ctx context.Context, id string) (*entity.NewsItem, error) {
	if !validID(id) {
		return nil, nil
	}
	item, err := scanNews(r.db.QueryRow(ctx, newsQuery+` WHERE n.id = $1`, id))
	if err != nil {
		if noRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get news: %w", err)
	}
	return item, nil
}

// ListRecent últimas noticias.
func (r *NewsRepo) ListRecent(ctx context.Context, limit int) ([]*entity.NewsItem, error) {
	return r.list(ctx, newsQuery+` ORDER BY n.created_at DESC LIMIT $1`, limit)
}

// ListByOrganization noticias de una organización.
func (r *NewsRepo) ListByOrganization(ctx context.Context, orgID string) ([]*entity.NewsItem, error) {
	return r.list(ctx, newsQuery+` WHERE n.organization_id = $1 ORDER BY n.created_at DESC`, orgID)
}

// IncrementViews suma una vista.
func (r *NewsRepo) IncrementViews(ctx context.Context, id string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.db.Exec(ctx, `UPDATE news SET views_count = views_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *NewsRepo) list(ctx context.Context, query string, arg any) ([]*entity.NewsItem, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	defer rows.Close()
	var list []*entity.NewsItem
	for rows.Next() {
		item, err := scanNews(rows)
		if err != nil {
			return nil, fmt.Errorf("scan news: %w", err)
		}
		list = append(list, item)
	}
	return list, rows.Err()
}

func scanNews(row rowScanner) (*entity.NewsItem, error) {
	var it entity.NewsItem
	if err := row.Scan(&it.ID, &it.OrganizationID, &it.Title, &it.Content, &it.MediaIDs,
		&it.ViewsCount, &it.CreatedAt, &it.OrganizationName); err != nil {
		return nil, err
	}
	return &it, nil
}
