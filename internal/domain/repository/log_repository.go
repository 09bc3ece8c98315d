package repository

import (
	"context"

	"github.com/jhoicas/partnerhub/internal/domain/entity"
)

// LogRepository puerto de la auditoría (append-only).
type LogRepository interface {
	Create(ctx context.Context, l *entity.Log) error
	ListRecent(ctx context.Context, limit int) ([]*entity.Log, error)
}

// StatsRepository agrega contadores para administración.
type StatsRepository interface {
	Collect(ctx context.Context) (*entity.Statistics, error)
}
