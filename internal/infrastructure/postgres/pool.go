package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/partnerhub/pkg/config"
	"github.com/jhoicas/partnerhub/pkg/logger"
)

// NewPool abre el pool de PostgreSQL y espera a que la base responda.
// appName se registra como application_name para identificar las conexiones del bot en pg_stat_activity.
func NewPool(ctx context.Context, cfg config.DBConfig, appName string, log *logger.Logger) (*pgxpool.Pool, error) {
	if log == nil {
		log = logger.Nop()
	}
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parse DSN: %w", err)
	}
	if appName != "" {
		poolConfig.ConnConfig.RuntimeParams["application_name"] = appName
	}

	poolConfig.MaxConns = 10
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}
	poolConfig.MinConns = min(2, poolConfig.MaxConns)
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("crear pool: %w", err)
	}
	if err := waitForDB(ctx, pool, max(cfg.ConnectAttempts, 1), log); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// waitForDB hace ping con espera exponencial (1s, 2s, 4s... hasta 16s) durante attempts intentos.
func waitForDB(ctx context.Context, pool *pgxpool.Pool, attempts int, log *logger.Logger) error {
	delay := time.Second
	var err error
	for i := 1; i <= attempts; i++ {
		if err = pool.Ping(ctx); err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		log.Warn().Err(err).Int("attempt", i).Dur("retry_in", delay).Msg("PostgreSQL no disponible")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay = min(delay*2, 16*time.Second)
	}
	return fmt.Errorf("ping DB tras %d intentos: %w", attempts, err)
}
