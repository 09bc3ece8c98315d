// Package matching produce el feed de candidatos y convierte el interés mutuo en un Match.
package matching

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/partnerhub/internal/application/notify"
	"github.com/jhoicas/partnerhub/internal/application/ports"
	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/domain/repository"
	"github.com/jhoicas/partnerhub/pkg/logger"
)

// LikeResult resultado de registrar interés.
type LikeResult struct {
	Target *entity.Organization
	Mutual bool
	// Match es el match creado por este like; nil si no hubo reciprocidad o si el par ya tenía match.
	Match *entity.Match
}

// Partner organización con la que existe un match activo.
type Partner struct {
	Match        *entity.Match
	Organization *entity.Organization
}

// UseCase motor de matching.
type UseCase struct {
	tx       ports.TxRunner
	users    repository.UserRepository
	orgs     repository.OrganizationRepository
	matches  repository.MatchRepository
	notifier *notify.Dispatcher
	log      *logger.Logger
	now      func() time.Time

	mu sync.Mutex
	// skipped candidatos descartados en la pasada actual del feed, por organización.
	// No se persiste: un candidato descartado vuelve a aparecer al reiniciar el feed.
	skipped map[string]map[string]struct{}
}

// NewUseCase construye el motor de matching.
func NewUseCase(
	tx ports.TxRunner,
	users repository.UserRepository,
	orgs repository.OrganizationRepository,
	matches repository.MatchRepository,
	notifier *notify.Dispatcher,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		tx:       tx,
		users:    users,
		orgs:     orgs,
		matches:  matches,
		notifier: notifier,
		log:      log,
		now:      time.Now,
		skipped:  make(map[string]map[string]struct{}),
	}
}

// Requester devuelve la organización del actor; debe existir y estar verificada.
func (uc *UseCase) Requester(ctx context.Context, telegramID int64) (*entity.Organization, error) {
	user, err := uc.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("matching: obtener usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	org, err := uc.orgs.GetByUserID(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("matching: obtener organización: %w", err)
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	if !org.IsVerified() {
		return org, domain.ErrNotVerified
	}
	return org, nil
}

// Candidates devuelve el feed de la organización del actor, sin los descartados en esta pasada.
func (uc *UseCase) Candidates(ctx context.Context, telegramID int64) ([]*entity.Organization, error) {
	org, err := uc.Requester(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	return uc.candidatesFor(ctx, org)
}

func (uc *UseCase) candidatesFor(ctx context.Context, org *entity.Organization) ([]*entity.Organization, error) {
	list, err := uc.orgs.ListCandidates(ctx, org.ID, org.Turnover)
	if err != nil {
		return nil, fmt.Errorf("matching: listar candidatos: %w", err)
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	skip := uc.skipped[org.ID]
	out := make([]*entity.Organization, 0, len(list))
	for _, c := range list {
		if c.ID == org.ID {
			continue
		}
		if _, s := skip[c.ID]; s {
			continue
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		// pasada agotada: el siguiente pedido empieza una nueva
		delete(uc.skipped, org.ID)
	}
	return out, nil
}

// StartFeed reinicia la pasada del feed y devuelve el primer candidato (nil si no hay).
func (uc *UseCase) StartFeed(ctx context.Context, telegramID int64) (*entity.Organization, error) {
	org, err := uc.Requester(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	uc.mu.Lock()
	delete(uc.skipped, org.ID)
	uc.mu.Unlock()
	return uc.first(ctx, org)
}

// Next devuelve el primer candidato no visto de la pasada actual (nil si no hay).
func (uc *UseCase) Next(ctx context.Context, telegramID int64) (*entity.Organization, error) {
	org, err := uc.Requester(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	return uc.first(ctx, org)
}

func (uc *UseCase) first(ctx context.Context, org *entity.Organization) (*entity.Organization, error) {
	list, err := uc.candidatesFor(ctx, org)
	if err != nil || len(list) == 0 {
		return nil, err
	}
	return list[0], nil
}

// Skip descarta targetOrgID durante la pasada actual y devuelve el siguiente candidato.
// No crea ningún registro persistente.
func (uc *UseCase) Skip(ctx context.Context, telegramID int64, targetOrgID string) (*entity.Organization, error) {
	org, err := uc.Requester(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	uc.mu.Lock()
	set, ok := uc.skipped[org.ID]
	if !ok {
		set = make(map[string]struct{})
		uc.skipped[org.ID] = set
	}
	set[targetOrgID] = struct{}{}
	uc.mu.Unlock()
	return uc.first(ctx, org)
}

// Like registra el interés de la organización del actor por targetOrgID.
// Si existe la arista inversa se crea el match (una sola vez por par) y se avisa a ambas partes
// con los contactos de la otra; si no, solo se avisa al actor.
func (uc *UseCase) Like(ctx context.Context, telegramID int64, targetOrgID string) (*LikeResult, error) {
	me, err := uc.Requester(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	if targetOrgID == me.ID {
		return nil, fmt.Errorf("%w: no se puede dar like a la propia organización", domain.ErrInvalidInput)
	}

	result := &LikeResult{}
	var targetOwner *entity.User
	err = uc.tx.Run(ctx, func(repos ports.Repositories) error {
		target, err := repos.Organizations.GetByID(ctx, targetOrgID)
		if err != nil {
			return fmt.Errorf("matching: obtener destino: %w", err)
		}
		if target == nil {
			return domain.ErrNotFound
		}
		if !target.IsVerified() {
			return domain.ErrNotVerified
		}
		result.Target = target

		if err := repos.Matches.LockPair(ctx, me.ID, target.ID); err != nil {
			return fmt.Errorf("matching: bloquear par: %w", err)
		}
		now := uc.now()
		if err := repos.Likes.Create(ctx, &entity.Like{
			ID:        uuid.New().String(),
			FromOrgID: me.ID,
			ToOrgID:   target.ID,
			CreatedAt: now,
		}); err != nil {
			return fmt.Errorf("matching: crear like: %w", err)
		}
		mutual, err := repos.Likes.Exists(ctx, target.ID, me.ID)
		if err != nil {
			return fmt.Errorf("matching: comprobar reciprocidad: %w", err)
		}
		result.Mutual = mutual

		action := entity.ActionLike
		if mutual {
			m := entity.NewMatch(uuid.New().String(), me.ID, target.ID, now)
			created, err := repos.Matches.CreateIfAbsent(ctx, m)
			if err != nil {
				return fmt.Errorf("matching: crear match: %w", err)
			}
			if created {
				result.Match = m
				action = entity.ActionMatch
				targetOwner, err = repos.Users.GetByID(ctx, target.UserID)
				if err != nil {
					return fmt.Errorf("matching: obtener dueño del destino: %w", err)
				}
			}
		}
		return repos.Logs.Create(ctx, &entity.Log{
			ID:        uuid.New().String(),
			UserID:    &me.UserID,
			Action:    action,
			Details:   map[string]any{"partner_id": target.ID},
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	if result.Match != nil {
		uc.log.Info().Str("match_id", result.Match.ID).Str("org1", result.Match.Org1ID).Str("org2", result.Match.Org2ID).Msg("match creado")
		uc.notifier.Send(ctx, telegramID, matchMessage(result.Target))
		if targetOwner != nil {
			uc.notifier.Send(ctx, targetOwner.TelegramID, matchMessage(me))
		}
		return result, nil
	}
	if result.Mutual {
		uc.notifier.Send(ctx, telegramID, alreadyMatchedMessage(result.Target))
		return result, nil
	}
	uc.notifier.Send(ctx, telegramID, likeSentMessage)
	return result, nil
}

// ListMatches devuelve las organizaciones con match activo para la organización del actor.
func (uc *UseCase) ListMatches(ctx context.Context, telegramID int64) ([]Partner, error) {
	me, err := uc.Requester(ctx, telegramID)
	if err != nil {
		return nil, err
	}
	list, err := uc.matches.ListActiveByOrganization(ctx, me.ID)
	if err != nil {
		return nil, fmt.Errorf("matching: listar matches: %w", err)
	}
	out := make([]Partner, 0, len(list))
	for _, m := range list {
		org, err := uc.orgs.GetByID(ctx, m.Partner(me.ID))
		if err != nil {
			return nil, fmt.Errorf("matching: obtener socio: %w", err)
		}
		if org == nil {
			continue
		}
		out = append(out, Partner{Match: m, Organization: org})
	}
	return out, nil
}
