package usecase

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/partnerhub/internal/application/auth"
	"github.com/jhoicas/partnerhub/internal/application/dto"
	"github.com/jhoicas/partnerhub/internal/application/notify"
	"github.com/jhoicas/partnerhub/internal/application/ports"
	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/domain/repository"
	"github.com/jhoicas/partnerhub/pkg/logger"
)

// RegistrationUseCase alta de actores, organizaciones y mentores.
type RegistrationUseCase struct {
	tx       ports.TxRunner
	users    repository.UserRepository
	orgs     repository.OrganizationRepository
	guard    *auth.Guard
	notifier *notify.Dispatcher
	ownerTG  int64
	log      *logger.Logger
	now      func() time.Time
}

// NewRegistrationUseCase construye el caso de uso de registro.
func NewRegistrationUseCase(
	tx ports.TxRunner,
	users repository.UserRepository,
	orgs repository.OrganizationRepository,
	guard *auth.Guard,
	notifier *notify.Dispatcher,
	ownerTelegramID int64,
	log *logger.Logger,
) *RegistrationUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RegistrationUseCase{
		tx: tx, users: users, orgs: orgs, guard: guard, notifier: notifier,
		ownerTG: ownerTelegramID, log: log, now: time.Now,
	}
}

// EnsureUser crea el actor en su primer contacto. El owner configurado recibe rol owner.
func (uc *RegistrationUseCase) EnsureUser(ctx context.Context, actor dto.Actor) (*entity.User, error) {
	u, err := uc.users.GetByTelegramID(ctx, actor.TelegramID)
	if err != nil {
		return nil, fmt.Errorf("registro: obtener usuario: %w", err)
	}
	if u != nil {
		if uc.guard.IsOwner(u.TelegramID) && u.Role != entity.RoleOwner {
			if err := uc.users.UpdateRole(ctx, u.ID, entity.RoleOwner); err != nil {
				return nil, fmt.Errorf("registro: asignar owner: %w", err)
			}
			u.Role = entity.RoleOwner
		}
		return u, nil
	}
	u = newUser(actor, entity.RoleOrganization, uc.now())
	if uc.guard.IsOwner(actor.TelegramID) {
		u.Role = entity.RoleOwner
	}
	if err := uc.users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// otra petición concurrente del mismo actor lo creó primero
			return uc.users.GetByTelegramID(ctx, actor.TelegramID)
		}
		return nil, fmt.Errorf("registro: crear usuario: %w", err)
	}
	uc.log.Info().Int64("telegram_id", actor.TelegramID).Str("role", u.Role).Msg("nuevo usuario")
	return u, nil
}

// OrganizationOf devuelve la organización del actor (nil si no tiene).
func (uc *RegistrationUseCase) OrganizationOf(ctx context.Context, telegramID int64) (*entity.Organization, error) {
	u, err := uc.users.GetByTelegramID(ctx, telegramID)
	if err != nil || u == nil {
		return nil, err
	}
	return uc.orgs.GetByUserID(ctx, u.ID)
}

// INNTaken indica si ya existe una organización con ese ИНН.
func (uc *RegistrationUseCase) INNTaken(ctx context.Context, inn string) (bool, error) {
	org, err := uc.orgs.GetByINN(ctx, inn)
	if err != nil {
		return false, fmt.Errorf("registro: buscar ИНН: %w", err)
	}
	return org != nil, nil
}

// RegisterOrganization persiste usuario, organización, verificación y log en una transacción
// y avisa al owner y a los administradores con la tarjeta de la solicitud.
func (uc *RegistrationUseCase) RegisterOrganization(ctx context.Context, actor dto.Actor, in dto.OrganizationDraft) (*entity.Organization, *entity.Verification, error) {
	if !in.GDPRConsent {
		return nil, nil, fmt.Errorf("%w: se requiere consentimiento", domain.ErrInvalidInput)
	}
	if len(in.CanGive) == 0 || len(in.Need) == 0 {
		return nil, nil, fmt.Errorf("%w: can_give y need no pueden estar vacíos", domain.ErrInvalidInput)
	}
	now := uc.now()
	var org *entity.Organization
	var ver *entity.Verification
	err := uc.tx.Run(ctx, func(repos ports.Repositories) error {
		user, err := repos.Users.GetByTelegramID(ctx, actor.TelegramID)
		if err != nil {
			return fmt.Errorf("obtener usuario: %w", err)
		}
		if user == nil {
			user = newUser(actor, entity.RoleOrganization, now)
			if err := repos.Users.Create(ctx, user); err != nil {
				return fmt.Errorf("crear usuario: %w", err)
			}
		}
		existing, err := repos.Organizations.GetByUserID(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("obtener organización: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("%w: el usuario ya tiene organización", domain.ErrConflict)
		}
		byINN, err := repos.Organizations.GetByINN(ctx, in.INN)
		if err != nil {
			return fmt.Errorf("buscar ИНН: %w", err)
		}
		if byINN != nil {
			return domain.ErrDuplicate
		}
		org = &entity.Organization{
			ID:                 uuid.New().String(),
			UserID:             user.ID,
			Name:               in.Name,
			LegalForm:          in.LegalForm,
			ActivityField:      in.ActivityField,
			OKVED:              in.OKVED,
			INN:                in.INN,
			Phone:              in.Phone,
			Email:              in.Email,
			Telegram:           in.Telegram,
			Description:        in.Description,
			Turnover:           in.Turnover,
			CanGive:            in.CanGive,
			Need:               in.Need,
			InteractionFormat:  in.InteractionFormat,
			City:               in.City,
			PartnershipType:    in.PartnershipType,
			GDPRConsent:        true,
			VerificationStatus: entity.OrgStatusPending,
			CreatedAt:          now,
		}
		if err := repos.Organizations.Create(ctx, org); err != nil {
			return err
		}
		ver = &entity.Verification{
			ID:             uuid.New().String(),
			OrganizationID: org.ID,
			Status:         entity.VerificationPending,
			CreatedAt:      now,
		}
		if err := repos.Verifications.Create(ctx, ver); err != nil {
			return fmt.Errorf("crear verificación: %w", err)
		}
		return repos.Logs.Create(ctx, &entity.Log{
			ID:        uuid.New().String(),
			UserID:    &user.ID,
			Action:    entity.ActionRegistration,
			Details:   map[string]any{"type": "organization", "inn": in.INN},
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, nil, err
	}

	uc.log.Info().Str("organization_id", org.ID).Str("inn", org.INN).Msg("organización registrada")
	recipients, err := staffRecipients(ctx, uc.users, uc.ownerTG)
	if err != nil {
		uc.log.Warn().Err(err).Msg("no se pudo avisar a los administradores")
		return org, ver, nil
	}
	uc.notifier.Broadcast(ctx, recipients, newApplicationMessage(org), notify.VerificationButtons(ver.ID)...)
	return org, ver, nil
}

// RegisterMentor crea el perfil de mentor y asigna el rol mentor al actor.
func (uc *RegistrationUseCase) RegisterMentor(ctx context.Context, actor dto.Actor, in dto.MentorDraft) (*entity.Mentor, error) {
	now := uc.now()
	var mentor *entity.Mentor
	err := uc.tx.Run(ctx, func(repos ports.Repositories) error {
		user, err := repos.Users.GetByTelegramID(ctx, actor.TelegramID)
		if err != nil {
			return fmt.Errorf("obtener usuario: %w", err)
		}
		if user == nil {
			user = newUser(actor, entity.RoleMentor, now)
			if err := repos.Users.Create(ctx, user); err != nil {
				return fmt.Errorf("crear usuario: %w", err)
			}
		}
		org, err := repos.Organizations.GetByUserID(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("obtener organización: %w", err)
		}
		if org != nil {
			return fmt.Errorf("%w: el usuario ya está registrado como organización", domain.ErrConflict)
		}
		existing, err := repos.Mentors.GetByUserID(ctx, user.ID)
		if err != nil {
			return fmt.Errorf("obtener mentor: %w", err)
		}
		if existing != nil {
			return domain.ErrDuplicate
		}
		if user.Role == entity.RoleOrganization {
			if err := repos.Users.UpdateRole(ctx, user.ID, entity.RoleMentor); err != nil {
				return fmt.Errorf("asignar rol mentor: %w", err)
			}
		}
		mentor = &entity.Mentor{
			ID:          uuid.New().String(),
			UserID:      user.ID,
			Name:        in.Name,
			Expertise:   in.Expertise,
			Experience:  in.Experience,
			ContactInfo: in.ContactInfo,
			IsAvailable: true,
			CreatedAt:   now,
		}
		if err := repos.Mentors.Create(ctx, mentor); err != nil {
			return err
		}
		return repos.Logs.Create(ctx, &entity.Log{
			ID:        uuid.New().String(),
			UserID:    &user.ID,
			Action:    entity.ActionRegistration,
			Details:   map[string]any{"type": "mentor"},
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return mentor, nil
}

func newUser(actor dto.Actor, role string, now time.Time) *entity.User {
	return &entity.User{
		ID:         uuid.New().String(),
		TelegramID: actor.TelegramID,
		Username:   actor.Username,
		FullName:   actor.FullName,
		Role:       role,
		CreatedAt:  now,
	}
}

func newApplicationMessage(org *entity.Organization) string {
	var b strings.Builder
	e := html.EscapeString
	fmt.Fprintf(&b, "📝 <b>НОВАЯ ЗАЯВКА НА РЕГИСТРАЦИЮ</b>\n\n")
	fmt.Fprintf(&b, "<b>Организация:</b> %s\n", e(org.Name))
	fmt.Fprintf(&b, "<b>Юр. форма:</b> %s\n", e(org.LegalForm))
	fmt.Fprintf(&b, "<b>ИНН:</b> %s\n\n", e(org.INN))
	fmt.Fprintf(&b, "<b>Контакты:</b>\n📞 %s\n📧 %s\n💬 %s\n\n", e(org.Phone), e(org.Email), e(org.Telegram))
	fmt.Fprintf(&b, "<b>Оборот:</b> %s\n", e(org.Turnover))
	fmt.Fprintf(&b, "<b>Формат:</b> %s", e(org.InteractionFormat))
	if org.City != "" {
		fmt.Fprintf(&b, " (%s)", e(org.City))
	}
	fmt.Fprintf(&b, "\n<b>Тип партнёрства:</b> %s\n\n", e(org.PartnershipType))
	fmt.Fprintf(&b, "<b>Может дать:</b>\n%s\n\n", e(strings.Join(org.CanGive, ", ")))
	fmt.Fprintf(&b, "<b>Нужно:</b>\n%s\n\n", e(strings.Join(org.Need, ", ")))
	fmt.Fprintf(&b, "<b>Описание:</b>\n%s", e(org.Description))
	return b.String()
}
