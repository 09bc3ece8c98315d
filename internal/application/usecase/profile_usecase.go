package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/domain/repository"
)

// Profile datos del actor: su organización o su perfil de mentor, según el caso.
type Profile struct {
	User         *entity.User
	Organization *entity.Organization
	Mentor       *entity.Mentor
}

// ProfileUseCase consulta del perfil propio.
type ProfileUseCase struct {
	users   repository.UserRepository
	orgs    repository.OrganizationRepository
	mentors repository.MentorRepository
}

// NewProfileUseCase construye el caso de uso.
func NewProfileUseCase(users repository.UserRepository, orgs repository.OrganizationRepository, mentors repository.MentorRepository) *ProfileUseCase {
	return &ProfileUseCase{users: users, orgs: orgs, mentors: mentors}
}

// Get devuelve el perfil del actor. domain.ErrUserNotFound si nunca contactó con el bot.
func (uc *ProfileUseCase) Get(ctx context.Context, telegramID int64) (*Profile, error) {
	u, err := uc.users.GetByTelegramID(ctx, telegramID)
	if err != nil {
		return nil, fmt.Errorf("perfil: obtener usuario: %w", err)
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	p := &Profile{User: u}
	if p.Organization, err = uc.orgs.GetByUserID(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("perfil: obtener organización: %w", err)
	}
	if p.Mentor, err = uc.mentors.GetByUserID(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("perfil: obtener mentor: %w", err)
	}
	return p, nil
}
