package usecase

import (
	"context"

	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/domain/repository"
)

// MentorUseCase consulta de mentores.
type MentorUseCase struct {
	mentors repository.MentorRepository
}

// NewMentorUseCase construye el caso de uso.
func NewMentorUseCase(mentors repository.MentorRepository) *MentorUseCase {
	return &MentorUseCase{mentors: mentors}
}

// ListAvailable mentores disponibles.
func (uc *MentorUseCase) ListAvailable(ctx context.Context) ([]*entity.Mentor, error) {
	return uc.mentors.ListAvailable(ctx)
}
