package conversation

import (
	"context"

	"github.com/jhoicas/partnerhub/internal/application/auth"
	"github.com/jhoicas/partnerhub/internal/application/dto"
	"github.com/jhoicas/partnerhub/internal/application/matching"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
)

// Registrar alta de organizaciones y mentores.
type Registrar interface {
	OrganizationOf(ctx context.Context, telegramID int64) (*entity.Organization, error)
	INNTaken(ctx context.Context, inn string) (bool, error)
	RegisterOrganization(ctx context.Context, actor dto.Actor, in dto.OrganizationDraft) (*entity.Organization, *entity.Verification, error)
	RegisterMentor(ctx context.Context, actor dto.Actor, in dto.MentorDraft) (*entity.Mentor, error)
}

// ResourcePublisher alta de cursos y concursos.
type ResourcePublisher interface {
	Create(ctx context.Context, actorTelegramID int64, in dto.ResourceDraft) (*entity.Resource, error)
}

// NewsPublisher publicación de noticias de organizaciones verificadas.
type NewsPublisher interface {
	Author(ctx context.Context, telegramID int64) (*entity.Organization, error)
	Create(ctx context.Context, telegramID int64, in dto.NewsDraft) (*entity.News, error)
}

// PartnerLister socios con match activo.
type PartnerLister interface {
	ListMatches(ctx context.Context, telegramID int64) ([]matching.Partner, error)
}

// ContractCreator alta de contratos.
type ContractCreator interface {
	Create(ctx context.Context, telegramID int64, in dto.ContractDraft) (*entity.Contract, error)
}

// QuestionAsker preguntas al centro de recursos.
type QuestionAsker interface {
	Ask(ctx context.Context, actor dto.Actor, question string) error
}

// Verifier decisiones de verificación con mensaje personalizado.
type Verifier interface {
	Approve(ctx context.Context, actorTelegramID int64, verificationID, customMessage string) (*entity.VerificationView, error)
	Reject(ctx context.Context, actorTelegramID int64, verificationID, reason, customMessage string) (*entity.VerificationView, error)
}

// AdminManager gestión de administradores por el propietario.
type AdminManager interface {
	AddAdmin(ctx context.Context, actorTelegramID, targetTelegramID int64) (*entity.User, error)
}

// Authorizer comprobación de capacidades.
type Authorizer interface {
	Require(ctx context.Context, telegramID int64, c auth.Capability) (*entity.User, error)
}

// Services dependencias de los efectos terminales de los flujos.
type Services struct {
	Registration Registrar
	Resources    ResourcePublisher
	News         NewsPublisher
	Partners     PartnerLister
	Contracts    ContractCreator
	Questions    QuestionAsker
	Verification Verifier
	Admins       AdminManager
	Guard        Authorizer
}
