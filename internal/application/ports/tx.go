package ports

import (
	"context"

	"github.com/jhoicas/partnerhub/internal/domain/repository"
)

// Repositories agrupa los repositorios atados a una misma transacción.
type Repositories struct {
	Users         repository.UserRepository
	Organizations repository.OrganizationRepository
	Verifications repository.VerificationRepository
	Likes         repository.LikeRepository
	Matches       repository.MatchRepository
	Mentors       repository.MentorRepository
	Resources     repository.ResourceRepository
	News          repository.NewsRepository
	Contracts     repository.ContractRepository
	Logs          repository.LogRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en otro caso.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}
