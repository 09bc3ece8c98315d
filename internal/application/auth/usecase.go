package auth

import (
	"context"

	"github.com/jhoicas/partnerhub/internal/application/dto"
	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// AuthUseCase emite tokens para la API de administración.
// La contraseña es compartida por el equipo (hash bcrypt en configuración); el rol sale del Guard.
type AuthUseCase struct {
	guard        *Guard
	passwordHash string
	tokens       *jwt.Issuer
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(guard *Guard, passwordHash string, tokens *jwt.Issuer) *AuthUseCase {
	return &AuthUseCase{guard: guard, passwordHash: passwordHash, tokens: tokens}
}

// Login verifica telegram_id/password y genera un JWT con el rol efectivo del actor.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if uc.passwordHash == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.passwordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.guard.Require(ctx, in.TelegramID, CapViewStats)
	if err != nil {
		return nil, err
	}
	role := uc.guard.EffectiveRole(user)
	token, err := uc.tokens.Issue(jwt.Subject{UserID: user.ID, TelegramID: user.TelegramID, Role: role})
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: int(uc.tokens.TTL().Seconds()),
		User:      toUserResponse(user, role),
	}, nil
}

func toUserResponse(u *entity.User, role string) dto.UserResponse {
	return dto.UserResponse{
		ID:         u.ID,
		TelegramID: u.TelegramID,
		Username:   u.Username,
		FullName:   u.FullName,
		Role:       role,
		CreatedAt:  u.CreatedAt,
	}
}
