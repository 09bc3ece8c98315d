// Package verification implementa el flujo de moderación pending → approved | rejected.
package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/partnerhub/internal/application/auth"
	"github.com/jhoicas/partnerhub/internal/application/notify"
	"github.com/jhoicas/partnerhub/internal/application/ports"
	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/domain/repository"
	"github.com/jhoicas/partnerhub/pkg/logger"
)

// UseCase aprueba y rechaza organizaciones. Toda operación pasa por el Guard.
type UseCase struct {
	tx            ports.TxRunner
	verifications repository.VerificationRepository
	guard         *auth.Guard
	notifier      *notify.Dispatcher
	log           *logger.Logger
	now           func() time.Time
}

// NewUseCase construye el caso de uso de verificación.
func NewUseCase(
	tx ports.TxRunner,
	verifications repository.VerificationRepository,
	guard *auth.Guard,
	notifier *notify.Dispatcher,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		tx:            tx,
		verifications: verifications,
		guard:         guard,
		notifier:      notifier,
		log:           log,
		now:           time.Now,
	}
}

// ListPending devuelve las solicitudes pendientes, una por verificación.
func (uc *UseCase) ListPending(ctx context.Context, actorTelegramID int64) ([]*entity.VerificationView, error) {
	if _, err := uc.guard.Require(ctx, actorTelegramID, auth.CapVerify); err != nil {
		return nil, err
	}
	views, err := uc.verifications.ListPendingViews(ctx)
	if err != nil {
		return nil, fmt.Errorf("verification: listar pendientes: %w", err)
	}
	seen := make(map[string]struct{}, len(views))
	out := make([]*entity.VerificationView, 0, len(views))
	for _, v := range views {
		if _, dup := seen[v.Verification.ID]; dup {
			continue
		}
		seen[v.Verification.ID] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

// Approve aprueba la verificación, marca la organización como verificada y avisa al dueño.
func (uc *UseCase) Approve(ctx context.Context, actorTelegramID int64, verificationID, customMessage string) (*entity.VerificationView, error) {
	view, err := uc.decide(ctx, actorTelegramID, verificationID, entity.ActionVerificationApprove, func(v *entity.Verification, adminID string) (string, map[string]any) {
		v.Approve(adminID, uc.now())
		return entity.OrgStatusVerified, map[string]any{}
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Send(ctx, view.Owner.TelegramID, approvedMessage(customMessage))
	return view, nil
}

// Reject rechaza la verificación con reason (o el motivo por defecto) y avisa al dueño.
func (uc *UseCase) Reject(ctx context.Context, actorTelegramID int64, verificationID, reason, customMessage string) (*entity.VerificationView, error) {
	view, err := uc.decide(ctx, actorTelegramID, verificationID, entity.ActionVerificationReject, func(v *entity.Verification, adminID string) (string, map[string]any) {
		v.Reject(adminID, reason)
		return entity.OrgStatusRejected, map[string]any{"reason": v.RejectionReason}
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Send(ctx, view.Owner.TelegramID, rejectedMessage(view.Verification.RejectionReason, customMessage))
	return view, nil
}

type decision func(v *entity.Verification, adminID string) (orgStatus string, details map[string]any)

// decide aplica la transición en una sola transacción: verificación, organización y log.
// Una verificación ya decidida no se reabre ni se sobrescribe (domain.ErrConflict).
func (uc *UseCase) decide(ctx context.Context, actorTelegramID int64, verificationID, action string, apply decision) (*entity.VerificationView, error) {
	admin, err := uc.guard.Require(ctx, actorTelegramID, auth.CapVerify)
	if err != nil {
		return nil, err
	}
	var result *entity.VerificationView
	err = uc.tx.Run(ctx, func(repos ports.Repositories) error {
		view, err := repos.Verifications.GetView(ctx, verificationID)
		if err != nil {
			return fmt.Errorf("verification: obtener solicitud: %w", err)
		}
		if view == nil {
			return domain.ErrNotFound
		}
		if view.Verification.IsTerminal() {
			return fmt.Errorf("%w: la solicitud ya está %s", domain.ErrConflict, view.Verification.Status)
		}
		orgStatus, details := apply(&view.Verification, admin.ID)
		if err := repos.Verifications.Update(ctx, &view.Verification); err != nil {
			return fmt.Errorf("verification: actualizar: %w", err)
		}
		if err := repos.Organizations.UpdateVerificationStatus(ctx, view.Organization.ID, orgStatus); err != nil {
			return fmt.Errorf("verification: actualizar organización: %w", err)
		}
		view.Organization.VerificationStatus = orgStatus
		details["verification_id"] = view.Verification.ID
		details["organization_id"] = view.Organization.ID
		if err := repos.Logs.Create(ctx, &entity.Log{
			ID:        uuid.New().String(),
			UserID:    &admin.ID,
			Action:    action,
			Details:   details,
			CreatedAt: uc.now(),
		}); err != nil {
			return fmt.Errorf("verification: registrar log: %w", err)
		}
		result = view
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("verification_id", verificationID).
		Str("action", action).
		Str("admin_id", admin.ID).
		Msg("verificación decidida")
	return result, nil
}
