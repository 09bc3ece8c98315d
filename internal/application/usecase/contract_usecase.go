package usecase

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/partnerhub/internal/application/dto"
	"github.com/jhoicas/partnerhub/internal/application/notify"
	"github.com/jhoicas/partnerhub/internal/application/ports"
	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/domain/repository"
	"github.com/jhoicas/partnerhub/pkg/logger"
)

// ContractTypeLabels etiquetas visibles de los tipos de contrato, en orden de presentación.
var ContractTypeLabels = []struct{ Type, Label string }{
	{entity.ContractPartnership, "Партнёрство"},
	{entity.ContractCooperation, "Сотрудничество"},
	{entity.ContractServices, "Оказание услуг"},
}

// ContractTypeLabel devuelve la etiqueta del tipo o el propio código si no se conoce.
func ContractTypeLabel(t string) string {
	for _, l := range ContractTypeLabels {
		if l.Type == t {
			return l.Label
		}
	}
	return t
}

// ContractUseCase registro de contratos entre organizaciones con match.
type ContractUseCase struct {
	tx        ports.TxRunner
	users     repository.UserRepository
	orgs      repository.OrganizationRepository
	matches   repository.MatchRepository
	contracts repository.ContractRepository
	renderer  ports.ContractRenderer
	documents ports.DocumentSender
	notifier  *notify.Dispatcher
	log       *logger.Logger
	now       func() time.Time
}

// NewContractUseCase construye el caso de uso. renderer y documents pueden ser nil
// (el contrato se registra igualmente, sin documento adjunto).
func NewContractUseCase(
	tx ports.TxRunner,
	users repository.UserRepository,
	orgs repository.OrganizationRepository,
	matches repository.MatchRepository,
	contracts repository.ContractRepository,
	renderer ports.ContractRenderer,
	documents ports.DocumentSender,
	notifier *notify.Dispatcher,
	log *logger.Logger,
) *ContractUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ContractUseCase{
		tx: tx, users: users, orgs: orgs, matches: matches, contracts: contracts,
		renderer: renderer, documents: documents, notifier: notifier, log: log, now: time.Now,
	}
}

// Create registra el contrato, genera el PDF y lo envía a ambas partes.
// Solo se permite con una organización con la que exista un match activo.
func (uc *ContractUseCase) Create(ctx context.Context, telegramID int64, in dto.ContractDraft) (*entity.Contract, error) {
	creator, err := organizationOf(ctx, uc.users, uc.orgs, telegramID)
	if err != nil {
		return nil, err
	}
	if ContractTypeLabel(in.Type) == in.Type {
		return nil, fmt.Errorf("%w: tipo de contrato %q", domain.ErrInvalidInput, in.Type)
	}
	matched, err := uc.hasActiveMatch(ctx, creator.ID, in.PartnerOrgID)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, fmt.Errorf("%w: no hay match con la organización", domain.ErrForbidden)
	}
	partner, err := uc.orgs.GetByID(ctx, in.PartnerOrgID)
	if err != nil {
		return nil, fmt.Errorf("obtener socio: %w", err)
	}
	if partner == nil {
		return nil, domain.ErrNotFound
	}

	now := uc.now()
	c := &entity.Contract{
		ID:             uuid.New().String(),
		CreatorOrgID:   creator.ID,
		RecipientOrgID: partner.ID,
		Type:           in.Type,
		Details:        in.Details,
		CreatedBy:      creator.UserID,
		CreatedAt:      now,
	}
	err = uc.tx.Run(ctx, func(repos ports.Repositories) error {
		if err := repos.Contracts.Create(ctx, c); err != nil {
			return fmt.Errorf("crear contrato: %w", err)
		}
		return repos.Logs.Create(ctx, &entity.Log{
			ID:        uuid.New().String(),
			UserID:    &creator.UserID,
			Action:    entity.ActionCreateContract,
			Details:   map[string]any{"contract_id": c.ID, "partner_id": partner.ID, "type": c.Type},
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	partnerOwner, err := uc.users.GetByID(ctx, partner.UserID)
	if err != nil {
		uc.log.Warn().Err(err).Str("contract_id", c.ID).Msg("no se pudo obtener el dueño del socio")
	}
	uc.attachDocument(ctx, c, creator, partner, telegramID, partnerOwner)
	if partnerOwner != nil {
		uc.notifier.Send(ctx, partnerOwner.TelegramID, fmt.Sprintf(
			"📄 Организация <b>%s</b> создала с вами договор (%s).\n\nДоговор доступен в разделе «Документы».",
			html.EscapeString(creator.Name), ContractTypeLabel(c.Type),
		))
	}
	return c, nil
}

// attachDocument genera el PDF, lo envía a ambas partes y guarda la referencia devuelta.
// Cualquier fallo se registra y se descarta: el contrato ya está persistido.
func (uc *ContractUseCase) attachDocument(ctx context.Context, c *entity.Contract, creator, partner *entity.Organization, creatorTG int64, partnerOwner *entity.User) {
	if uc.renderer == nil || uc.documents == nil {
		return
	}
	pdf, err := uc.renderer.Render(ctx, ports.ContractDocument{
		ContractID:    c.ID,
		Type:          ContractTypeLabel(c.Type),
		Details:       c.Details,
		CreatorName:   creator.Name,
		CreatorINN:    creator.INN,
		RecipientName: partner.Name,
		RecipientINN:  partner.INN,
		CreatedAt:     c.CreatedAt,
	})
	if err != nil {
		uc.log.Warn().Err(err).Str("contract_id", c.ID).Msg("no se pudo generar el PDF del contrato")
		return
	}
	filename := "contract-" + c.ID[:8] + ".pdf"
	fileID, err := uc.documents.SendDocument(ctx, creatorTG, filename, pdf, "Договор с "+partner.Name)
	if err != nil {
		uc.log.Warn().Err(err).Str("contract_id", c.ID).Msg("no se pudo enviar el contrato al creador")
	}
	if fileID != "" {
		if err := uc.contracts.UpdateFileID(ctx, c.ID, fileID); err != nil {
			uc.log.Warn().Err(err).Str("contract_id", c.ID).Msg("no se pudo guardar la referencia del documento")
		} else {
			c.FileID = fileID
		}
	}
	if partnerOwner != nil {
		if _, err := uc.documents.SendDocument(ctx, partnerOwner.TelegramID, filename, pdf, "Договор с "+creator.Name); err != nil {
			uc.log.Warn().Err(err).Str("contract_id", c.ID).Msg("no se pudo enviar el contrato al socio")
		}
	}
}

// ListMine contratos de la organización del actor con el nombre de la contraparte.
func (uc *ContractUseCase) ListMine(ctx context.Context, telegramID int64) ([]*entity.ContractItem, error) {
	org, err := organizationOf(ctx, uc.users, uc.orgs, telegramID)
	if err != nil {
		return nil, err
	}
	return uc.contracts.ListByOrganization(ctx, org.ID)
}

func (uc *ContractUseCase) hasActiveMatch(ctx context.Context, orgID, partnerID string) (bool, error) {
	list, err := uc.matches.ListActiveByOrganization(ctx, orgID)
	if err != nil {
		return false, fmt.Errorf("listar matches: %w", err)
	}
	for _, m := range list {
		if m.Partner(orgID) == partnerID {
			return true, nil
		}
	}
	return false, nil
}
