package conversation

import (
	"context"
	"html"
	"strings"

	"github.com/jhoicas/partnerhub/internal/application/dto"
	"github.com/jhoicas/partnerhub/internal/application/usecase"
)

// Pasos de los flujos de miembros.
const (
	StepMedia        StepID = "media"
	StepPartner      StepID = "partner"
	StepContractType StepID = "contract_type"
	StepDetails      StepID = "details"
	StepQuestion     StepID = "question"
)

// MsgNoPartners respuesta cuando el actor aún no tiene matches.
const MsgNoPartners = "У вас пока нет партнёров. Договор можно создать только с организацией, с которой у вас взаимный интерес."

func createNewsFlow(svc Services) *Flow {
	return &Flow{
		Name:  FlowCreateNews,
		Title: "📰 Новая новость",
		Begin: func(ctx context.Context, s *Session) error {
			_, err := svc.News.Author(ctx, s.Actor.TelegramID)
			return refuse(err)
		},
		Steps: []Step{
			{ID: StepTitle, Kind: KindText, Prompt: text("Введите заголовок новости:")},
			{ID: StepContent, Kind: KindText, Prompt: text("Введите текст новости:")},
			{
				ID: StepMedia, Kind: KindText, Optional: true,
				Prompt: text("Отправьте медиа-файлы (фото/видео) или напишите 'нет', если медиа не нужно:"),
			},
		},
		Complete: func(ctx context.Context, s *Session) (string, error) {
			n, err := svc.News.Create(ctx, s.Actor.TelegramID, dto.NewsDraft{
				Title:    s.Get(string(StepTitle)),
				Content:  s.Get(string(StepContent)),
				MediaIDs: splitMedia(s.Get(string(StepMedia))),
			})
			if err != nil {
				return "", refuse(err)
			}
			return "✅ Новость <b>" + html.EscapeString(n.Title) + "</b> опубликована!", nil
		},
	}
}

// splitMedia separa los identificadores de archivo que el transporte une con comas.
func splitMedia(v string) []string {
	var out []string
	for _, id := range strings.Split(v, ",") {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

func createContractFlow(svc Services) *Flow {
	partners := func(ctx context.Context, s *Session) ([]Option, error) {
		list, err := svc.Partners.ListMatches(ctx, s.Actor.TelegramID)
		if err != nil {
			return nil, err
		}
		out := make([]Option, 0, len(list))
		for _, p := range list {
			out = append(out, Option{Label: p.Organization.Name, Value: p.Organization.ID})
		}
		return out, nil
	}
	return &Flow{
		Name:  FlowCreateContract,
		Title: "📄 Новый договор",
		Begin: func(ctx context.Context, s *Session) error {
			opts, err := partners(ctx, s)
			if err != nil {
				return refuse(err)
			}
			if len(opts) == 0 {
				return Abort(MsgNoPartners)
			}
			return nil
		},
		Steps: []Step{
			{
				ID: StepPartner, Kind: KindChoice,
				Prompt:  text("Выберите партнёра, с которым хотите создать договор:"),
				Options: partners,
			},
			{
				ID: StepContractType, Kind: KindChoice,
				Prompt: text("Выберите тип договора:"),
				Options: func(context.Context, *Session) ([]Option, error) {
					out := make([]Option, 0, len(usecase.ContractTypeLabels))
					for _, l := range usecase.ContractTypeLabels {
						out = append(out, Option{Label: l.Label, Value: l.Type})
					}
					return out, nil
				},
			},
			{
				ID: StepDetails, Kind: KindText,
				Prompt: func(s *Session) string {
					return "Тип договора: <b>" + usecase.ContractTypeLabel(s.Get(string(StepContractType))) + "</b>\n\n" +
						"Опишите условия и детали договора:"
				},
			},
		},
		Complete: func(ctx context.Context, s *Session) (string, error) {
			_, err := svc.Contracts.Create(ctx, s.Actor.TelegramID, dto.ContractDraft{
				PartnerOrgID: s.Get(string(StepPartner)),
				Type:         s.Get(string(StepContractType)),
				Details:      s.Get(string(StepDetails)),
			})
			if err != nil {
				return "", refuse(err)
			}
			return "✅ Договор успешно создан! Партнёр получил уведомление.", nil
		},
	}
}

func resourceQuestionFlow(svc Services) *Flow {
	return &Flow{
		Name:  FlowResourceQuestion,
		Title: "❓ Вопрос ресурсному центру",
		Steps: []Step{{
			ID: StepQuestion, Kind: KindText,
			Prompt: text("Напишите ваш вопрос специалистам ресурсного центра:"),
		}},
		Complete: func(ctx context.Context, s *Session) (string, error) {
			if err := svc.Questions.Ask(ctx, s.Actor, s.Get(string(StepQuestion))); err != nil {
				return "", err
			}
			return "✅ Ваш вопрос отправлен специалистам ресурсного центра. Ответ придёт в этот чат.", nil
		},
	}
}
