package conversation

import (
	"context"
	"errors"
	"html"
	"strconv"

	"github.com/jhoicas/partnerhub/internal/application/auth"
	"github.com/jhoicas/partnerhub/internal/application/dto"
	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
)

// Pasos de los flujos de administración.
const (
	StepTitle      StepID = "title"
	StepContent    StepID = "content"
	StepDeadline   StepID = "deadline"
	StepLink       StepID = "link"
	StepMessage    StepID = "message"
	StepTelegramID StepID = "telegram_id"
)

// Parámetros del flujo verification_message.
const (
	ParamVerificationID = "verification_id"
	ParamDecision       = "decision"
	DecisionApprove     = "approve"
	DecisionReject      = "reject"
)

// require construye un Begin que exige la capacidad c.
func require(svc Services, c auth.Capability) func(context.Context, *Session) error {
	return func(ctx context.Context, s *Session) error {
		_, err := svc.Guard.Require(ctx, s.Actor.TelegramID, c)
		return refuse(err)
	}
}

func resourceFlow(svc Services, name FlowName, kind, title, noun, accusative string, withDeadline bool) *Flow {
	steps := []Step{
		{ID: StepTitle, Kind: KindText, Prompt: text("Введите название " + noun + ":")},
		{ID: StepContent, Kind: KindText, Prompt: text("Введите описание " + noun + ":")},
	}
	if withDeadline {
		steps = append(steps, Step{ID: StepDeadline, Kind: KindText, Prompt: text("Введите дедлайн " + noun + " (например: 2025-12-31):")})
	}
	steps = append(steps, Step{
		ID: StepLink, Kind: KindText, Optional: true,
		Prompt: text("Введите ссылку на " + accusative + " (или 'нет', если ссылки нет):"),
	})
	return &Flow{
		Name:  name,
		Title: title,
		Begin: require(svc, auth.CapManageResources),
		Steps: steps,
		Complete: func(ctx context.Context, s *Session) (string, error) {
			res, err := svc.Resources.Create(ctx, s.Actor.TelegramID, dto.ResourceDraft{
				Type:     kind,
				Title:    s.Get(string(StepTitle)),
				Content:  s.Get(string(StepContent)),
				Deadline: s.Get(string(StepDeadline)),
				Link:     s.Get(string(StepLink)),
			})
			if err != nil {
				return "", refuse(err)
			}
			return "✅ " + resourceNoun(kind) + " <b>" + html.EscapeString(res.Title) + "</b> успешно добавлен!", nil
		},
	}
}

func resourceNoun(kind string) string {
	if kind == entity.ResourceCompetition {
		return "Конкурс"
	}
	return "Курс"
}

func addCourseFlow(svc Services) *Flow {
	return resourceFlow(svc, FlowAddCourse, entity.ResourceCourse, "➕ Добавление курса", "курса", "курс", false)
}

func addCompetitionFlow(svc Services) *Flow {
	return resourceFlow(svc, FlowAddCompetition, entity.ResourceCompetition, "➕ Добавление конкурса", "конкурса", "конкурс", true)
}

func verificationMessageFlow(svc Services) *Flow {
	return &Flow{
		Name: FlowVerificationMessage,
		Begin: func(ctx context.Context, s *Session) error {
			if s.Params[ParamVerificationID] == "" {
				return Abort("Заявка не найдена.")
			}
			switch s.Params[ParamDecision] {
			case DecisionApprove, DecisionReject:
			default:
				return Abort("Неизвестное действие.")
			}
			return require(svc, auth.CapVerify)(ctx, s)
		},
		Steps: []Step{{
			ID: StepMessage, Kind: KindText,
			Prompt: func(s *Session) string {
				if s.Params[ParamDecision] == DecisionApprove {
					return "✍️ <b>Одобрение с сообщением</b>\n\n" +
						"Напишите персональное сообщение, которое будет отправлено организации от имени сервиса.\n\n" +
						"Это сообщение будет добавлено к стандартному уведомлению об одобрении."
				}
				return "✍️ <b>Отклонение с сообщением</b>\n\n" +
					"Напишите причину отклонения и дополнительную информацию для организации.\n\n" +
					"Это сообщение будет отправлено пользователю от имени сервиса."
			},
		}},
		Complete: func(ctx context.Context, s *Session) (string, error) {
			id := s.Params[ParamVerificationID]
			msg := s.Get(string(StepMessage))
			var err error
			if s.Params[ParamDecision] == DecisionApprove {
				_, err = svc.Verification.Approve(ctx, s.Actor.TelegramID, id, msg)
			} else {
				_, err = svc.Verification.Reject(ctx, s.Actor.TelegramID, id, msg, msg)
			}
			switch {
			case errors.Is(err, domain.ErrConflict):
				return "", Abort("ℹ️ Эта заявка уже обработана.")
			case errors.Is(err, domain.ErrNotFound):
				return "", Abort("Заявка не найдена.")
			case err != nil:
				return "", refuse(err)
			}
			if s.Params[ParamDecision] == DecisionApprove {
				return "✅ Заявка одобрена!\nПерсональное сообщение отправлено организации.", nil
			}
			return "❌ Заявка отклонена.\nСообщение с причиной отправлено организации.", nil
		},
	}
}

func addAdminFlow(svc Services) *Flow {
	return &Flow{
		Name:  FlowAddAdmin,
		Title: "➕ Добавление оператора",
		Begin: require(svc, auth.CapManageAdmins),
		Steps: []Step{{
			ID: StepTelegramID, Kind: KindText,
			Prompt: text("Введите Telegram ID пользователя, которого хотите сделать оператором.\n\n" +
				"Пользователь может узнать свой ID у бота @userinfobot"),
			Validate: func(_ context.Context, _ *Session, value string) (string, error) {
				id, err := strconv.ParseInt(value, 10, 64)
				if err != nil || id <= 0 {
					return "", Reprompt("❌ Неверный формат! Введите числовой Telegram ID.")
				}
				return strconv.FormatInt(id, 10), nil
			},
		}},
		Complete: func(ctx context.Context, s *Session) (string, error) {
			target, _ := strconv.ParseInt(s.Get(string(StepTelegramID)), 10, 64)
			u, err := svc.Admins.AddAdmin(ctx, s.Actor.TelegramID, target)
			switch {
			case errors.Is(err, domain.ErrUserNotFound):
				return "", Abort("❌ Пользователь с таким ID не найден в системе.\n" +
					"Пользователь должен сначала начать работу с ботом (/start).")
			case errors.Is(err, domain.ErrConflict):
				return "", Abort("ℹ️ Этот пользователь уже является администратором!")
			case err != nil:
				return "", refuse(err)
			}
			name := u.FullName
			if name == "" {
				name = strconv.FormatInt(u.TelegramID, 10)
			}
			return "✅ Пользователь <b>" + html.EscapeString(name) + "</b> назначен администратором.", nil
		},
	}
}
