package conversation

import (
	"context"
	"errors"

	"github.com/jhoicas/partnerhub/internal/application/dto"
	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/catalog"
)

// Pasos del registro de organización.
const (
	StepName              StepID = "name"
	StepLegalForm         StepID = "legal_form"
	StepActivityField     StepID = "activity_field"
	StepOKVED             StepID = "okved"
	StepINN               StepID = "inn"
	StepPhone             StepID = "phone"
	StepEmail             StepID = "email"
	StepTelegram          StepID = "telegram"
	StepDescription       StepID = "description"
	StepTurnover          StepID = "turnover"
	StepCanGive           StepID = "can_give"
	StepNeed              StepID = "need"
	StepInteractionFormat StepID = "interaction_format"
	StepCity              StepID = "city"
	StepPartnershipType   StepID = "partnership_type"
	StepConsent           StepID = "consent"
)

// Pasos del registro de mentor.
const (
	StepExpertise   StepID = "expertise"
	StepExperience  StepID = "experience"
	StepContactInfo StepID = "contact_info"
)

const (
	MsgINNFormat         = "ИНН должен содержать 10 или 12 цифр. Попробуйте ещё раз:"
	MsgINNTaken          = "Организация с таким ИНН уже зарегистрирована в системе!"
	MsgAlreadyRegistered = "Ваша организация уже зарегистрирована."
	MsgConsentDeclined   = "Без согласия на обработку персональных данных регистрация невозможна."
	MsgRegistrationDone  = "✅ <b>Регистрация завершена!</b>\n\n" +
		"Ваша заявка отправлена на модерацию.\n" +
		"Администратор проверит данные и проведёт видеозвонок для подтверждения.\n\n" +
		"Вы получите уведомление о результатах проверки."
	MsgMentorDone = "✅ <b>Регистрация наставника завершена!</b>\n\n" +
		"Теперь вы можете помогать другим участникам платформы."
)

func orgRegistrationFlow(cat *catalog.Catalog, svc Services) *Flow {
	static := func(values []string) func(context.Context, *Session) ([]Option, error) {
		return func(context.Context, *Session) ([]Option, error) { return choices(values), nil }
	}
	return &Flow{
		Name:  FlowOrgRegistration,
		Title: "Регистрация организации",
		Begin: func(ctx context.Context, s *Session) error {
			org, err := svc.Registration.OrganizationOf(ctx, s.Actor.TelegramID)
			if err != nil {
				return err
			}
			if org != nil {
				return Abort(MsgAlreadyRegistered)
			}
			return nil
		},
		Steps: []Step{
			{ID: StepName, Kind: KindText, Prompt: text("Пожалуйста, введите <b>название вашей организации</b>:")},
			{
				ID: StepLegalForm, Kind: KindChoice,
				Prompt:  echo("Название", string(StepName), "Выберите юридическую форму:"),
				Options: static(cat.LegalForms),
				Next: func(s *Session) StepID {
					if s.Get(string(StepLegalForm)) == catalog.SelfEmployed {
						return StepActivityField
					}
					return StepOKVED
				},
			},
			{
				ID: StepActivityField, Kind: KindText, Moderated: true,
				Prompt: echo("Юридическая форма", string(StepLegalForm), "Введите сферу вашей деятельности:"),
				Next:   func(*Session) StepID { return StepINN },
			},
			{
				ID: StepOKVED, Kind: KindText, Moderated: true,
				Prompt: echo("Юридическая форма", string(StepLegalForm), "Введите ОКВЭД вашей организации:"),
			},
			{
				ID: StepINN, Kind: KindText,
				Prompt: text("Введите ИНН вашей организации (10 или 12 цифр):"),
				Validate: func(ctx context.Context, _ *Session, value string) (string, error) {
					inn, err := catalog.NormalizeINN(value)
					if err != nil {
						return "", Reprompt(MsgINNFormat)
					}
					taken, err := svc.Registration.INNTaken(ctx, inn)
					if err != nil {
						return "", err
					}
					if taken {
						return "", Abort(MsgINNTaken)
					}
					return inn, nil
				},
			},
			{ID: StepPhone, Kind: KindText, Prompt: echo("ИНН", string(StepINN), "Введите контактный телефон (в формате +7XXXXXXXXXX):")},
			{ID: StepEmail, Kind: KindText, Prompt: echo("Телефон", string(StepPhone), "Введите email для связи:")},
			{ID: StepTelegram, Kind: KindText, Prompt: echo("Email", string(StepEmail), "Введите Telegram для связи (например, @username):")},
			{
				ID: StepDescription, Kind: KindText, Moderated: true,
				Prompt: echo("Telegram", string(StepTelegram), "Введите описание деятельности вашей организации:"),
			},
			{
				ID: StepTurnover, Kind: KindChoice,
				Prompt:  text("Описание сохранено.\n\nВыберите годовой оборот вашей компании:"),
				Options: static(cat.TurnoverRanges),
			},
			{
				ID: StepCanGive, Kind: KindMulti,
				Prompt:      text("<b>Что вы можете дать партнёрам?</b>\n\nВыберите все подходящие варианты:"),
				Options:     static(cat.CanGiveOptions),
				OtherPrompt: "Введите свой вариант того, что вы можете дать:",
			},
			{
				ID: StepNeed, Kind: KindMulti,
				Prompt:      text("<b>Что вам нужно от партнёров?</b>\n\nВыберите все подходящие варианты:"),
				Options:     static(cat.NeedOptions),
				OtherPrompt: "Введите свой вариант того, что вам нужно:",
			},
			{
				ID: StepInteractionFormat, Kind: KindChoice,
				Prompt:  text("Выберите формат взаимодействия:"),
				Options: static(cat.InteractionFormats),
			},
			{
				ID: StepCity, Kind: KindText, Optional: true,
				Prompt: echo("Формат", string(StepInteractionFormat), "Укажите город, в котором находится ваша организация (или 'нет'):"),
			},
			{
				ID: StepPartnershipType, Kind: KindChoice,
				Prompt:  text("Выберите тип партнёрства:"),
				Options: static(cat.PartnershipTypes),
			},
			{
				ID: StepConsent, Kind: KindConfirm,
				Prompt: echo("Тип партнёрства", string(StepPartnershipType),
					"Подтвердите согласие на обработку персональных данных\nв соответствии с ФЗ-152:"),
				DeclineMessage: MsgConsentDeclined,
			},
		},
		Complete: func(ctx context.Context, s *Session) (string, error) {
			_, _, err := svc.Registration.RegisterOrganization(ctx, s.Actor, organizationDraft(s))
			switch {
			case errors.Is(err, domain.ErrDuplicate):
				return "", Abort(MsgINNTaken)
			case errors.Is(err, domain.ErrConflict):
				return "", Abort(MsgAlreadyRegistered)
			case err != nil:
				return "", err
			}
			return MsgRegistrationDone, nil
		},
	}
}

func organizationDraft(s *Session) dto.OrganizationDraft {
	return dto.OrganizationDraft{
		Name:              s.Get(string(StepName)),
		LegalForm:         s.Get(string(StepLegalForm)),
		ActivityField:     s.Get(string(StepActivityField)),
		OKVED:             s.Get(string(StepOKVED)),
		INN:               s.Get(string(StepINN)),
		Phone:             s.Get(string(StepPhone)),
		Email:             s.Get(string(StepEmail)),
		Telegram:          s.Get(string(StepTelegram)),
		Description:       s.Get(string(StepDescription)),
		Turnover:          s.Get(string(StepTurnover)),
		CanGive:           s.List(string(StepCanGive)),
		Need:              s.List(string(StepNeed)),
		InteractionFormat: s.Get(string(StepInteractionFormat)),
		City:              s.Get(string(StepCity)),
		PartnershipType:   s.Get(string(StepPartnershipType)),
		GDPRConsent:       s.Get(string(StepConsent)) == OptionAccept,
	}
}

func mentorRegistrationFlow(svc Services) *Flow {
	return &Flow{
		Name:  FlowMentorRegistration,
		Title: "Регистрация наставника",
		Steps: []Step{
			{ID: StepName, Kind: KindText, Prompt: text("Введите ваше полное имя:")},
			{ID: StepExpertise, Kind: KindText, Prompt: echo("Имя", string(StepName), "Опишите вашу область экспертизы:")},
			{ID: StepExperience, Kind: KindText, Prompt: text("Экспертиза сохранена.\n\nОпишите ваш опыт работы:")},
			{ID: StepContactInfo, Kind: KindText, Prompt: text("Опыт сохранён.\n\nВведите ваши контактные данные для связи:")},
		},
		Complete: func(ctx context.Context, s *Session) (string, error) {
			_, err := svc.Registration.RegisterMentor(ctx, s.Actor, dto.MentorDraft{
				Name:        s.Get(string(StepName)),
				Expertise:   s.Get(string(StepExpertise)),
				Experience:  s.Get(string(StepExperience)),
				ContactInfo: s.Get(string(StepContactInfo)),
			})
			switch {
			case errors.Is(err, domain.ErrDuplicate):
				return "", Abort("Вы уже зарегистрированы как наставник.")
			case errors.Is(err, domain.ErrConflict):
				return "", Abort("Вы уже зарегистрированы как организация.")
			}
			if err != nil {
				return "", err
			}
			return MsgMentorDone, nil
		},
	}
}
