package usecase

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/partnerhub/internal/application/dto"
	"github.com/jhoicas/partnerhub/internal/application/notify"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
	"github.com/jhoicas/partnerhub/internal/domain/repository"
)

// questionLogLength caracteres de la pregunta que se guardan en la auditoría.
const questionLogLength = 100

// QuestionUseCase preguntas al centro de recursos, reenviadas a los administradores.
type QuestionUseCase struct {
	users    repository.UserRepository
	logs     repository.LogRepository
	notifier *notify.Dispatcher
	ownerTG  int64
	now      func() time.Time
}

// NewQuestionUseCase construye el caso de uso.
func NewQuestionUseCase(users repository.UserRepository, logs repository.LogRepository, notifier *notify.Dispatcher, ownerTelegramID int64) *QuestionUseCase {
	return &QuestionUseCase{users: users, logs: logs, notifier: notifier, ownerTG: ownerTelegramID, now: time.Now}
}

// Ask registra la pregunta y la reenvía al owner y a los administradores.
func (uc *QuestionUseCase) Ask(ctx context.Context, actor dto.Actor, question string) error {
	var userID *string
	u, err := uc.users.GetByTelegramID(ctx, actor.TelegramID)
	if err != nil {
		return fmt.Errorf("pregunta: obtener usuario: %w", err)
	}
	if u != nil {
		userID = &u.ID
	}
	short := []rune(question)
	if len(short) > questionLogLength {
		short = short[:questionLogLength]
	}
	if err := uc.logs.Create(ctx, &entity.Log{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    entity.ActionResourceQuestion,
		Details:   map[string]any{"question": string(short)},
		CreatedAt: uc.now(),
	}); err != nil {
		return fmt.Errorf("pregunta: registrar log: %w", err)
	}
	recipients, err := staffRecipients(ctx, uc.users, uc.ownerTG)
	if err != nil {
		return nil
	}
	from := actor.FullName
	if actor.Username != "" {
		from += " (@" + actor.Username + ")"
	}
	uc.notifier.Broadcast(ctx, recipients, fmt.Sprintf(
		"❓ <b>Вопрос в ресурсный центр</b>\n\nОт: %s\nTelegram ID: %d\n\n%s",
		html.EscapeString(from), actor.TelegramID, html.EscapeString(question),
	))
	return nil
}
