package conversation

import (
	"errors"
	"html"

	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/catalog"
)

// Mensajes de precondición compartidos por varios flujos.
const (
	MsgForbidden   = "❌ У вас нет доступа к этому действию."
	MsgNotVerified = "Эта функция доступна только верифицированным организациям."
	MsgNoProfile   = "Сначала зарегистрируйте организацию."
)

func buildFlows(cat *catalog.Catalog, svc Services) []*Flow {
	return []*Flow{
		orgRegistrationFlow(cat, svc),
		mentorRegistrationFlow(svc),
		addCourseFlow(svc),
		addCompetitionFlow(svc),
		createNewsFlow(svc),
		createContractFlow(svc),
		resourceQuestionFlow(svc),
		verificationMessageFlow(svc),
		addAdminFlow(svc),
	}
}

// refuse convierte los errores de dominio esperables en un aborto con mensaje visible.
// Cualquier otro error se devuelve sin cambios.
func refuse(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrUnauthorized):
		return Abort(MsgForbidden)
	case errors.Is(err, domain.ErrNotVerified):
		return Abort(MsgNotVerified)
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrNotFound):
		return Abort(MsgNoProfile)
	}
	return err
}

// choices convierte valores del catálogo en opciones cuyo valor es la propia etiqueta.
func choices(values []string) []Option {
	out := make([]Option, len(values))
	for i, v := range values {
		out[i] = Option{Label: v, Value: v}
	}
	return out
}

// echo repite el valor del campo anterior antes de la siguiente pregunta.
func echo(label, key, question string) func(*Session) string {
	return func(s *Session) string {
		return label + ": <b>" + html.EscapeString(s.Get(key)) + "</b>\n\n" + question
	}
}
