package conversation

import (
	"context"
	"errors"
)

// FlowName nombre de un diálogo.
type FlowName string

// Flujos disponibles.
const (
	FlowOrgRegistration     FlowName = "org_registration"
	FlowMentorRegistration  FlowName = "mentor_registration"
	FlowAddCourse           FlowName = "add_course"
	FlowAddCompetition      FlowName = "add_competition"
	FlowCreateNews          FlowName = "create_news"
	FlowCreateContract      FlowName = "create_contract"
	FlowResourceQuestion    FlowName = "resource_question"
	FlowVerificationMessage FlowName = "verification_message"
	FlowAddAdmin            FlowName = "add_admin"
)

// StepID identificador de un paso dentro de su flujo.
type StepID string

// StepKind tipo de entrada que espera un paso.
type StepKind int

const (
	KindText    StepKind = iota // texto libre
	KindChoice                  // una opción del conjunto
	KindMulti                   // selección múltiple con "другое" y "готово"
	KindConfirm                 // aceptar / rechazar
)

// Valores centinela de los pasos de selección múltiple y confirmación.
const (
	OptionOther   = "other"
	OptionDone    = "done"
	OptionAccept  = "accept"
	OptionDecline = "decline"
)

// Option opción que el transporte presenta como botón.
type Option struct {
	Label    string
	Value    string
	Selected bool
}

// Step definición declarativa de un paso.
type Step struct {
	ID   StepID
	Kind StepKind
	// Prompt texto que se muestra al entrar en el paso.
	Prompt func(s *Session) string
	// Options conjunto enumerado (KindChoice, KindMulti).
	Options func(ctx context.Context, s *Session) ([]Option, error)
	// Optional acepta la palabra "нет" o "-" como valor vacío (KindText).
	Optional bool
	// Moderated aplica la lista de bloqueo; una coincidencia aborta la conversación.
	Moderated bool
	// Validate normaliza el valor; devuelve Reprompt o Abort para rechazarlo.
	Validate func(ctx context.Context, s *Session, value string) (string, error)
	// Next paso siguiente; nil = el siguiente en el orden del flujo.
	Next func(s *Session) StepID
	// OtherPrompt texto del subpaso "другое" (KindMulti).
	OtherPrompt string
	// DeclineMessage mensaje al rechazar (KindConfirm).
	DeclineMessage string
}

// Flow diálogo con nombre: secuencia de pasos y efecto final.
type Flow struct {
	Name  FlowName
	Title string
	Steps []Step
	// Begin precondición (permisos, estado del actor) evaluada al iniciar.
	Begin func(ctx context.Context, s *Session) error
	// Complete efecto del paso terminal; devuelve el mensaje final.
	Complete func(ctx context.Context, s *Session) (string, error)
}

func (f *Flow) step(id StepID) (*Step, int) {
	for i := range f.Steps {
		if f.Steps[i].ID == id {
			return &f.Steps[i], i
		}
	}
	return nil, -1
}

func (f *Flow) next(s *Session, current *Step, idx int) StepID {
	if current.Next != nil {
		return current.Next(s)
	}
	if idx+1 < len(f.Steps) {
		return f.Steps[idx+1].ID
	}
	return ""
}

// Rejection rechazo de una entrada con mensaje visible para el actor.
type Rejection struct {
	Message string
	Abort   bool // true: se termina toda la conversación
}

func (r *Rejection) Error() string { return r.Message }

// Reprompt rechaza la entrada y repite el mismo paso sin cambiar el estado.
func Reprompt(msg string) error { return &Rejection{Message: msg} }

// Abort termina la conversación sin persistir nada.
func Abort(msg string) error { return &Rejection{Message: msg, Abort: true} }

func asRejection(err error) (*Rejection, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r, true
	}
	return nil, false
}

func text(msg string) func(*Session) string {
	return func(*Session) string { return msg }
}
