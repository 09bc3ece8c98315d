// Package conversation implementa la máquina de estados de los diálogos de varios pasos:
// registro, alta de recursos, noticias, contratos y mensajes de administración.
package conversation

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jhoicas/partnerhub/internal/application/dto"
	"github.com/jhoicas/partnerhub/internal/domain"
	"github.com/jhoicas/partnerhub/internal/domain/catalog"
	"github.com/jhoicas/partnerhub/pkg/logger"
)

// Mensajes comunes del engine.
const (
	MsgCancelled      = "Действие отменено."
	MsgChooseOption   = "Пожалуйста, выберите вариант из списка."
	MsgEmptyText      = "Пожалуйста, отправьте текстовое сообщение."
	MsgChooseAtLeast  = "Выберите хотя бы один вариант!"
	MsgBlockedContent = "❌ <b>Регистрация отклонена</b>\n\n" +
		"Ваша организация осуществляет деятельность, которая не подлежит регистрации на платформе согласно правилам:\n\n" +
		"• Игорный бизнес\n• Алкогольная продукция\n• Табачная продукция\n" +
		"• Деятельность, противоречащая законодательству РФ\n\n" +
		"Для уточнения информации обратитесь в поддержку."
)

var cancelTokens = []string{"отмена", "отменить", "/cancel"}

var skipTokens = []string{"нет", "-"}

// Input entrada atómica del actor. Step, si viene informado, debe coincidir con el paso actual
// (botones de mensajes antiguos); si no coincide la entrada se ignora.
type Input struct {
	Step   StepID
	Value  string
	Choice bool // el valor procede de un botón y no de texto libre
}

// Reply respuesta que el transporte debe presentar.
type Reply struct {
	Flow     FlowName
	Step     StepID
	Prompt   string
	Options  []Option
	Multi    bool
	Alert    string // aviso breve (p. ej. "Выберите хотя бы один вариант!")
	Terminal bool   // la conversación terminó (completada o abortada)
	Aborted  bool
	Ignored  bool
}

// Engine secuenciador de pasos por actor.
type Engine struct {
	store   SessionStore
	catalog *catalog.Catalog
	flows   map[FlowName]*Flow
	log     *logger.Logger
	now     func() time.Time
}

// NewEngine construye el engine y registra todos los flujos con sus servicios.
func NewEngine(store SessionStore, cat *catalog.Catalog, svc Services, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	e := &Engine{store: store, catalog: cat, flows: make(map[FlowName]*Flow), log: log, now: time.Now}
	for _, f := range buildFlows(cat, svc) {
		e.flows[f.Name] = f
	}
	return e
}

// Active devuelve el flujo y paso en curso del actor.
func (e *Engine) Active(actorID int64) (FlowName, StepID, bool) {
	s, ok := e.store.Get(actorID)
	if !ok {
		return "", "", false
	}
	return s.Flow, s.Step, true
}

// Start crea la sesión del actor para flow (reemplaza cualquier conversación previa).
// Los errores de Begin (permisos, estado) se devuelven tal cual, salvo los Rejection,
// que se convierten en una respuesta abortada con su mensaje.
func (e *Engine) Start(ctx context.Context, actor dto.Actor, flow FlowName, params map[string]string) (Reply, error) {
	f, ok := e.flows[flow]
	if !ok || len(f.Steps) == 0 {
		return Reply{}, fmt.Errorf("%w: flujo desconocido %q", domain.ErrInvalidInput, flow)
	}
	s := newSession(actor, flow, params, e.now())
	if f.Begin != nil {
		if err := f.Begin(ctx, s); err != nil {
			if r, ok := asRejection(err); ok {
				return Reply{Flow: flow, Prompt: r.Message, Terminal: true, Aborted: true}, nil
			}
			return Reply{}, err
		}
	}
	s.Step = f.Steps[0].ID
	reply, err := e.prompt(ctx, f, &f.Steps[0], s)
	if err != nil {
		return Reply{}, err
	}
	e.store.Put(s)
	if f.Title != "" {
		reply.Prompt = "<b>" + f.Title + "</b>\n\n" + reply.Prompt
	}
	e.log.Debug().Int64("actor", actor.TelegramID).Str("flow", string(flow)).Msg("conversación iniciada")
	return reply, nil
}

// Cancel elimina la conversación del actor.
func (e *Engine) Cancel(_ context.Context, actorID int64) {
	e.store.Delete(actorID)
}

// IsCancel indica si value es el token universal de cancelación.
func IsCancel(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	return slices.Contains(cancelTokens, v)
}

// Advance procesa una entrada del actor en el paso actual de su conversación.
// Devuelve domain.ErrNoSession si el actor no tiene conversación abierta.
func (e *Engine) Advance(ctx context.Context, actorID int64, in Input) (Reply, error) {
	s, ok := e.store.Get(actorID)
	if !ok {
		return Reply{}, domain.ErrNoSession
	}
	f, ok := e.flows[s.Flow]
	if !ok {
		e.store.Delete(actorID)
		return Reply{}, domain.ErrNoSession
	}
	if IsCancel(in.Value) {
		e.store.Delete(actorID)
		return Reply{Flow: s.Flow, Step: s.Step, Prompt: MsgCancelled, Terminal: true, Aborted: true}, nil
	}
	step, idx := f.step(s.Step)
	if step == nil {
		e.store.Delete(actorID)
		return Reply{}, fmt.Errorf("conversation: paso %q inexistente en %q", s.Step, s.Flow)
	}
	if (in.Step != "" && in.Step != s.Step) || (in.Choice && step.Kind == KindText) {
		reply, err := e.prompt(ctx, f, step, s)
		reply.Ignored = true
		return reply, err
	}

	work := s.Clone()
	res, err := e.apply(ctx, step, work, in)
	if err != nil {
		return Reply{}, err
	}
	switch res.kind {
	case resultStay:
		reply, err := e.prompt(ctx, f, step, s)
		reply.Alert = res.message
		return reply, err
	case resultAbort:
		e.store.Delete(actorID)
		e.log.Info().Int64("actor", actorID).Str("flow", string(s.Flow)).Str("step", string(s.Step)).Msg("conversación abortada")
		return Reply{Flow: s.Flow, Step: s.Step, Prompt: res.message, Terminal: true, Aborted: true}, nil
	case resultRefresh:
		e.store.Put(work)
		reply, err := e.prompt(ctx, f, step, work)
		reply.Alert = res.message
		return reply, err
	}

	next := f.next(work, step, idx)
	if next == "" {
		return e.complete(ctx, f, work)
	}
	nextStep, _ := f.step(next)
	if nextStep == nil {
		return Reply{}, fmt.Errorf("conversation: paso siguiente %q inexistente en %q", next, f.Name)
	}
	work.Step = next
	reply, err := e.prompt(ctx, f, nextStep, work)
	if err != nil {
		return Reply{}, err
	}
	e.store.Put(work)
	return reply, nil
}

func (e *Engine) complete(ctx context.Context, f *Flow, s *Session) (Reply, error) {
	actorID := s.Actor.TelegramID
	msg, err := f.Complete(ctx, s)
	e.store.Delete(actorID)
	if err != nil {
		if r, ok := asRejection(err); ok {
			return Reply{Flow: f.Name, Step: s.Step, Prompt: r.Message, Terminal: true, Aborted: true}, nil
		}
		e.log.Error().Err(err).Int64("actor", actorID).Str("flow", string(f.Name)).Msg("fallo al completar la conversación")
		return Reply{}, err
	}
	e.log.Info().Int64("actor", actorID).Str("flow", string(f.Name)).Msg("conversación completada")
	return Reply{Flow: f.Name, Step: s.Step, Prompt: msg, Terminal: true}, nil
}

type resultKind int

const (
	resultAdvance resultKind = iota
	resultStay
	resultAbort
	resultRefresh
)

type result struct {
	kind    resultKind
	message string
}

func (e *Engine) apply(ctx context.Context, step *Step, s *Session, in Input) (result, error) {
	raw := in.Value
	switch step.Kind {
	case KindChoice:
		return e.applyChoice(ctx, step, s, raw)
	case KindMulti:
		return e.applyMulti(ctx, step, s, raw, in.Choice)
	case KindConfirm:
		switch strings.TrimSpace(raw) {
		case OptionAccept:
			s.Set(string(step.ID), OptionAccept)
			return result{kind: resultAdvance}, nil
		case OptionDecline:
			return result{kind: resultAbort, message: step.DeclineMessage}, nil
		}
		return result{kind: resultStay, message: MsgChooseOption}, nil
	default:
		return e.applyText(ctx, step, s, raw)
	}
}

func (e *Engine) applyText(ctx context.Context, step *Step, s *Session, raw string) (result, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return result{kind: resultStay, message: MsgEmptyText}, nil
	}
	if step.Optional && slices.Contains(skipTokens, strings.ToLower(value)) {
		s.Set(string(step.ID), "")
		return result{kind: resultAdvance}, nil
	}
	if step.Moderated && e.catalog.IsBlocked(value) {
		return result{kind: resultAbort, message: MsgBlockedContent}, nil
	}
	if step.Validate != nil {
		v, err := step.Validate(ctx, s, value)
		if err != nil {
			return rejectionResult(err)
		}
		value = v
	}
	s.Set(string(step.ID), value)
	return result{kind: resultAdvance}, nil
}

func (e *Engine) applyChoice(ctx context.Context, step *Step, s *Session, raw string) (result, error) {
	value := strings.TrimSpace(raw)
	opts, err := step.Options(ctx, s)
	if err != nil {
		return result{}, err
	}
	if !slices.ContainsFunc(opts, func(o Option) bool { return o.Value == value }) {
		return result{kind: resultStay, message: MsgChooseOption}, nil
	}
	if step.Validate != nil {
		v, err := step.Validate(ctx, s, value)
		if err != nil {
			return rejectionResult(err)
		}
		value = v
	}
	s.Set(string(step.ID), value)
	return result{kind: resultAdvance}, nil
}

func (e *Engine) applyMulti(ctx context.Context, step *Step, s *Session, raw string, choice bool) (result, error) {
	key := string(step.ID)
	value := strings.TrimSpace(raw)
	if s.Pending == step.ID && choice {
		s.Pending = ""
	}
	if s.Pending == step.ID {
		if value == "" {
			return result{kind: resultStay, message: MsgEmptyText}, nil
		}
		if e.catalog.IsBlocked(value) {
			return result{kind: resultAbort, message: MsgBlockedContent}, nil
		}
		s.Pending = ""
		s.Append(key, value)
		return result{kind: resultRefresh, message: "Добавлено: " + value}, nil
	}
	switch value {
	case OptionDone:
		if len(s.List(key)) == 0 {
			return result{kind: resultStay, message: MsgChooseAtLeast}, nil
		}
		return result{kind: resultAdvance}, nil
	case OptionOther:
		s.Pending = step.ID
		return result{kind: resultRefresh}, nil
	}
	opts, err := step.Options(ctx, s)
	if err != nil {
		return result{}, err
	}
	known := slices.ContainsFunc(opts, func(o Option) bool { return o.Value == value })
	if !known && !slices.Contains(s.List(key), value) {
		return result{kind: resultStay, message: MsgChooseOption}, nil
	}
	if s.Toggle(key, value) {
		return result{kind: resultRefresh, message: "✅ " + value}, nil
	}
	return result{kind: resultRefresh, message: "❌ " + value}, nil
}

func rejectionResult(err error) (result, error) {
	r, ok := asRejection(err)
	if !ok {
		return result{}, err
	}
	if r.Abort {
		return result{kind: resultAbort, message: r.Message}, nil
	}
	return result{kind: resultStay, message: r.Message}, nil
}

// prompt construye la respuesta de un paso con sus opciones marcadas.
func (e *Engine) prompt(ctx context.Context, f *Flow, step *Step, s *Session) (Reply, error) {
	reply := Reply{Flow: f.Name, Step: step.ID}
	if step.Kind == KindMulti && s.Pending == step.ID {
		reply.Prompt = step.OtherPrompt
		return reply, nil
	}
	if step.Prompt != nil {
		reply.Prompt = step.Prompt(s)
	}
	switch step.Kind {
	case KindChoice:
		opts, err := step.Options(ctx, s)
		if err != nil {
			return Reply{}, err
		}
		reply.Options = opts
	case KindMulti:
		opts, err := step.Options(ctx, s)
		if err != nil {
			return Reply{}, err
		}
		reply.Multi = true
		reply.Options = multiOptions(opts, s.List(string(step.ID)))
	case KindConfirm:
		reply.Options = []Option{
			{Label: "✅ Согласен", Value: OptionAccept},
			{Label: "❌ Не согласен", Value: OptionDecline},
		}
	}
	return reply, nil
}

// multiOptions marca las opciones seleccionadas, añade las personalizadas y los centinelas.
func multiOptions(base []Option, selected []string) []Option {
	out := make([]Option, 0, len(base)+len(selected)+2)
	for _, o := range base {
		o.Selected = slices.Contains(selected, o.Value)
		out = append(out, o)
	}
	for _, v := range selected {
		if !slices.ContainsFunc(base, func(o Option) bool { return o.Value == v }) {
			out = append(out, Option{Label: v, Value: v, Selected: true})
		}
	}
	return append(out,
		Option{Label: "✏️ Другое", Value: OptionOther},
		Option{Label: "✅ Готово", Value: OptionDone},
	)
}
