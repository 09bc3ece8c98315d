package conversation

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jhoicas/partnerhub/internal/application/dto"
)

// Session estado transitorio de una conversación, indexado por actor.
// Nunca se persiste: se crea al entrar en el primer paso y se destruye al completar o cancelar.
type Session struct {
	Actor  dto.Actor
	Flow   FlowName
	Step   StepID
	Fields map[string]string
	Lists  map[string][]string
	Params map[string]string
	// Pending paso de selección múltiple que espera el texto de la opción "другое".
	Pending   StepID
	StartedAt time.Time
	UpdatedAt time.Time
}

func newSession(actor dto.Actor, flow FlowName, params map[string]string, now time.Time) *Session {
	p := make(map[string]string, len(params))
	maps.Copy(p, params)
	return &Session{
		Actor:     actor,
		Flow:      flow,
		Fields:    make(map[string]string),
		Lists:     make(map[string][]string),
		Params:    p,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// Clone copia profunda; el engine trabaja sobre la copia y solo la guarda si el paso avanza.
func (s *Session) Clone() *Session {
	c := *s
	c.Fields = maps.Clone(s.Fields)
	c.Params = maps.Clone(s.Params)
	c.Lists = make(map[string][]string, len(s.Lists))
	for k, v := range s.Lists {
		c.Lists[k] = slices.Clone(v)
	}
	return &c
}

// Get valor de un campo de texto.
func (s *Session) Get(key string) string { return s.Fields[key] }

// Set guarda un campo de texto.
func (s *Session) Set(key, value string) { s.Fields[key] = value }

// List valores acumulados de una selección múltiple, en orden de inserción.
func (s *Session) List(key string) []string { return s.Lists[key] }

// Toggle añade value a la lista o lo quita si ya estaba. Devuelve true si quedó seleccionado.
func (s *Session) Toggle(key, value string) bool {
	list := s.Lists[key]
	if i := slices.Index(list, value); i >= 0 {
		s.Lists[key] = slices.Delete(list, i, i+1)
		return false
	}
	s.Lists[key] = append(list, value)
	return true
}

// Append añade value al final de la lista si no estaba.
func (s *Session) Append(key, value string) {
	if !slices.Contains(s.Lists[key], value) {
		s.Lists[key] = append(s.Lists[key], value)
	}
}

// SessionStore almacén de sesiones por actor.
type SessionStore interface {
	Get(actorID int64) (*Session, bool)
	Put(s *Session)
	Delete(actorID int64)
}

// MemoryStore SessionStore en memoria con expiración opcional.
// Con ttl == 0 una conversación abandonada no expira nunca.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore construye el almacén. ttl <= 0 desactiva la expiración.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{sessions: make(map[int64]*Session), ttl: ttl, now: time.Now}
}

// Get devuelve la sesión del actor; las expiradas se eliminan al consultarlas.
func (m *MemoryStore) Get(actorID int64) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[actorID]
	if !ok {
		return nil, false
	}
	if m.ttl > 0 && m.now().Sub(s.UpdatedAt) > m.ttl {
		delete(m.sessions, actorID)
		return nil, false
	}
	return s.Clone(), true
}

// Put guarda (o reemplaza) la sesión del actor.
func (m *MemoryStore) Put(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := s.Clone()
	c.UpdatedAt = m.now()
	m.sessions[s.Actor.TelegramID] = c
}

// Delete elimina la sesión del actor.
func (m *MemoryStore) Delete(actorID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, actorID)
}

// Len número de conversaciones abiertas.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
