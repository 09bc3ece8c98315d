// Package memory implementa todos los puertos de persistencia en memoria.
// Se usa con STORE_DRIVER=memory y en los tests de los casos de uso.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/partnerhub/internal/application/ports"
	"github.com/jhoicas/partnerhub/internal/domain/entity"
)

var _ ports.TxRunner = (*Store)(nil)

type state struct {
	users         map[string]entity.User
	organizations map[string]entity.Organization
	orgOrder      []string
	verifications map[string]entity.Verification
	likes         []entity.Like
	matches       map[string]entity.Match
	mentors       map[string]entity.Mentor
	resources     map[string]entity.Resource
	news          map[string]entity.News
	contracts     map[string]entity.Contract
	logs          []entity.Log
}

func newState() state {
	return state{
		users:         make(map[string]entity.User),
		organizations: make(map[string]entity.Organization),
		verifications: make(map[string]entity.Verification),
		matches:       make(map[string]entity.Match),
		mentors:       make(map[string]entity.Mentor),
		resources:     make(map[string]entity.Resource),
		news:          make(map[string]entity.News),
		contracts:     make(map[string]entity.Contract),
	}
}

func (s state) clone() state {
	return state{
		users:         maps.Clone(s.users),
		organizations: maps.Clone(s.organizations),
		orgOrder:      slices.Clone(s.orgOrder),
		verifications: maps.Clone(s.verifications),
		likes:         slices.Clone(s.likes),
		matches:       maps.Clone(s.matches),
		mentors:       maps.Clone(s.mentors),
		resources:     maps.Clone(s.resources),
		news:          maps.Clone(s.news),
		contracts:     maps.Clone(s.contracts),
		logs:          slices.Clone(s.logs),
	}
}

// Store almacén en memoria. Las transacciones se serializan y se revierten
// restaurando la instantánea tomada al empezar. Las escrituras fuera de Run
// también toman txMu, así un rollback nunca pisa cambios ajenos a la transacción.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	st   state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn en exclusiva. Si fn devuelve error el estado vuelve al de antes de la llamada.
// fn debe usar solo los repos recibidos: los del Store esperan a que termine la transacción.
func (s *Store) Run(ctx context.Context, fn func(repos ports.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.st.clone()
	s.mu.RUnlock()

	if err := fn(s.repositories(handle{s: s, tx: true})); err != nil {
		s.mu.Lock()
		s.st = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// Repositories devuelve los repos que operan sobre este almacén fuera de una transacción.
func (s *Store) Repositories() ports.Repositories {
	return s.repositories(handle{s: s})
}

func (s *Store) repositories(h handle) ports.Repositories {
	return ports.Repositories{
		Users:         &UserRepo{h},
		Organizations: &OrganizationRepo{h},
		Verifications: &VerificationRepo{h},
		Likes:         &LikeRepo{h},
		Matches:       &MatchRepo{h},
		Mentors:       &MentorRepo{h},
		Resources:     &ResourceRepo{h},
		News:          &NewsRepo{h},
		Contracts:     &ContractRepo{h},
		Logs:          &LogRepo{h},
	}
}

func (s *Store) Users() *UserRepo                 { return &UserRepo{handle{s: s}} }
func (s *Store) Organizations() *OrganizationRepo { return &OrganizationRepo{handle{s: s}} }
func (s *Store) Verifications() *VerificationRepo { return &VerificationRepo{handle{s: s}} }
func (s *Store) Likes() *LikeRepo                 { return &LikeRepo{handle{s: s}} }
func (s *Store) Matches() *MatchRepo              { return &MatchRepo{handle{s: s}} }
func (s *Store) Mentors() *MentorRepo             { return &MentorRepo{handle{s: s}} }
func (s *Store) Resources() *ResourceRepo         { return &ResourceRepo{handle{s: s}} }
func (s *Store) News() *NewsRepo                  { return &NewsRepo{handle{s: s}} }
func (s *Store) Contracts() *ContractRepo         { return &ContractRepo{handle{s: s}} }
func (s *Store) Logs() *LogRepo                   { return &LogRepo{handle{s: s}} }
func (s *Store) Stats() *StatsRepo                { return &StatsRepo{handle{s: s}} }

// handle acceso de un repo al almacén; tx indica que ya corre dentro de Run.
type handle struct {
	s  *Store
	tx bool
}

func (h handle) read(fn func(st *state)) { h.s.read(fn) }

func (h handle) write(fn func(st *state) error) error {
	if !h.tx {
		h.s.txMu.Lock()
		defer h.s.txMu.Unlock()
	}
	return h.s.write(fn)
}

func (s *Store) read(fn func(st *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.st)
}

func (s *Store) write(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.st)
}
