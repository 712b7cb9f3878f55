// Package memory хранилище в памяти процесса с семантикой UnitOfWork.
// Используется в тестах и локальном запуске без PostgreSQL.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
)

type state struct {
	projects     map[uuid.UUID]entity.Project
	bids         map[uuid.UUID]entity.Bid
	orders       map[uuid.UUID]entity.Order
	milestones   map[uuid.UUID]entity.Milestone
	disputes     map[uuid.UUID]entity.Dispute
	transactions []entity.Transaction
	users        map[uuid.UUID]entity.User
	gigs         map[uuid.UUID]entity.Gig
}

func newState() *state {
	return &state{
		projects:   make(map[uuid.UUID]entity.Project),
		bids:       make(map[uuid.UUID]entity.Bid),
		orders:     make(map[uuid.UUID]entity.Order),
		milestones: make(map[uuid.UUID]entity.Milestone),
		disputes:   make(map[uuid.UUID]entity.Dispute),
		users:      make(map[uuid.UUID]entity.User),
		gigs:       make(map[uuid.UUID]entity.Gig),
	}
}

// clone копирует карты. Значения неизменяемы после записи: репозитории
// всегда заменяют запись целиком, поэтому поверхностной копии достаточно.
func (s *state) clone() *state {
	c := &state{
		projects:     cloneMap(s.projects),
		bids:         cloneMap(s.bids),
		orders:       cloneMap(s.orders),
		milestones:   cloneMap(s.milestones),
		disputes:     cloneMap(s.disputes),
		transactions: append([]entity.Transaction(nil), s.transactions...),
		users:        cloneMap(s.users),
		gigs:         cloneMap(s.gigs),
	}
	return c
}

func cloneMap[V any](m map[uuid.UUID]V) map[uuid.UUID]V {
	c := make(map[uuid.UUID]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// Store реализует repository.UnitOfWork. Транзакции сериализуются одним мьютексом,
// при ошибке состояние откатывается к снимку.
type Store struct {
	mu   sync.Mutex
	data *state
}

func NewStore() *Store {
	return &Store{data: newState()}
}

func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	committed := false
	defer func() {
		if !committed {
			s.data = snapshot
		}
	}()

	if err := fn(ctx, s.repositories(true)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (s *Store) Repositories() repository.Repositories {
	return s.repositories(false)
}

func (s *Store) repositories(inTx bool) repository.Repositories {
	b := base{s: s, inTx: inTx}
	return repository.Repositories{
		Projects:     projectRepo{b},
		Bids:         bidRepo{b},
		Orders:       orderRepo{b},
		Milestones:   milestoneRepo{b},
		Disputes:     disputeRepo{b},
		Transactions: transactionRepo{b},
		Users:        userRepo{b},
		Gigs:         gigRepo{b},
	}
}

// PutUser добавляет или заменяет профиль пользователя.
func (s *Store) PutUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.users[u.ID] = u
}

type base struct {
	s    *Store
	inTx bool
}

// lock берёт мьютекс хранилища, если вызов сделан вне Do.
func (b base) lock() func() {
	if b.inTx {
		return func() {}
	}
	b.s.mu.Lock()
	return b.s.mu.Unlock
}

func (b base) st() *state {
	return b.s.data
}
