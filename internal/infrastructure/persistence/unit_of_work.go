// Package persistence реализация репозиториев поверх PostgreSQL (sqlx + lib/pq).
package persistence

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
)

// UnitOfWork открывает транзакцию на каждый вызов Do.
type UnitOfWork struct {
	db *sqlx.DB
}

func NewUnitOfWork(db *sqlx.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	return withTransaction(ctx, u.db, func(tx *sqlx.Tx) error {
		return fn(ctx, newRepositories(tx))
	})
}

func (u *UnitOfWork) Repositories() repository.Repositories {
	return newRepositories(u.db)
}

func newRepositories(q sqlx.ExtContext) repository.Repositories {
	return repository.Repositories{
		Projects:     &ProjectRepository{q: q},
		Bids:         &BidRepository{q: q},
		Orders:       &OrderRepository{q: q},
		Milestones:   &MilestoneRepository{q: q},
		Disputes:     &DisputeRepository{q: q},
		Transactions: &TransactionRepository{q: q},
		Users:        &UserRepository{q: q},
		Gigs:         &GigRepository{q: q},
	}
}

// withTransaction выполняет fn внутри транзакции, откатывая её при ошибке или панике.
func withTransaction(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("tx error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
