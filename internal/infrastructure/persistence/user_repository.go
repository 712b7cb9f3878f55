package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
)

type userRow struct {
	ID            uuid.UUID        `db:"id"`
	Email         string           `db:"email"`
	DisplayName   string           `db:"display_name"`
	Role          valueobject.Role `db:"role"`
	PayoutAccount *string          `db:"payout_account"`
	TotalOrders   int              `db:"total_orders"`
	TotalEarnings float64          `db:"total_earnings"`
	CreatedAt     time.Time        `db:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at"`
}

// UserRepository профили и статистика исполнителей.
type UserRepository struct {
	q sqlx.ExtContext
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `
		SELECT id, email, display_name, role, payout_account, total_orders, total_earnings, created_at, updated_at
		FROM users WHERE id = $1
	`
	row, err := getOne[userRow](ctx, r.q, apperror.ErrUserNotFound, query, id)
	if err != nil {
		return nil, err
	}
	u := entity.User(*row)
	return &u, nil
}

// RecordCompletedOrder создаёт строку статистики, если профиля ещё нет.
func (r *UserRepository) RecordCompletedOrder(ctx context.Context, id uuid.UUID, earnings float64) error {
	query := `
		INSERT INTO users (id, role, total_orders, total_earnings)
		VALUES ($1, $2, 1, ROUND($3::numeric, 2))
		ON CONFLICT (id) DO UPDATE SET
			total_orders = users.total_orders + 1,
			total_earnings = ROUND(users.total_earnings + EXCLUDED.total_earnings, 2),
			updated_at = NOW()
	`
	if _, err := r.q.ExecContext(ctx, query, id, valueobject.RoleFreelancer, earnings); err != nil {
		return fmt.Errorf("user repository: record completed order %w", err)
	}
	return nil
}
