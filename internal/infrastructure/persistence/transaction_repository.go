package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
)

type transactionRow struct {
	ID           uuid.UUID                   `db:"id"`
	OrderID      uuid.UUID                   `db:"order_id"`
	MilestoneID  *uuid.UUID                  `db:"milestone_id"`
	FreelancerID uuid.UUID                   `db:"freelancer_id"`
	Type         valueobject.TransactionType `db:"type"`
	Amount       float64                     `db:"amount"`
	Fee          float64                     `db:"fee"`
	NetAmount    float64                     `db:"net_amount"`
	Currency     string                      `db:"currency"`
	Description  string                      `db:"description"`
	CreatedAt    time.Time                   `db:"created_at"`
}

func toTransactions(rows []transactionRow) []*entity.Transaction {
	result := make([]*entity.Transaction, 0, len(rows))
	for _, row := range rows {
		t := entity.Transaction(row)
		result = append(result, &t)
	}
	return result
}

const transactionColumns = `id, order_id, milestone_id, freelancer_id, type, amount, fee, net_amount, currency, description, created_at`

// TransactionRepository журнал выплат. Записи не изменяются и не удаляются.
type TransactionRepository struct {
	q sqlx.ExtContext
}

func (r *TransactionRepository) Create(ctx context.Context, t *entity.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.q.ExecContext(ctx, query,
		t.ID, t.OrderID, t.MilestoneID, t.FreelancerID, t.Type, t.Amount, t.Fee, t.NetAmount,
		t.Currency, t.Description, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("transaction repository: create %w", err)
	}
	return nil
}

func (r *TransactionRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*entity.Transaction, error) {
	var rows []transactionRow
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE order_id = $1 ORDER BY created_at`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, orderID); err != nil {
		return nil, fmt.Errorf("transaction repository: list by order %w", err)
	}
	return toTransactions(rows), nil
}

func (r *TransactionRepository) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]*entity.Transaction, int, error) {
	var total int
	if err := sqlx.GetContext(ctx, r.q, &total, `SELECT COUNT(*) FROM transactions WHERE freelancer_id = $1`, freelancerID); err != nil {
		return nil, 0, fmt.Errorf("transaction repository: count %w", err)
	}

	var rows []transactionRow
	query := `
		SELECT ` + transactionColumns + ` FROM transactions
		WHERE freelancer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, freelancerID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("transaction repository: list by freelancer %w", err)
	}
	return toTransactions(rows), total, nil
}
