package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
)

type orderRow struct {
	ID                 uuid.UUID                `db:"id"`
	ClientID           uuid.UUID                `db:"client_id"`
	FreelancerID       uuid.UUID                `db:"freelancer_id"`
	ProjectID          *uuid.UUID               `db:"project_id"`
	BidID              *uuid.UUID               `db:"bid_id"`
	GigID              *uuid.UUID               `db:"gig_id"`
	Title              string                   `db:"title"`
	Amount             float64                  `db:"amount"`
	Currency           string                   `db:"currency"`
	PlatformFee        float64                  `db:"platform_fee"`
	FreelancerEarnings float64                  `db:"freelancer_earnings"`
	DeliveryDays       int                      `db:"delivery_days"`
	Status             valueobject.OrderStatus  `db:"status"`
	EscrowStatus       valueobject.EscrowStatus `db:"escrow_status"`
	DeliveredAt        *time.Time               `db:"delivered_at"`
	CompletedAt        *time.Time               `db:"completed_at"`
	CreatedAt          time.Time                `db:"created_at"`
	UpdatedAt          time.Time                `db:"updated_at"`
}

func toOrders(rows []orderRow) []*entity.Order {
	orders := make([]*entity.Order, 0, len(rows))
	for _, row := range rows {
		o := entity.Order(row)
		orders = append(orders, &o)
	}
	return orders
}

const orderColumns = `id, client_id, freelancer_id, project_id, bid_id, gig_id, title, amount, currency,
	platform_fee, freelancer_earnings, delivery_days, status, escrow_status,
	delivered_at, completed_at, created_at, updated_at`

// OrderRepository заказы. Комиссия и доход исполнителя записываются один раз при создании.
type OrderRepository struct {
	q sqlx.ExtContext
}

func (r *OrderRepository) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	_, err := r.q.ExecContext(ctx, query,
		o.ID, o.ClientID, o.FreelancerID, o.ProjectID, o.BidID, o.GigID, o.Title, o.Amount, o.Currency,
		o.PlatformFee, o.FreelancerEarnings, o.DeliveryDays, o.Status, o.EscrowStatus,
		o.DeliveredAt, o.CompletedAt, o.CreatedAt, o.UpdatedAt,
	)
	if isUniqueViolation(err, "orders_bid_id_key") {
		return apperror.ErrOrderAlreadyCreated
	}
	if err != nil {
		return fmt.Errorf("order repository: create %w", err)
	}
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (r *OrderRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return r.get(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepository) get(ctx context.Context, query string, id uuid.UUID) (*entity.Order, error) {
	row, err := getOne[orderRow](ctx, r.q, apperror.ErrOrderNotFound, query, id)
	if err != nil {
		return nil, err
	}
	o := entity.Order(*row)
	return &o, nil
}

func (r *OrderRepository) Patch(ctx context.Context, id uuid.UUID, patch entity.OrderPatch) error {
	var set setClause
	if patch.Status != nil {
		set.add("status", *patch.Status)
	}
	if patch.EscrowStatus != nil {
		set.add("escrow_status", *patch.EscrowStatus)
	}
	if patch.DeliveredAt != nil {
		set.add("delivered_at", *patch.DeliveredAt)
	}
	if patch.CompletedAt != nil {
		set.add("completed_at", *patch.CompletedAt)
	}
	set.add("updated_at", patch.UpdatedAt)
	return set.update(ctx, r.q, "orders", id, apperror.ErrOrderNotFound)
}

func (r *OrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, int, error) {
	where := `
		WHERE ($1::uuid IS NULL OR client_id = $1 OR freelancer_id = $1)
		  AND ($2 = '' OR status = $2)
	`
	var participant *uuid.UUID
	if filter.ParticipantID != uuid.Nil {
		participant = &filter.ParticipantID
	}

	var total int
	if err := sqlx.GetContext(ctx, r.q, &total, `SELECT COUNT(*) FROM orders`+where, participant, filter.Status); err != nil {
		return nil, 0, fmt.Errorf("order repository: count %w", err)
	}

	var rows []orderRow
	query := `SELECT ` + orderColumns + ` FROM orders` + where + ` ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, participant, filter.Status, filter.Limit, filter.Offset); err != nil {
		return nil, 0, fmt.Errorf("order repository: list %w", err)
	}
	return toOrders(rows), total, nil
}

func (r *OrderRepository) ListStale(ctx context.Context, status valueobject.OrderStatus, before time.Time, limit int) ([]*entity.Order, error) {
	var rows []orderRow
	query := `
		SELECT ` + orderColumns + ` FROM orders
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at
		LIMIT $3
	`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, status, before, limit); err != nil {
		return nil, fmt.Errorf("order repository: list stale %w", err)
	}
	return toOrders(rows), nil
}
