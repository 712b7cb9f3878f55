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

type milestoneRow struct {
	ID          uuid.UUID                   `db:"id"`
	OrderID     uuid.UUID                   `db:"order_id"`
	Title       string                      `db:"title"`
	Amount      float64                     `db:"amount"`
	Status      valueobject.MilestoneStatus `db:"status"`
	SortOrder   int                         `db:"sort_order"`
	DeliveredAt *time.Time                  `db:"delivered_at"`
	ApprovedAt  *time.Time                  `db:"approved_at"`
	CreatedAt   time.Time                   `db:"created_at"`
	UpdatedAt   time.Time                   `db:"updated_at"`
}

const milestoneColumns = `id, order_id, title, amount, status, sort_order, delivered_at, approved_at, created_at, updated_at`

type MilestoneRepository struct {
	q sqlx.ExtContext
}

// CreateBatch вставляет весь план одним запросом.
func (r *MilestoneRepository) CreateBatch(ctx context.Context, milestones []*entity.Milestone) error {
	if len(milestones) == 0 {
		return nil
	}
	rows := make([]milestoneRow, 0, len(milestones))
	for _, m := range milestones {
		rows = append(rows, milestoneRow(*m))
	}
	query := `
		INSERT INTO milestones (` + milestoneColumns + `)
		VALUES (:id, :order_id, :title, :amount, :status, :sort_order, :delivered_at, :approved_at, :created_at, :updated_at)
	`
	if _, err := sqlx.NamedExecContext(ctx, r.q, query, rows); err != nil {
		return fmt.Errorf("milestone repository: create batch %w", err)
	}
	return nil
}

func (r *MilestoneRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*entity.Milestone, error) {
	return r.list(ctx, `SELECT `+milestoneColumns+` FROM milestones WHERE order_id = $1 ORDER BY sort_order`, orderID)
}

func (r *MilestoneRepository) ListByOrderForUpdate(ctx context.Context, orderID uuid.UUID) ([]*entity.Milestone, error) {
	return r.list(ctx, `SELECT `+milestoneColumns+` FROM milestones WHERE order_id = $1 ORDER BY sort_order FOR UPDATE`, orderID)
}

func (r *MilestoneRepository) list(ctx context.Context, query string, orderID uuid.UUID) ([]*entity.Milestone, error) {
	var rows []milestoneRow
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, orderID); err != nil {
		return nil, fmt.Errorf("milestone repository: list %w", err)
	}
	result := make([]*entity.Milestone, 0, len(rows))
	for _, row := range rows {
		m := entity.Milestone(row)
		result = append(result, &m)
	}
	return result, nil
}

func (r *MilestoneRepository) CountByOrder(ctx context.Context, orderID uuid.UUID) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.q, &count, `SELECT COUNT(*) FROM milestones WHERE order_id = $1`, orderID); err != nil {
		return 0, fmt.Errorf("milestone repository: count %w", err)
	}
	return count, nil
}

func (r *MilestoneRepository) Patch(ctx context.Context, id uuid.UUID, patch entity.MilestonePatch) error {
	var set setClause
	if patch.Status != nil {
		set.add("status", *patch.Status)
	}
	if patch.DeliveredAt != nil {
		set.add("delivered_at", *patch.DeliveredAt)
	}
	if patch.ApprovedAt != nil {
		set.add("approved_at", *patch.ApprovedAt)
	}
	set.add("updated_at", patch.UpdatedAt)
	return set.update(ctx, r.q, "milestones", id, apperror.ErrMilestoneNotFound)
}
