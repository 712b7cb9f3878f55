package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
)

type disputeRow struct {
	ID                uuid.UUID                      `db:"id"`
	OrderID           uuid.UUID                      `db:"order_id"`
	OpenedBy          uuid.UUID                      `db:"opened_by"`
	Reason            string                         `db:"reason"`
	Description       string                         `db:"description"`
	Evidence          pq.StringArray                 `db:"evidence"`
	Status            valueobject.DisputeStatus      `db:"status"`
	OrderStatusBefore valueobject.OrderStatus        `db:"order_status_before"`
	Resolution        *valueobject.DisputeResolution `db:"resolution"`
	ResolutionNote    *string                        `db:"resolution_note"`
	ResolvedBy        *uuid.UUID                     `db:"resolved_by"`
	ResolvedAt        *time.Time                     `db:"resolved_at"`
	CreatedAt         time.Time                      `db:"created_at"`
	UpdatedAt         time.Time                      `db:"updated_at"`
}

func (r disputeRow) toEntity() *entity.Dispute {
	return &entity.Dispute{
		ID:                r.ID,
		OrderID:           r.OrderID,
		OpenedBy:          r.OpenedBy,
		Reason:            r.Reason,
		Description:       r.Description,
		Evidence:          []string(r.Evidence),
		Status:            r.Status,
		OrderStatusBefore: r.OrderStatusBefore,
		Resolution:        r.Resolution,
		ResolutionNote:    r.ResolutionNote,
		ResolvedBy:        r.ResolvedBy,
		ResolvedAt:        r.ResolvedAt,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

const disputeColumns = `id, order_id, opened_by, reason, description, evidence, status, order_status_before,
	resolution, resolution_note, resolved_by, resolved_at, created_at, updated_at`

// DisputeRepository споры по заказам. Не более одного открытого спора на заказ
// обеспечивает частичный индекс disputes_open_order_key.
type DisputeRepository struct {
	q sqlx.ExtContext
}

func (r *DisputeRepository) Create(ctx context.Context, d *entity.Dispute) error {
	query := `
		INSERT INTO disputes (` + disputeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.q.ExecContext(ctx, query,
		d.ID, d.OrderID, d.OpenedBy, d.Reason, d.Description, pq.Array(d.Evidence), d.Status, d.OrderStatusBefore,
		d.Resolution, d.ResolutionNote, d.ResolvedBy, d.ResolvedAt, d.CreatedAt, d.UpdatedAt,
	)
	if isUniqueViolation(err, "disputes_open_order_key") {
		return apperror.ErrAlreadyDisputed
	}
	if err != nil {
		return fmt.Errorf("dispute repository: create %w", err)
	}
	return nil
}

func (r *DisputeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Dispute, error) {
	return r.get(ctx, `SELECT `+disputeColumns+` FROM disputes WHERE id = $1`, id)
}

func (r *DisputeRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Dispute, error) {
	return r.get(ctx, `SELECT `+disputeColumns+` FROM disputes WHERE id = $1 FOR UPDATE`, id)
}

func (r *DisputeRepository) get(ctx context.Context, query string, id uuid.UUID) (*entity.Dispute, error) {
	row, err := getOne[disputeRow](ctx, r.q, apperror.ErrDisputeNotFound, query, id)
	if err != nil {
		return nil, err
	}
	return row.toEntity(), nil
}

func (r *DisputeRepository) HasOpen(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM disputes WHERE order_id = $1 AND status = $2)`
	if err := sqlx.GetContext(ctx, r.q, &exists, query, orderID, valueobject.DisputeStatusOpen); err != nil {
		return false, fmt.Errorf("dispute repository: has open %w", err)
	}
	return exists, nil
}

func (r *DisputeRepository) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*entity.Dispute, error) {
	var rows []disputeRow
	query := `SELECT ` + disputeColumns + ` FROM disputes WHERE order_id = $1 ORDER BY created_at`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, orderID); err != nil {
		return nil, fmt.Errorf("dispute repository: list by order %w", err)
	}
	result := make([]*entity.Dispute, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toEntity())
	}
	return result, nil
}

func (r *DisputeRepository) Patch(ctx context.Context, id uuid.UUID, patch entity.DisputePatch) error {
	var set setClause
	if patch.Status != nil {
		set.add("status", *patch.Status)
	}
	if patch.OrderStatusBefore != nil {
		set.add("order_status_before", *patch.OrderStatusBefore)
	}
	if patch.Resolution != nil {
		set.add("resolution", *patch.Resolution)
	}
	if patch.ResolutionNote != nil {
		set.add("resolution_note", *patch.ResolutionNote)
	}
	if patch.ResolvedBy != nil {
		set.add("resolved_by", *patch.ResolvedBy)
	}
	if patch.ResolvedAt != nil {
		set.add("resolved_at", *patch.ResolvedAt)
	}
	set.add("updated_at", patch.UpdatedAt)
	return set.update(ctx, r.q, "disputes", id, apperror.ErrDisputeNotFound)
}

func (r *DisputeRepository) AppendEvidence(ctx context.Context, id uuid.UUID, ref string) error {
	query := `UPDATE disputes SET evidence = array_append(evidence, $1), updated_at = NOW() WHERE id = $2`
	res, err := r.q.ExecContext(ctx, query, ref, id)
	if err != nil {
		return fmt.Errorf("dispute repository: append evidence %w", err)
	}
	return mustAffect(res, apperror.ErrDisputeNotFound)
}
