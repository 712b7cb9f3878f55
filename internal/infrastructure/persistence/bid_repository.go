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

type bidRow struct {
	ID           uuid.UUID             `db:"id"`
	ProjectID    uuid.UUID             `db:"project_id"`
	FreelancerID uuid.UUID             `db:"freelancer_id"`
	Amount       float64               `db:"amount"`
	Currency     string                `db:"currency"`
	DeliveryDays int                   `db:"delivery_days"`
	Pitch        string                `db:"pitch"`
	Status       valueobject.BidStatus `db:"status"`
	CreatedAt    time.Time             `db:"created_at"`
	UpdatedAt    time.Time             `db:"updated_at"`
}

func toBids(rows []bidRow) []*entity.Bid {
	bids := make([]*entity.Bid, 0, len(rows))
	for _, row := range rows {
		b := entity.Bid(row)
		bids = append(bids, &b)
	}
	return bids
}

const bidColumns = `id, project_id, freelancer_id, amount, currency, delivery_days, pitch, status, created_at, updated_at`

// BidRepository ставки исполнителей. Одна ставка на пару проект-исполнитель
// гарантируется индексом bids_project_freelancer_key.
type BidRepository struct {
	q sqlx.ExtContext
}

func (r *BidRepository) Create(ctx context.Context, b *entity.Bid) error {
	query := `
		INSERT INTO bids (` + bidColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.q.ExecContext(ctx, query,
		b.ID, b.ProjectID, b.FreelancerID, b.Amount, b.Currency, b.DeliveryDays,
		b.Pitch, b.Status, b.CreatedAt, b.UpdatedAt,
	)
	if isUniqueViolation(err, "bids_project_freelancer_key") {
		return apperror.ErrDuplicateBid
	}
	if err != nil {
		return fmt.Errorf("bid repository: create %w", err)
	}
	return nil
}

func (r *BidRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bid, error) {
	return r.get(ctx, `SELECT `+bidColumns+` FROM bids WHERE id = $1`, id)
}

func (r *BidRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Bid, error) {
	return r.get(ctx, `SELECT `+bidColumns+` FROM bids WHERE id = $1 FOR UPDATE`, id)
}

func (r *BidRepository) get(ctx context.Context, query string, id uuid.UUID) (*entity.Bid, error) {
	row, err := getOne[bidRow](ctx, r.q, apperror.ErrBidNotFound, query, id)
	if err != nil {
		return nil, err
	}
	b := entity.Bid(*row)
	return &b, nil
}

func (r *BidRepository) ExistsForFreelancer(ctx context.Context, projectID, freelancerID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM bids WHERE project_id = $1 AND freelancer_id = $2)`
	if err := sqlx.GetContext(ctx, r.q, &exists, query, projectID, freelancerID); err != nil {
		return false, fmt.Errorf("bid repository: exists %w", err)
	}
	return exists, nil
}

func (r *BidRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*entity.Bid, error) {
	var rows []bidRow
	query := `SELECT ` + bidColumns + ` FROM bids WHERE project_id = $1 ORDER BY created_at`
	if err := sqlx.SelectContext(ctx, r.q, &rows, query, projectID); err != nil {
		return nil, fmt.Errorf("bid repository: list by project %w", err)
	}
	return toBids(rows), nil
}

func (r *BidRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status valueobject.BidStatus) error {
	res, err := r.q.ExecContext(ctx, `UPDATE bids SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("bid repository: update status %w", err)
	}
	return mustAffect(res, apperror.ErrBidNotFound)
}

func (r *BidRepository) RejectPending(ctx context.Context, projectID, exceptID uuid.UUID) ([]*entity.Bid, error) {
	var rows []bidRow
	query := `
		UPDATE bids SET status = $1, updated_at = NOW()
		WHERE project_id = $2 AND id <> $3 AND status = $4
		RETURNING ` + bidColumns
	err := sqlx.SelectContext(ctx, r.q, &rows, query,
		valueobject.BidStatusRejected, projectID, exceptID, valueobject.BidStatusPending)
	if err != nil {
		return nil, fmt.Errorf("bid repository: reject pending %w", err)
	}
	return toBids(rows), nil
}
