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

type projectRow struct {
	ID                   uuid.UUID                 `db:"id"`
	ClientID             uuid.UUID                 `db:"client_id"`
	Title                string                    `db:"title"`
	Description          string                    `db:"description"`
	Currency             string                    `db:"currency"`
	Status               valueobject.ProjectStatus `db:"status"`
	SelectedFreelancerID *uuid.UUID                `db:"selected_freelancer_id"`
	BidCount             int                       `db:"bid_count"`
	CreatedAt            time.Time                 `db:"created_at"`
	UpdatedAt            time.Time                 `db:"updated_at"`
}

func (r projectRow) toEntity() *entity.Project {
	p := entity.Project(r)
	return &p
}

const projectColumns = `id, client_id, title, description, currency, status, selected_freelancer_id, bid_count, created_at, updated_at`

// ProjectRepository проекты клиентов.
type ProjectRepository struct {
	q sqlx.ExtContext
}

func (r *ProjectRepository) Create(ctx context.Context, p *entity.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := r.q.ExecContext(ctx, query,
		p.ID, p.ClientID, p.Title, p.Description, p.Currency, p.Status,
		p.SelectedFreelancerID, p.BidCount, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("project repository: create %w", err)
	}
	return nil
}

func (r *ProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	return r.get(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
}

func (r *ProjectRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	return r.get(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1 FOR UPDATE`, id)
}

func (r *ProjectRepository) get(ctx context.Context, query string, id uuid.UUID) (*entity.Project, error) {
	row, err := getOne[projectRow](ctx, r.q, apperror.ErrProjectNotFound, query, id)
	if err != nil {
		return nil, err
	}
	return row.toEntity(), nil
}

func (r *ProjectRepository) Patch(ctx context.Context, id uuid.UUID, patch entity.ProjectPatch) error {
	var set setClause
	if patch.Status != nil {
		set.add("status", *patch.Status)
	}
	if patch.SelectedFreelancerID != nil {
		set.add("selected_freelancer_id", *patch.SelectedFreelancerID)
	}
	set.add("updated_at", patch.UpdatedAt)
	return set.update(ctx, r.q, "projects", id, apperror.ErrProjectNotFound)
}

func (r *ProjectRepository) IncrementBidCount(ctx context.Context, id uuid.UUID) error {
	res, err := r.q.ExecContext(ctx, `UPDATE projects SET bid_count = bid_count + 1, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("project repository: increment bid count %w", err)
	}
	return mustAffect(res, apperror.ErrProjectNotFound)
}
