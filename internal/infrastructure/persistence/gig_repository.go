package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
)

type gigRow struct {
	ID           uuid.UUID `db:"id"`
	FreelancerID uuid.UUID `db:"freelancer_id"`
	Title        string    `db:"title"`
	Currency     string    `db:"currency"`
	IsActive     bool      `db:"is_active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type gigPackageRow struct {
	ID           uuid.UUID `db:"id"`
	GigID        uuid.UUID `db:"gig_id"`
	Name         string    `db:"name"`
	Price        float64   `db:"price"`
	DeliveryDays int       `db:"delivery_days"`
}

type GigRepository struct {
	q sqlx.ExtContext
}

func (r *GigRepository) Create(ctx context.Context, g *entity.Gig) error {
	query := `
		INSERT INTO gigs (id, freelancer_id, title, currency, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := r.q.ExecContext(ctx, query, g.ID, g.FreelancerID, g.Title, g.Currency, g.IsActive, g.CreatedAt, g.UpdatedAt); err != nil {
		return fmt.Errorf("gig repository: create %w", err)
	}
	if len(g.Packages) == 0 {
		return nil
	}

	packages := make([]gigPackageRow, 0, len(g.Packages))
	for _, p := range g.Packages {
		packages = append(packages, gigPackageRow(p))
	}
	pkgQuery := `
		INSERT INTO gig_packages (id, gig_id, name, price, delivery_days)
		VALUES (:id, :gig_id, :name, :price, :delivery_days)
	`
	if _, err := sqlx.NamedExecContext(ctx, r.q, pkgQuery, packages); err != nil {
		return fmt.Errorf("gig repository: create packages %w", err)
	}
	return nil
}

func (r *GigRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	query := `SELECT id, freelancer_id, title, currency, is_active, created_at, updated_at FROM gigs WHERE id = $1`
	row, err := getOne[gigRow](ctx, r.q, apperror.ErrGigNotFound, query, id)
	if err != nil {
		return nil, err
	}

	var packages []gigPackageRow
	pkgQuery := `SELECT id, gig_id, name, price, delivery_days FROM gig_packages WHERE gig_id = $1 ORDER BY price`
	if err := sqlx.SelectContext(ctx, r.q, &packages, pkgQuery, id); err != nil {
		return nil, fmt.Errorf("gig repository: get packages %w", err)
	}

	g := &entity.Gig{
		ID:           row.ID,
		FreelancerID: row.FreelancerID,
		Title:        row.Title,
		Currency:     row.Currency,
		IsActive:     row.IsActive,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	for _, p := range packages {
		g.Packages = append(g.Packages, entity.GigPackage(p))
	}
	return g, nil
}
