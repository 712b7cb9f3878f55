package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
)

type projectRepo struct{ base }

func (r projectRepo) Create(ctx context.Context, p *entity.Project) error {
	defer r.lock()()
	r.st().projects[p.ID] = *p
	return nil
}

func (r projectRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	defer r.lock()()
	p, ok := r.st().projects[id]
	if !ok {
		return nil, apperror.ErrProjectNotFound
	}
	return &p, nil
}

func (r projectRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	return r.FindByID(ctx, id)
}

func (r projectRepo) Patch(ctx context.Context, id uuid.UUID, patch entity.ProjectPatch) error {
	defer r.lock()()
	p, ok := r.st().projects[id]
	if !ok {
		return apperror.ErrProjectNotFound
	}
	p.Apply(patch)
	r.st().projects[id] = p
	return nil
}

func (r projectRepo) IncrementBidCount(ctx context.Context, id uuid.UUID) error {
	defer r.lock()()
	p, ok := r.st().projects[id]
	if !ok {
		return apperror.ErrProjectNotFound
	}
	p.BidCount++
	r.st().projects[id] = p
	return nil
}

type bidRepo struct{ base }

func (r bidRepo) Create(ctx context.Context, b *entity.Bid) error {
	defer r.lock()()
	for _, existing := range r.st().bids {
		if existing.ProjectID == b.ProjectID && existing.FreelancerID == b.FreelancerID {
			return apperror.ErrDuplicateBid
		}
	}
	r.st().bids[b.ID] = *b
	return nil
}

func (r bidRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bid, error) {
	defer r.lock()()
	b, ok := r.st().bids[id]
	if !ok {
		return nil, apperror.ErrBidNotFound
	}
	return &b, nil
}

func (r bidRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Bid, error) {
	return r.FindByID(ctx, id)
}

func (r bidRepo) ExistsForFreelancer(ctx context.Context, projectID, freelancerID uuid.UUID) (bool, error) {
	defer r.lock()()
	for _, b := range r.st().bids {
		if b.ProjectID == projectID && b.FreelancerID == freelancerID {
			return true, nil
		}
	}
	return false, nil
}

func (r bidRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]*entity.Bid, error) {
	defer r.lock()()
	var result []*entity.Bid
	for _, b := range r.st().bids {
		if b.ProjectID == projectID {
			b := b
			result = append(result, &b)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r bidRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status valueobject.BidStatus) error {
	defer r.lock()()
	b, ok := r.st().bids[id]
	if !ok {
		return apperror.ErrBidNotFound
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	r.st().bids[id] = b
	return nil
}

func (r bidRepo) RejectPending(ctx context.Context, projectID, exceptID uuid.UUID) ([]*entity.Bid, error) {
	defer r.lock()()
	now := time.Now()
	var rejected []*entity.Bid
	for id, b := range r.st().bids {
		if b.ProjectID != projectID || id == exceptID || b.Status != valueobject.BidStatusPending {
			continue
		}
		b.Status = valueobject.BidStatusRejected
		b.UpdatedAt = now
		r.st().bids[id] = b
		b := b
		rejected = append(rejected, &b)
	}
	return rejected, nil
}

type orderRepo struct{ base }

func (r orderRepo) Create(ctx context.Context, o *entity.Order) error {
	defer r.lock()()
	if o.BidID != nil {
		for _, existing := range r.st().orders {
			if existing.BidID != nil && *existing.BidID == *o.BidID {
				return apperror.ErrOrderAlreadyCreated
			}
		}
	}
	r.st().orders[o.ID] = *o
	return nil
}

func (r orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	defer r.lock()()
	o, ok := r.st().orders[id]
	if !ok {
		return nil, apperror.ErrOrderNotFound
	}
	return &o, nil
}

func (r orderRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	return r.FindByID(ctx, id)
}

func (r orderRepo) Patch(ctx context.Context, id uuid.UUID, patch entity.OrderPatch) error {
	defer r.lock()()
	o, ok := r.st().orders[id]
	if !ok {
		return apperror.ErrOrderNotFound
	}
	o.Apply(patch)
	r.st().orders[id] = o
	return nil
}

func (r orderRepo) List(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, int, error) {
	defer r.lock()()
	var all []*entity.Order
	for _, o := range r.st().orders {
		if filter.ParticipantID != uuid.Nil && o.ClientID != filter.ParticipantID && o.FreelancerID != filter.ParticipantID {
			continue
		}
		if filter.Status != "" && string(o.Status) != filter.Status {
			continue
		}
		o := o
		all = append(all, &o)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, filter.Limit, filter.Offset), len(all), nil
}

func (r orderRepo) ListStale(ctx context.Context, status valueobject.OrderStatus, before time.Time, limit int) ([]*entity.Order, error) {
	defer r.lock()()
	var result []*entity.Order
	for _, o := range r.st().orders {
		if o.Status == status && o.CreatedAt.Before(before) {
			o := o
			result = append(result, &o)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return paginate(result, limit, 0), nil
}

type milestoneRepo struct{ base }

func (r milestoneRepo) CreateBatch(ctx context.Context, milestones []*entity.Milestone) error {
	defer r.lock()()
	for _, m := range milestones {
		r.st().milestones[m.ID] = *m
	}
	return nil
}

func (r milestoneRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*entity.Milestone, error) {
	defer r.lock()()
	var result []*entity.Milestone
	for _, m := range r.st().milestones {
		if m.OrderID == orderID {
			m := m
			result = append(result, &m)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SortOrder < result[j].SortOrder })
	return result, nil
}

func (r milestoneRepo) ListByOrderForUpdate(ctx context.Context, orderID uuid.UUID) ([]*entity.Milestone, error) {
	return r.ListByOrder(ctx, orderID)
}

func (r milestoneRepo) CountByOrder(ctx context.Context, orderID uuid.UUID) (int, error) {
	defer r.lock()()
	count := 0
	for _, m := range r.st().milestones {
		if m.OrderID == orderID {
			count++
		}
	}
	return count, nil
}

func (r milestoneRepo) Patch(ctx context.Context, id uuid.UUID, patch entity.MilestonePatch) error {
	defer r.lock()()
	m, ok := r.st().milestones[id]
	if !ok {
		return apperror.ErrMilestoneNotFound
	}
	m.Apply(patch)
	r.st().milestones[id] = m
	return nil
}

type disputeRepo struct{ base }

func (r disputeRepo) Create(ctx context.Context, d *entity.Dispute) error {
	defer r.lock()()
	for _, existing := range r.st().disputes {
		if existing.OrderID == d.OrderID && existing.IsOpen() {
			return apperror.ErrAlreadyDisputed
		}
	}
	stored := *d
	stored.Evidence = append([]string(nil), d.Evidence...)
	r.st().disputes[d.ID] = stored
	return nil
}

func (r disputeRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Dispute, error) {
	defer r.lock()()
	d, ok := r.st().disputes[id]
	if !ok {
		return nil, apperror.ErrDisputeNotFound
	}
	d.Evidence = append([]string(nil), d.Evidence...)
	return &d, nil
}

func (r disputeRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Dispute, error) {
	return r.FindByID(ctx, id)
}

func (r disputeRepo) HasOpen(ctx context.Context, orderID uuid.UUID) (bool, error) {
	defer r.lock()()
	for _, d := range r.st().disputes {
		if d.OrderID == orderID && d.IsOpen() {
			return true, nil
		}
	}
	return false, nil
}

func (r disputeRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*entity.Dispute, error) {
	defer r.lock()()
	var result []*entity.Dispute
	for _, d := range r.st().disputes {
		if d.OrderID == orderID {
			d := d
			d.Evidence = append([]string(nil), d.Evidence...)
			result = append(result, &d)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r disputeRepo) Patch(ctx context.Context, id uuid.UUID, patch entity.DisputePatch) error {
	defer r.lock()()
	d, ok := r.st().disputes[id]
	if !ok {
		return apperror.ErrDisputeNotFound
	}
	d.Apply(patch)
	r.st().disputes[id] = d
	return nil
}

func (r disputeRepo) AppendEvidence(ctx context.Context, id uuid.UUID, ref string) error {
	defer r.lock()()
	d, ok := r.st().disputes[id]
	if !ok {
		return apperror.ErrDisputeNotFound
	}
	d.Evidence = append(append([]string(nil), d.Evidence...), ref)
	d.UpdatedAt = time.Now()
	r.st().disputes[id] = d
	return nil
}

type transactionRepo struct{ base }

func (r transactionRepo) Create(ctx context.Context, tx *entity.Transaction) error {
	defer r.lock()()
	r.st().transactions = append(r.st().transactions, *tx)
	return nil
}

func (r transactionRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]*entity.Transaction, error) {
	defer r.lock()()
	var result []*entity.Transaction
	for _, t := range r.st().transactions {
		if t.OrderID == orderID {
			t := t
			result = append(result, &t)
		}
	}
	return result, nil
}

func (r transactionRepo) ListByFreelancer(ctx context.Context, freelancerID uuid.UUID, limit, offset int) ([]*entity.Transaction, int, error) {
	defer r.lock()()
	var all []*entity.Transaction
	for i := len(r.st().transactions) - 1; i >= 0; i-- {
		t := r.st().transactions[i]
		if t.FreelancerID == freelancerID {
			all = append(all, &t)
		}
	}
	return paginate(all, limit, offset), len(all), nil
}

type userRepo struct{ base }

func (r userRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	defer r.lock()()
	u, ok := r.st().users[id]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}
	return &u, nil
}

func (r userRepo) RecordCompletedOrder(ctx context.Context, id uuid.UUID, earnings float64) error {
	defer r.lock()()
	u, ok := r.st().users[id]
	if !ok {
		u = entity.User{ID: id, Role: valueobject.RoleFreelancer, CreatedAt: time.Now()}
	}
	u.TotalOrders++
	u.TotalEarnings = valueobject.RoundMoney(u.TotalEarnings + earnings)
	u.UpdatedAt = time.Now()
	r.st().users[id] = u
	return nil
}

type gigRepo struct{ base }

func (r gigRepo) Create(ctx context.Context, g *entity.Gig) error {
	defer r.lock()()
	stored := *g
	stored.Packages = append([]entity.GigPackage(nil), g.Packages...)
	r.st().gigs[g.ID] = stored
	return nil
}

func (r gigRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	defer r.lock()()
	g, ok := r.st().gigs[id]
	if !ok {
		return nil, apperror.ErrGigNotFound
	}
	g.Packages = append([]entity.GigPackage(nil), g.Packages...)
	return &g, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
