package gig

import (
	"context"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/notify"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-orders/internal/usecase/order"
	"github.com/ignatzorin/freelance-orders/internal/usecase/outbox"
)

type CreateGigInput struct {
	Actor    valueobject.Actor
	Title    string
	Currency string
	Packages []entity.GigPackageDraft
}

// CreateGigUseCase - исполнитель публикует услугу с пакетами.
type CreateGigUseCase struct {
	uow repository.UnitOfWork
}

func NewCreateGigUseCase(uow repository.UnitOfWork) *CreateGigUseCase {
	return &CreateGigUseCase{uow: uow}
}

func (uc *CreateGigUseCase) Execute(ctx context.Context, in CreateGigInput) (*entity.Gig, error) {
	if in.Actor.Role != valueobject.RoleFreelancer {
		return nil, apperror.New(apperror.ErrCodeForbidden, "публиковать услуги могут только исполнители")
	}

	g, err := entity.NewGig(in.Actor.UserID, in.Title, in.Currency, in.Packages)
	if err != nil {
		return nil, err
	}
	err = uc.uow.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		return repos.Gigs.Create(ctx, g)
	})
	if err != nil {
		return nil, apperror.Database(err, "не удалось создать услугу")
	}
	return g, nil
}

type GetGigUseCase struct {
	gigs repository.GigRepository
}

func NewGetGigUseCase(uow repository.UnitOfWork) *GetGigUseCase {
	return &GetGigUseCase{gigs: uow.Repositories().Gigs}
}

func (uc *GetGigUseCase) Execute(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	g, err := uc.gigs.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Database(err, "не удалось получить услугу")
	}
	return g, nil
}

type PurchaseGigInput struct {
	GigID     uuid.UUID
	PackageID uuid.UUID
	Actor     valueobject.Actor
}

// PurchaseGigUseCase - клиент покупает пакет услуги, заказ создаётся через общую фабрику.
type PurchaseGigUseCase struct {
	uow       repository.UnitOfWork
	factory   *order.Factory
	publisher *outbox.Publisher
}

func NewPurchaseGigUseCase(uow repository.UnitOfWork, factory *order.Factory, publisher *outbox.Publisher) *PurchaseGigUseCase {
	return &PurchaseGigUseCase{uow: uow, factory: factory, publisher: publisher}
}

func (uc *PurchaseGigUseCase) Execute(ctx context.Context, in PurchaseGigInput) (*entity.Order, error) {
	var (
		out    outbox.Outbox
		result *entity.Order
	)
	err := uc.uow.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		g, err := repos.Gigs.FindByID(ctx, in.GigID)
		if err != nil {
			return apperror.Database(err, "не удалось получить услугу")
		}
		if g.FreelancerID == in.Actor.UserID {
			return apperror.ErrSelfPurchase
		}
		if !g.IsActive {
			return apperror.New(apperror.ErrCodeConflict, "услуга снята с публикации")
		}
		pkg, ok := g.Package(in.PackageID)
		if !ok {
			return apperror.ErrPackageNotFound
		}

		o, err := uc.factory.Create(ctx, repos.Orders, g.OrderDraft(in.Actor.UserID, pkg))
		if err != nil {
			return err
		}

		out.Notify(notify.OrderCreated(o)...)
		result = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(ctx, &out)
	return result, nil
}
