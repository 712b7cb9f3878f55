package project

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/notify"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-orders/internal/usecase/outbox"
)

type CreateProjectInput struct {
	Actor       valueobject.Actor
	Title       string
	Description string
	Currency    string
}

// CreateProjectUseCase - клиент публикует проект для сбора ставок.
type CreateProjectUseCase struct {
	projects repository.ProjectRepository
}

func NewCreateProjectUseCase(uow repository.UnitOfWork) *CreateProjectUseCase {
	return &CreateProjectUseCase{projects: uow.Repositories().Projects}
}

func (uc *CreateProjectUseCase) Execute(ctx context.Context, in CreateProjectInput) (*entity.Project, error) {
	if in.Actor.Role != valueobject.RoleClient {
		return nil, apperror.New(apperror.ErrCodeForbidden, "публиковать проекты могут только клиенты")
	}

	p, err := entity.NewProject(in.Actor.UserID, in.Title, in.Description, in.Currency)
	if err != nil {
		return nil, err
	}
	if err := uc.projects.Create(ctx, p); err != nil {
		return nil, apperror.Database(err, "не удалось создать проект")
	}
	return p, nil
}

type GetProjectUseCase struct {
	projects repository.ProjectRepository
}

func NewGetProjectUseCase(uow repository.UnitOfWork) *GetProjectUseCase {
	return &GetProjectUseCase{projects: uow.Repositories().Projects}
}

func (uc *GetProjectUseCase) Execute(ctx context.Context, id uuid.UUID) (*entity.Project, error) {
	p, err := uc.projects.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Database(err, "не удалось получить проект")
	}
	return p, nil
}

// CloseProjectUseCase - клиент снимает открытый проект. Все ожидающие ставки
// отклоняются, их авторы получают уведомление.
type CloseProjectUseCase struct {
	uow       repository.UnitOfWork
	publisher *outbox.Publisher
}

func NewCloseProjectUseCase(uow repository.UnitOfWork, publisher *outbox.Publisher) *CloseProjectUseCase {
	return &CloseProjectUseCase{uow: uow, publisher: publisher}
}

func (uc *CloseProjectUseCase) Execute(ctx context.Context, projectID uuid.UUID, actor valueobject.Actor) (*entity.Project, error) {
	var (
		out    outbox.Outbox
		result *entity.Project
	)
	err := uc.uow.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		p, err := repos.Projects.GetForUpdate(ctx, projectID)
		if err != nil {
			return apperror.Database(err, "не удалось получить проект")
		}
		if !p.IsOwnedBy(actor.UserID) {
			return apperror.ErrForbidden
		}
		if !p.IsOpen() {
			return apperror.ErrProjectNotOpen
		}

		patch, err := p.Close(time.Now())
		if err != nil {
			return err
		}
		if err := repos.Projects.Patch(ctx, p.ID, patch); err != nil {
			return apperror.Database(err, "не удалось закрыть проект")
		}

		rejected, err := repos.Bids.RejectPending(ctx, p.ID, uuid.Nil)
		if err != nil {
			return apperror.Database(err, "не удалось отклонить ставки")
		}
		for _, b := range rejected {
			out.Notify(notify.ProjectClosed(p, b))
		}

		result = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(ctx, &out)
	return result, nil
}
