package dispute

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/logger"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
)

// EvidenceStore хранилище файлов-доказательств.
type EvidenceStore interface {
	Save(ctx context.Context, disputeID uuid.UUID, originalName string, r io.Reader) (string, int64, error)
	Delete(ctx context.Context, ref string) error
}

type AttachEvidenceInput struct {
	DisputeID uuid.UUID
	Actor     valueobject.Actor
	FileName  string
	Content   io.Reader
}

// AttachEvidenceUseCase - сторона открытого спора прикладывает файл.
type AttachEvidenceUseCase struct {
	uow   repository.UnitOfWork
	files EvidenceStore
}

func NewAttachEvidenceUseCase(uow repository.UnitOfWork, files EvidenceStore) *AttachEvidenceUseCase {
	return &AttachEvidenceUseCase{uow: uow, files: files}
}

func (uc *AttachEvidenceUseCase) Execute(ctx context.Context, in AttachEvidenceInput) (*entity.Dispute, error) {
	repos := uc.uow.Repositories()
	d, err := repos.Disputes.FindByID(ctx, in.DisputeID)
	if err != nil {
		return nil, apperror.Database(err, "не удалось получить спор")
	}
	o, err := repos.Orders.FindByID(ctx, d.OrderID)
	if err != nil {
		return nil, apperror.Database(err, "не удалось получить заказ")
	}
	if err := checkEvidence(o, d, in.Actor); err != nil {
		return nil, err
	}

	ref, _, err := uc.files.Save(ctx, d.ID, in.FileName, in.Content)
	if err != nil {
		return nil, apperror.Database(err, "не удалось сохранить файл")
	}

	var result *entity.Dispute
	err = uc.uow.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		locked, err := repos.Disputes.GetForUpdate(ctx, d.ID)
		if err != nil {
			return apperror.Database(err, "не удалось получить спор")
		}
		// Спор мог быть закрыт, пока загружался файл.
		if err := checkEvidence(o, locked, in.Actor); err != nil {
			return err
		}
		if err := repos.Disputes.AppendEvidence(ctx, locked.ID, ref); err != nil {
			return apperror.Database(err, "не удалось прикрепить файл")
		}
		locked.Evidence = append(locked.Evidence, ref)
		result = locked
		return nil
	})
	if err != nil {
		if delErr := uc.files.Delete(context.WithoutCancel(ctx), ref); delErr != nil {
			logger.WithComponent("evidence").WithError(delErr).WithField("ref", ref).Warn("не удалось удалить файл после ошибки")
		}
		return nil, err
	}
	return result, nil
}

func checkEvidence(o *entity.Order, d *entity.Dispute, actor valueobject.Actor) error {
	if !o.IsParticipant(actor.UserID) {
		return apperror.ErrNotParticipant
	}
	if !d.IsOpen() {
		return apperror.ErrDisputeAlreadyResolved
	}
	if len(d.Evidence) >= entity.MaxDisputeEvidence {
		return apperror.Validation("достигнут лимит вложений к спору")
	}
	return nil
}
