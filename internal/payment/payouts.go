package payment

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
	"github.com/ignatzorin/freelance-orders/internal/logger"
)

// Enqueuer фоновая очередь задач.
type Enqueuer interface {
	Enqueue(name string, fn func(ctx context.Context) error) bool
}

// PayoutService ставит выплаты в фоновую очередь и исполняет их через Processor.
type PayoutService struct {
	queue     Enqueuer
	processor Processor
	users     repository.UserRepository
}

func NewPayoutService(queue Enqueuer, processor Processor, users repository.UserRepository) *PayoutService {
	return &PayoutService{queue: queue, processor: processor, users: users}
}

func (s *PayoutService) RequestPayout(_ context.Context, req PayoutRequest) {
	s.queue.Enqueue("payout:"+s.processor.Name(), func(ctx context.Context) error {
		return s.execute(ctx, req)
	})
}

func (s *PayoutService) execute(ctx context.Context, req PayoutRequest) error {
	user, err := s.users.FindByID(ctx, req.FreelancerID)
	if err != nil {
		return fmt.Errorf("payment: не удалось получить исполнителя %s: %w", req.FreelancerID, err)
	}
	if user.PayoutAccount == nil || *user.PayoutAccount == "" {
		return fmt.Errorf("payment: у исполнителя %s не подключён аккаунт для выплат", req.FreelancerID)
	}

	ref, err := s.processor.Transfer(ctx, Transfer{
		ReferenceID: req.TransactionID,
		OrderID:     req.OrderID,
		Receiver:    *user.PayoutAccount,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Note:        req.Note,
	})
	if err != nil {
		return err
	}

	logger.WithComponent("payment").WithFields(logrus.Fields{
		"transaction_id": req.TransactionID,
		"order_id":       req.OrderID,
		"provider":       s.processor.Name(),
		"transfer":       ref,
	}).Info("payment: выплата отправлена провайдеру")
	return nil
}
