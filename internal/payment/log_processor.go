package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/freelance-orders/internal/logger"
)

// LogProcessor только пишет переводы в лог. Для development и тестовых стендов.
type LogProcessor struct{}

func (LogProcessor) Name() string { return "log" }

func (LogProcessor) Transfer(ctx context.Context, t Transfer) (string, error) {
	ref := "log-" + uuid.NewString()
	logger.WithComponent("payment").WithFields(logrus.Fields{
		"reference": t.ReferenceID,
		"order_id":  t.OrderID,
		"receiver":  t.Receiver,
		"amount":    t.Amount,
		"currency":  t.Currency,
		"transfer":  ref,
	}).Info("payment: перевод зарегистрирован")
	return ref, nil
}
