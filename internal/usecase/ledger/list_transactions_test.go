package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
	"github.com/ignatzorin/freelance-orders/internal/usecase/ledger"
	"github.com/ignatzorin/freelance-orders/internal/usecase/order"
	"github.com/ignatzorin/freelance-orders/internal/usecase/usecasetest"
)

func TestListTransactions(t *testing.T) {
	ctx := context.Background()
	f := usecasetest.New(t)
	o := f.SeedOrder(t, 500, valueobject.OrderStatusDelivered)
	_, err := order.NewApproveDeliveryUseCase(f.Store, f.Publisher).Execute(ctx, order.ActionInput{OrderID: o.ID, Actor: f.Client})
	require.NoError(t, err)

	uc := ledger.NewListTransactionsUseCase(f.Store)

	txs, total, err := uc.Execute(ctx, ledger.ListTransactionsInput{Actor: f.Freelancer})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, txs, 1)
	assert.InDelta(t, 440.0, txs[0].NetAmount, 0.001)

	_, total, err = uc.Execute(ctx, ledger.ListTransactionsInput{Actor: f.Client})
	require.NoError(t, err)
	assert.Zero(t, total)

	_, _, err = uc.Execute(ctx, ledger.ListTransactionsInput{Actor: f.Client, FreelancerID: f.Freelancer.UserID})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, total, err = uc.Execute(ctx, ledger.ListTransactionsInput{Actor: f.Admin, FreelancerID: f.Freelancer.UserID})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}
