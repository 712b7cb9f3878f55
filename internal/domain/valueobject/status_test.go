package valueobject

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusActive))
	assert.True(t, OrderStatusActive.CanTransitionTo(OrderStatusDelivered))
	assert.True(t, OrderStatusDelivered.CanTransitionTo(OrderStatusRevision))
	assert.True(t, OrderStatusRevision.CanTransitionTo(OrderStatusDelivered))
	assert.True(t, OrderStatusDelivered.CanTransitionTo(OrderStatusCompleted))

	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusCompleted))
	assert.False(t, OrderStatusCompleted.CanTransitionTo(OrderStatusDisputed))
	assert.False(t, OrderStatusCancelled.CanTransitionTo(OrderStatusActive))

	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusActive, OrderStatusDelivered, OrderStatusRevision} {
		assert.True(t, s.CanTransitionTo(OrderStatusDisputed), s)
		assert.True(t, s.CanTransitionTo(OrderStatusCancelled), s)
	}
}

func TestDisputeResolution_Outcome(t *testing.T) {
	tests := []struct {
		resolution DisputeResolution
		status     OrderStatus
		escrow     EscrowStatus
		share      float64
	}{
		{ResolutionFullRefund, OrderStatusCancelled, EscrowRefunded, 0},
		{ResolutionPartialRefund, OrderStatusCompleted, EscrowPartialRefund, 0.5},
		{ResolutionReleaseToFreelancer, OrderStatusCompleted, EscrowReleased, 1},
		{ResolutionMutualCancellation, OrderStatusCancelled, EscrowRefunded, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.resolution), func(t *testing.T) {
			out := tt.resolution.Outcome()
			assert.Equal(t, tt.status, out.OrderStatus)
			assert.Equal(t, tt.escrow, out.EscrowStatus)
			assert.Equal(t, tt.share, out.FreelancerShare)
			assert.True(t, OrderStatusDisputed.CanTransitionTo(out.OrderStatus))
			assert.True(t, EscrowHeld.CanTransitionTo(out.EscrowStatus))
		})
	}

	_, err := NewDisputeResolution("split_the_difference")
	assert.Error(t, err)
}

func TestMilestoneAndBidTransitions(t *testing.T) {
	assert.True(t, MilestoneStatusPending.CanTransitionTo(MilestoneStatusActive))
	assert.False(t, MilestoneStatusActive.CanTransitionTo(MilestoneStatusApproved))
	assert.False(t, MilestoneStatusApproved.CanTransitionTo(MilestoneStatusApproved))

	assert.True(t, BidStatusPending.CanTransitionTo(BidStatusAccepted))
	assert.False(t, BidStatusRejected.CanTransitionTo(BidStatusAccepted))

	assert.True(t, ProjectStatusOpen.CanTransitionTo(ProjectStatusInProgress))
	assert.False(t, ProjectStatusInProgress.CanTransitionTo(ProjectStatusOpen))
}
