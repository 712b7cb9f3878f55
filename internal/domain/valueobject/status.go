package valueobject

import "github.com/ignatzorin/freelance-orders/internal/pkg/apperror"

func canTransition[S comparable](transitions map[S][]S, from, to S) bool {
	allowed, ok := transitions[from]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == to {
			return true
		}
	}
	return false
}

type ProjectStatus string

const (
	ProjectStatusOpen       ProjectStatus = "open"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusClosed     ProjectStatus = "closed"
)

var projectTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectStatusOpen:       {ProjectStatusInProgress, ProjectStatusClosed},
	ProjectStatusInProgress: {ProjectStatusCompleted, ProjectStatusClosed},
	ProjectStatusCompleted:  {},
	ProjectStatusClosed:     {},
}

func (s ProjectStatus) IsValid() bool {
	_, ok := projectTransitions[s]
	return ok
}

func (s ProjectStatus) CanTransitionTo(next ProjectStatus) bool {
	return canTransition(projectTransitions, s, next)
}

type BidStatus string

const (
	BidStatusPending  BidStatus = "pending"
	BidStatusAccepted BidStatus = "accepted"
	BidStatusRejected BidStatus = "rejected"
)

var bidTransitions = map[BidStatus][]BidStatus{
	BidStatusPending:  {BidStatusAccepted, BidStatusRejected},
	BidStatusAccepted: {},
	BidStatusRejected: {},
}

func (s BidStatus) IsValid() bool {
	_, ok := bidTransitions[s]
	return ok
}

func (s BidStatus) CanTransitionTo(next BidStatus) bool {
	return canTransition(bidTransitions, s, next)
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusActive    OrderStatus = "active"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusRevision  OrderStatus = "revision"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusDisputed  OrderStatus = "disputed"
)

// Из disputed заказ уходит либо в итог разрешения спора,
// либо обратно в статус, в котором спор был открыт (отзыв спора).
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusActive, OrderStatusCancelled, OrderStatusDisputed},
	OrderStatusActive:    {OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled, OrderStatusDisputed},
	OrderStatusDelivered: {OrderStatusCompleted, OrderStatusRevision, OrderStatusCancelled, OrderStatusDisputed},
	OrderStatusRevision:  {OrderStatusDelivered, OrderStatusCancelled, OrderStatusDisputed},
	OrderStatusDisputed: {
		OrderStatusCompleted, OrderStatusCancelled,
		OrderStatusPending, OrderStatusActive, OrderStatusDelivered, OrderStatusRevision,
	},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

func (s OrderStatus) IsValid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return canTransition(orderTransitions, s, next)
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

func NewOrderStatus(status string) (OrderStatus, error) {
	s := OrderStatus(status)
	if !s.IsValid() {
		return "", apperror.Validation("некорректный статус заказа")
	}
	return s, nil
}

type EscrowStatus string

const (
	EscrowHeld          EscrowStatus = "held"
	EscrowReleased      EscrowStatus = "released"
	EscrowRefunded      EscrowStatus = "refunded"
	EscrowPartialRefund EscrowStatus = "partial_refund"
)

var escrowTransitions = map[EscrowStatus][]EscrowStatus{
	EscrowHeld:          {EscrowReleased, EscrowRefunded, EscrowPartialRefund},
	EscrowReleased:      {},
	EscrowRefunded:      {},
	EscrowPartialRefund: {},
}

func (s EscrowStatus) IsValid() bool {
	_, ok := escrowTransitions[s]
	return ok
}

func (s EscrowStatus) CanTransitionTo(next EscrowStatus) bool {
	return canTransition(escrowTransitions, s, next)
}

type MilestoneStatus string

const (
	MilestoneStatusPending   MilestoneStatus = "pending"
	MilestoneStatusActive    MilestoneStatus = "active"
	MilestoneStatusDelivered MilestoneStatus = "delivered"
	MilestoneStatusApproved  MilestoneStatus = "approved"
)

var milestoneTransitions = map[MilestoneStatus][]MilestoneStatus{
	MilestoneStatusPending:   {MilestoneStatusActive},
	MilestoneStatusActive:    {MilestoneStatusDelivered},
	MilestoneStatusDelivered: {MilestoneStatusApproved},
	MilestoneStatusApproved:  {},
}

func (s MilestoneStatus) IsValid() bool {
	_, ok := milestoneTransitions[s]
	return ok
}

func (s MilestoneStatus) CanTransitionTo(next MilestoneStatus) bool {
	return canTransition(milestoneTransitions, s, next)
}

type DisputeStatus string

const (
	DisputeStatusOpen     DisputeStatus = "open"
	DisputeStatusResolved DisputeStatus = "resolved"
	DisputeStatusClosed   DisputeStatus = "closed"
)

var disputeTransitions = map[DisputeStatus][]DisputeStatus{
	DisputeStatusOpen:     {DisputeStatusResolved, DisputeStatusClosed},
	DisputeStatusResolved: {},
	DisputeStatusClosed:   {},
}

func (s DisputeStatus) IsValid() bool {
	_, ok := disputeTransitions[s]
	return ok
}

func (s DisputeStatus) CanTransitionTo(next DisputeStatus) bool {
	return canTransition(disputeTransitions, s, next)
}

type DisputeResolution string

const (
	ResolutionFullRefund          DisputeResolution = "full_refund"
	ResolutionPartialRefund       DisputeResolution = "partial_refund"
	ResolutionReleaseToFreelancer DisputeResolution = "release_to_freelancer"
	ResolutionMutualCancellation  DisputeResolution = "mutual_cancellation"
)

// ResolutionOutcome итоговое состояние заказа после разрешения спора.
type ResolutionOutcome struct {
	OrderStatus  OrderStatus
	EscrowStatus EscrowStatus
	// FreelancerShare доля невыплаченного дохода, которая уходит исполнителю.
	FreelancerShare float64
}

// PartialRefundShare доля исполнителя при частичном возврате.
const PartialRefundShare = 0.5

var resolutionOutcomes = map[DisputeResolution]ResolutionOutcome{
	ResolutionFullRefund:          {OrderStatusCancelled, EscrowRefunded, 0},
	ResolutionPartialRefund:       {OrderStatusCompleted, EscrowPartialRefund, PartialRefundShare},
	ResolutionReleaseToFreelancer: {OrderStatusCompleted, EscrowReleased, 1},
	ResolutionMutualCancellation:  {OrderStatusCancelled, EscrowRefunded, 0},
}

func (r DisputeResolution) IsValid() bool {
	_, ok := resolutionOutcomes[r]
	return ok
}

func (r DisputeResolution) Outcome() ResolutionOutcome {
	return resolutionOutcomes[r]
}

func NewDisputeResolution(v string) (DisputeResolution, error) {
	r := DisputeResolution(v)
	if !r.IsValid() {
		return "", apperror.Validation("некорректный вариант разрешения спора")
	}
	return r, nil
}

type TransactionType string

const (
	TransactionPayout          TransactionType = "payout"
	TransactionMilestonePayout TransactionType = "milestone_payout"
)
