package valueobject

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
)

type Role string

const (
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
	RoleAdmin      Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleFreelancer, RoleAdmin:
		return true
	}
	return false
}

// Actor аутентифицированный участник, от имени которого выполняется операция.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) Validate() error {
	if a.UserID == uuid.Nil {
		return apperror.ErrUnauthorized
	}
	return nil
}

// CapturePolicy определяет, в каком статусе создаётся заказ.
type CapturePolicy string

const (
	// CaptureDeferred заказ ждёт подтверждения оплаты от провайдера в статусе pending.
	CaptureDeferred CapturePolicy = "deferred"
	// CaptureImmediate оплата считается захваченной сразу, заказ создаётся активным.
	CaptureImmediate CapturePolicy = "immediate"
)

func NewCapturePolicy(v string) (CapturePolicy, error) {
	p := CapturePolicy(v)
	switch p {
	case CaptureDeferred, CaptureImmediate:
		return p, nil
	}
	return "", apperror.Validation("некорректная политика захвата оплаты")
}

// InitialOrderStatus статус, в котором создаётся заказ при данной политике.
func (p CapturePolicy) InitialOrderStatus() OrderStatus {
	if p == CaptureImmediate {
		return OrderStatusActive
	}
	return OrderStatusPending
}

// Platform настройки площадки, передаваемые в каждую операцию явно.
type Platform struct {
	Fees    FeeSchedule
	Capture CapturePolicy
}

func DefaultPlatform() Platform {
	return Platform{Fees: DefaultFeeSchedule(), Capture: CaptureDeferred}
}
