package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
)

// User профиль участника в том объёме, который нужен движку заказов.
// Учётные записи ведёт внешний провайдер идентификации.
type User struct {
	ID            uuid.UUID
	Email         string
	DisplayName   string
	Role          valueobject.Role
	PayoutAccount *string
	TotalOrders   int
	TotalEarnings float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
