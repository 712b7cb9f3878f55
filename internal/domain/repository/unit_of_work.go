package repository

import "context"

// Repositories набор репозиториев, привязанных к одной транзакции.
type Repositories struct {
	Projects     ProjectRepository
	Bids         BidRepository
	Orders       OrderRepository
	Milestones   MilestoneRepository
	Disputes     DisputeRepository
	Transactions TransactionRepository
	Users        UserRepository
	Gigs         GigRepository
}

// UnitOfWork выполняет fn в одной транзакции хранилища.
// Ошибка fn откатывает все изменения, сделанные через переданные репозитории.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	// Repositories репозитории вне транзакции, для чтения.
	Repositories() Repositories
}
