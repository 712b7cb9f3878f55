// Package usecasetest общие заготовки для тестов сценариев на хранилище в памяти.
package usecasetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/repository"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/infrastructure/memory"
	"github.com/ignatzorin/freelance-orders/internal/notify"
	"github.com/ignatzorin/freelance-orders/internal/payment"
	"github.com/ignatzorin/freelance-orders/internal/usecase/outbox"
)

// Recorder синхронно запоминает уведомления и запросы выплат.
type Recorder struct {
	mu       sync.Mutex
	messages []notify.Message
	payouts  []payment.PayoutRequest
}

func (r *Recorder) Dispatch(_ context.Context, msgs ...notify.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msgs...)
}

func (r *Recorder) RequestPayout(_ context.Context, req payment.PayoutRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payouts = append(r.payouts, req)
}

func (r *Recorder) Messages() []notify.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Message(nil), r.messages...)
}

func (r *Recorder) Payouts() []payment.PayoutRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]payment.PayoutRequest(nil), r.payouts...)
}

// Kinds виды уведомлений, адресованных userID.
func (r *Recorder) Kinds(userID uuid.UUID) []notify.Kind {
	var kinds []notify.Kind
	for _, m := range r.Messages() {
		if m.UserID == userID {
			kinds = append(kinds, m.Kind)
		}
	}
	return kinds
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
	r.payouts = nil
}

// Fixture хранилище, платформа по умолчанию и три участника.
type Fixture struct {
	Store      *memory.Store
	Recorder   *Recorder
	Publisher  *outbox.Publisher
	Platform   valueobject.Platform
	Client     valueobject.Actor
	Freelancer valueobject.Actor
	Admin      valueobject.Actor
}

func New(t *testing.T) *Fixture {
	t.Helper()

	rec := &Recorder{}
	f := &Fixture{
		Store:      memory.NewStore(),
		Recorder:   rec,
		Publisher:  outbox.NewPublisher(rec, rec),
		Platform:   valueobject.DefaultPlatform(),
		Client:     valueobject.Actor{UserID: uuid.New(), Role: valueobject.RoleClient},
		Freelancer: valueobject.Actor{UserID: uuid.New(), Role: valueobject.RoleFreelancer},
		Admin:      valueobject.Actor{UserID: uuid.New(), Role: valueobject.RoleAdmin},
	}
	payoutAccount := "freelancer@example.com"
	f.Store.PutUser(entity.User{ID: f.Client.UserID, Email: "client@example.com", DisplayName: "Client", Role: valueobject.RoleClient})
	f.Store.PutUser(entity.User{ID: f.Freelancer.UserID, Email: "freelancer@example.com", DisplayName: "Freelancer", Role: valueobject.RoleFreelancer, PayoutAccount: &payoutAccount})
	f.Store.PutUser(entity.User{ID: f.Admin.UserID, Email: "admin@example.com", DisplayName: "Admin", Role: valueobject.RoleAdmin})
	return f
}

// SeedProject создаёт открытый проект клиента.
func (f *Fixture) SeedProject(t *testing.T) *entity.Project {
	t.Helper()

	p, err := entity.NewProject(f.Client.UserID, "Лендинг для кофейни", "Нужен одностраничный сайт", "USD")
	require.NoError(t, err)
	require.NoError(t, f.Store.Repositories().Projects.Create(context.Background(), p))
	return p
}

// SeedOrder создаёт заказ в нужном статусе вместе с проектом в работе.
func (f *Fixture) SeedOrder(t *testing.T, amount float64, status valueobject.OrderStatus) *entity.Order {
	t.Helper()
	ctx := context.Background()
	now := time.Now().Add(-time.Hour)

	p := f.SeedProject(t)
	patch, err := p.SelectFreelancer(f.Freelancer.UserID, now)
	require.NoError(t, err)

	o, err := entity.NewOrder(entity.OrderDraft{
		ClientID:     f.Client.UserID,
		FreelancerID: f.Freelancer.UserID,
		ProjectID:    &p.ID,
		Title:        p.Title,
		Amount:       amount,
		Currency:     "USD",
		DeliveryDays: 7,
	}, f.Platform, now)
	require.NoError(t, err)
	o.Status = status

	err = f.Store.Do(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if err := repos.Projects.Patch(ctx, p.ID, patch); err != nil {
			return err
		}
		return repos.Orders.Create(ctx, o)
	})
	require.NoError(t, err)
	return o
}

// Order текущее состояние заказа в хранилище.
func (f *Fixture) Order(t *testing.T, id uuid.UUID) *entity.Order {
	t.Helper()
	o, err := f.Store.Repositories().Orders.FindByID(context.Background(), id)
	require.NoError(t, err)
	return o
}

func (f *Fixture) Project(t *testing.T, id uuid.UUID) *entity.Project {
	t.Helper()
	p, err := f.Store.Repositories().Projects.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func (f *Fixture) User(t *testing.T, id uuid.UUID) *entity.User {
	t.Helper()
	u, err := f.Store.Repositories().Users.FindByID(context.Background(), id)
	require.NoError(t, err)
	return u
}

func (f *Fixture) Transactions(t *testing.T, orderID uuid.UUID) []*entity.Transaction {
	t.Helper()
	txs, err := f.Store.Repositories().Transactions.ListByOrder(context.Background(), orderID)
	require.NoError(t, err)
	return txs
}
