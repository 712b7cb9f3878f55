package mail_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelance-orders/internal/domain/entity"
	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/infrastructure/memory"
	"github.com/ignatzorin/freelance-orders/internal/mail"
	"github.com/ignatzorin/freelance-orders/internal/notify"
	"github.com/ignatzorin/freelance-orders/internal/pkg/apperror"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, email mail.Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func TestSink_Deliver(t *testing.T) {
	store := memory.NewStore()
	withEmail := uuid.New()
	withoutEmail := uuid.New()
	store.PutUser(entity.User{ID: withEmail, Email: "client@example.com", Role: valueobject.RoleClient})
	store.PutUser(entity.User{ID: withoutEmail, Role: valueobject.RoleFreelancer})

	sender := new(mockSender)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(e mail.Email) bool {
		return e.To == "client@example.com" &&
			e.Subject == "Работа сдана" &&
			e.Text == "Проверьте работу\n\nhttps://app.example.com/orders/42"
	})).Return(nil).Once()

	sink := mail.NewSink(sender, store.Repositories().Users, "https://app.example.com/")
	assert.Equal(t, "mail", sink.Name())

	err := sink.Deliver(context.Background(), notify.Message{
		UserID: withEmail, Kind: notify.KindOrderDelivered,
		Title: "Работа сдана", Body: "Проверьте работу", Link: "/orders/42",
	})
	require.NoError(t, err)

	require.NoError(t, sink.Deliver(context.Background(), notify.Message{UserID: withoutEmail, Title: "без адреса"}))

	err = sink.Deliver(context.Background(), notify.Message{UserID: uuid.New(), Title: "неизвестный"})
	assert.ErrorIs(t, err, apperror.ErrUserNotFound)

	sender.AssertExpectations(t)
}

func TestSink_RendersEscapedHTML(t *testing.T) {
	store := memory.NewStore()
	userID := uuid.New()
	store.PutUser(entity.User{ID: userID, Email: "f@example.com", Role: valueobject.RoleFreelancer})

	var sent mail.Email
	sender := new(mockSender)
	sender.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent = args.Get(1).(mail.Email)
	}).Return(nil)

	sink := mail.NewSink(sender, store.Repositories().Users, "https://app.example.com")
	require.NoError(t, sink.Deliver(context.Background(), notify.Message{UserID: userID, Title: "Спор", Body: "<script>x</script>"}))

	assert.Contains(t, sent.HTML, "&lt;script&gt;")
	assert.NotContains(t, sent.HTML, "Открыть на платформе")
}

func TestSink_SenderErrorIsReturned(t *testing.T) {
	store := memory.NewStore()
	userID := uuid.New()
	store.PutUser(entity.User{ID: userID, Email: "f@example.com", Role: valueobject.RoleFreelancer})

	sender := new(mockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	err := mail.NewSink(sender, store.Repositories().Users, "").Deliver(context.Background(), notify.Message{UserID: userID, Title: "t"})
	assert.EqualError(t, err, "smtp down")
}
