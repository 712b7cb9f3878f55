package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/freelance-orders/internal/domain/valueobject"
	"github.com/ignatzorin/freelance-orders/internal/http/middleware"
	"github.com/ignatzorin/freelance-orders/internal/interface/http/handler"
	"github.com/ignatzorin/freelance-orders/internal/payment"
	"github.com/ignatzorin/freelance-orders/internal/usecase/bid"
	"github.com/ignatzorin/freelance-orders/internal/usecase/dispute"
	"github.com/ignatzorin/freelance-orders/internal/usecase/order"
	"github.com/ignatzorin/freelance-orders/internal/usecase/project"
	"github.com/ignatzorin/freelance-orders/internal/usecase/usecasetest"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// perform выполняет запрос к одному маршруту от имени actor. nil actor означает анонимный запрос.
func perform(t *testing.T, method, route, path string, h gin.HandlerFunc, actor *valueobject.Actor, body any, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	handlers := []gin.HandlerFunc{}
	if actor != nil {
		handlers = append(handlers, middleware.SetActor(*actor))
	}
	r.Handle(method, route, append(handlers, h)...)

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case []byte:
		reader = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func newProjectHandler(f *usecasetest.Fixture) *handler.ProjectHandler {
	return handler.NewProjectHandler(
		project.NewCreateProjectUseCase(f.Store),
		project.NewGetProjectUseCase(f.Store),
		project.NewCloseProjectUseCase(f.Store, f.Publisher),
		bid.NewPlaceBidUseCase(f.Store, f.Publisher),
		bid.NewSelectWinnerUseCase(f.Store, order.NewFactory(f.Platform), f.Publisher),
		bid.NewListBidsUseCase(f.Store),
	)
}

func newOrderHandler(f *usecasetest.Fixture) *handler.OrderHandler {
	return handler.NewOrderHandler(
		order.NewGetOrderUseCase(f.Store),
		order.NewListOrdersUseCase(f.Store),
		order.NewDeliverOrderUseCase(f.Store, f.Publisher),
		order.NewRequestRevisionUseCase(f.Store, f.Publisher),
		order.NewApproveDeliveryUseCase(f.Store, f.Publisher),
	)
}

func TestProjectHandler_BidAndSelect(t *testing.T) {
	f := usecasetest.New(t)
	h := newProjectHandler(f)
	p := f.SeedProject(t)
	path := "/projects/" + p.ID.String()

	w, env := perform(t, http.MethodPost, "/projects/:id/bid", path+"/bid", h.PlaceBid, &f.Freelancer, map[string]any{
		"amount":        500,
		"currency":      "EUR",
		"delivery_days": 7,
		"pitch":         "Сделаю лендинг за неделю, есть портфолио",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var placed struct {
		ID     uuid.UUID `json:"id"`
		Status string    `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &placed))
	assert.Equal(t, "pending", placed.Status)

	w, env = perform(t, http.MethodPost, "/projects/:id/select", path+"/select", h.Select, &f.Client, map[string]any{
		"bid_id": placed.ID.String(),
	}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var selected struct {
		Project struct {
			Status string `json:"status"`
		} `json:"project"`
		Bid struct {
			Status string `json:"status"`
		} `json:"bid"`
		Order struct {
			Amount             float64 `json:"amount"`
			Currency           string  `json:"currency"`
			PlatformFee        float64 `json:"platform_fee"`
			FreelancerEarnings float64 `json:"freelancer_earnings"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &selected))
	assert.Equal(t, "in_progress", selected.Project.Status)
	assert.Equal(t, "accepted", selected.Bid.Status)
	assert.Equal(t, "EUR", selected.Order.Currency)
	assert.InDelta(t, 500, selected.Order.Amount, 0.001)
	assert.InDelta(t, 60, selected.Order.PlatformFee, 0.001)
	assert.InDelta(t, 440, selected.Order.FreelancerEarnings, 0.001)
}

func TestProjectHandler_PitchTooShort(t *testing.T) {
	f := usecasetest.New(t)
	h := newProjectHandler(f)
	p := f.SeedProject(t)

	w, env := perform(t, http.MethodPost, "/projects/:id/bid", "/projects/"+p.ID.String()+"/bid", h.PlaceBid, &f.Freelancer, map[string]any{
		"amount":        100,
		"delivery_days": 3,
		"pitch":         strings.Repeat("a", 19),
	}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestProjectHandler_Unauthorized(t *testing.T) {
	f := usecasetest.New(t)
	h := newProjectHandler(f)

	w, env := perform(t, http.MethodPost, "/projects", "/projects", h.Create, nil, map[string]any{"title": "x"}, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, env.Success)
}

func TestProjectHandler_InvalidID(t *testing.T) {
	f := usecasetest.New(t)
	h := newProjectHandler(f)

	w, _ := perform(t, http.MethodGet, "/projects/:id", "/projects/not-a-uuid", h.Get, &f.Client, nil, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderHandler_ApproveTwice(t *testing.T) {
	f := usecasetest.New(t)
	h := newOrderHandler(f)
	o := f.SeedOrder(t, 500, valueobject.OrderStatusDelivered)
	path := "/orders/" + o.ID.String() + "/approve"

	w, env := perform(t, http.MethodPost, "/orders/:id/approve", path, h.Approve, &f.Client, nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var approved struct {
		Status       string `json:"status"`
		EscrowStatus string `json:"escrow_status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &approved))
	assert.Equal(t, "completed", approved.Status)
	assert.Equal(t, "released", approved.EscrowStatus)

	w, env = perform(t, http.MethodPost, "/orders/:id/approve", path, h.Approve, &f.Client, nil, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CONFLICT", env.Error.Code)
	assert.Len(t, f.Recorder.Payouts(), 1)
}

func TestOrderHandler_GetForbiddenForOutsider(t *testing.T) {
	f := usecasetest.New(t)
	h := newOrderHandler(f)
	o := f.SeedOrder(t, 200, valueobject.OrderStatusActive)
	outsider := valueobject.Actor{UserID: uuid.New(), Role: valueobject.RoleClient}

	w, _ := perform(t, http.MethodGet, "/orders/:id", "/orders/"+o.ID.String(), h.Get, &outsider, nil, nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestOrderHandler_ListRejectsUnknownStatus(t *testing.T) {
	f := usecasetest.New(t)
	h := newOrderHandler(f)

	w, _ := perform(t, http.MethodGet, "/orders", "/orders?status=lost", h.List, &f.Client, nil, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDisputeHandler_ResolveRequiresAdmin(t *testing.T) {
	f := usecasetest.New(t)
	h := handler.NewDisputeHandler(
		dispute.NewOpenDisputeUseCase(f.Store, f.Publisher),
		dispute.NewGetDisputeUseCase(f.Store),
		dispute.NewResolveDisputeUseCase(f.Store, f.Publisher),
		dispute.NewWithdrawDisputeUseCase(f.Store, f.Publisher),
		nil,
		10,
	)
	o := f.SeedOrder(t, 300, valueobject.OrderStatusActive)

	w, env := perform(t, http.MethodPost, "/disputes/:id", "/disputes/"+o.ID.String(), h.Open, &f.Client, map[string]any{
		"reason":      "Работа не соответствует ТЗ",
		"description": "Вёрстка не совпадает с макетом",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var opened struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &opened))
	resolvePath := "/disputes/" + opened.ID.String() + "/resolve"
	body := map[string]any{"resolution": "full_refund", "resolution_note": "Исполнитель не выполнил работу"}

	w, _ = perform(t, http.MethodPost, "/disputes/:id/resolve", resolvePath, h.Resolve, &f.Client, body, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = perform(t, http.MethodPost, "/disputes/:id/resolve", resolvePath, h.Resolve, &f.Admin, body, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resolved struct {
		Order struct {
			Status       string `json:"status"`
			EscrowStatus string `json:"escrow_status"`
		} `json:"order"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resolved))
	assert.Equal(t, "cancelled", resolved.Order.Status)
	assert.Equal(t, "refunded", resolved.Order.EscrowStatus)

	w, _ = perform(t, http.MethodPost, "/disputes/:id/resolve", resolvePath, h.Resolve, &f.Admin, body, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPaymentHandler_Webhook(t *testing.T) {
	const secret = "whsec_test"
	f := usecasetest.New(t)
	h := handler.NewPaymentHandler(order.NewHandlePaymentEventUseCase(f.Store, f.Publisher), secret)
	o := f.SeedOrder(t, 150, valueobject.OrderStatusPending)

	body, err := json.Marshal(payment.WebhookEvent{ID: "evt_1", Type: payment.EventPaymentCaptured, OrderID: o.ID})
	require.NoError(t, err)

	t.Run("bad signature", func(t *testing.T) {
		w, _ := perform(t, http.MethodPost, "/payments/webhook", "/payments/webhook", h.Webhook, nil, body,
			map[string]string{payment.SignatureHeader: payment.Sign("other", body)})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, valueobject.OrderStatusPending, f.Order(t, o.ID).Status)
	})

	t.Run("captured", func(t *testing.T) {
		headers := map[string]string{payment.SignatureHeader: payment.Sign(secret, body)}

		w, _ := perform(t, http.MethodPost, "/payments/webhook", "/payments/webhook", h.Webhook, nil, body, headers)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, valueobject.OrderStatusActive, f.Order(t, o.ID).Status)

		// повторная доставка того же события
		w, _ = perform(t, http.MethodPost, "/payments/webhook", "/payments/webhook", h.Webhook, nil, body, headers)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestHealthHandler_InMemory(t *testing.T) {
	h := handler.NewHealthHandler(nil)

	w, _ := perform(t, http.MethodGet, "/health", "/health", h.Health, nil, nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "in-memory")
}
