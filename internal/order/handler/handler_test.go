package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/retailku/order-admin/internal/order/events"
	"github.com/retailku/order-admin/internal/order/handler"
	"github.com/retailku/order-admin/internal/order/repository"
	"github.com/retailku/order-admin/internal/order/service"
	"github.com/retailku/order-admin/pkg/httputil"
	"github.com/retailku/order-admin/pkg/i18n"
	"github.com/retailku/order-admin/pkg/logger"
	"github.com/retailku/order-admin/pkg/testutil"
)

type harness struct {
	router    http.Handler
	registry  *service.ViewRegistry
	gw        *testutil.FaultyGateway
	publisher *testutil.MockPublisher
}

type harnessOptions struct {
	orders []testutil.OrderFixture
	users  []testutil.UserFixture
	setup  func(gw *testutil.FaultyGateway)
}

func newHarness(t *testing.T, opts harnessOptions) *harness {
	t.Helper()

	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	gw := testutil.NewFaultyGateway(testutil.NewSeededStore(t, opts.orders, opts.users))
	if opts.setup != nil {
		opts.setup(gw)
	}
	pub := testutil.NewMockPublisher()
	log := logger.Nop()

	repo := repository.NewOrderRepository(gw, testutil.OrdersCollection, testutil.UsersCollection)
	registry := service.NewViewRegistry(repo, events.NewOrderEventPublisher(pub, log), log, service.RegistryConfig{})
	t.Cleanup(registry.CloseAll)

	r := chi.NewRouter()
	r.Use(httputil.RequestID)
	r.Use(i18n.Middleware(i18n.LocaleIndonesian))
	handler.NewPageHandler(registry, jakarta, false, log).Routes(r)
	r.Route("/api/v1", handler.NewAPIHandler(registry, jakarta, log).Routes)

	return &harness{router: r, registry: registry, gw: gw, publisher: pub}
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	return testutil.ExecuteRequest(h.router, req)
}

// waitReady blocks until the view finished loading.
func (h *harness) waitReady(t *testing.T, viewID string) *service.OrderView {
	t.Helper()
	v, err := h.registry.Get(viewID)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	select {
	case <-v.Done():
	case <-ctx.Done():
		t.Fatal("view did not finish loading")
	}
	return v
}

type envelope[T any] struct {
	Success bool                `json:"success"`
	Data    T                   `json:"data"`
	Error   *httputil.ErrorBody `json:"error"`
	Meta    *httputil.Meta      `json:"meta"`
}
