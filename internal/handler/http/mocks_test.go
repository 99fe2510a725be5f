package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"toy-catalog/internal/model"
	"toy-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret-handler-test"

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) GetAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	return productsArg(args.Get(0)), args.Error(1)
}

func (m *MockProductService) GetByCategory(ctx context.Context, category model.Category) ([]model.Product, error) {
	args := m.Called(ctx, category)
	return productsArg(args.Get(0)), args.Error(1)
}

func (m *MockProductService) GetPage(ctx context.Context, page service.Page) ([]model.Product, error) {
	args := m.Called(ctx, page)
	return productsArg(args.Get(0)), args.Error(1)
}

func (m *MockProductService) Count(ctx context.Context) (model.CountResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.CountResult), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, doc model.Document) (model.InsertResult, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(model.InsertResult), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, id string, doc model.Document) (model.UpdateResult, error) {
	args := m.Called(ctx, id, doc)
	return args.Get(0).(model.UpdateResult), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, id string) (model.DeleteResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.DeleteResult), args.Error(1)
}

func (m *MockProductService) GetOwned(ctx context.Context, authenticatedEmail, email string) ([]model.Product, error) {
	args := m.Called(ctx, authenticatedEmail, email)
	return productsArg(args.Get(0)), args.Error(1)
}

func productsArg(v any) []model.Product {
	if v == nil {
		return nil
	}
	return v.([]model.Product)
}

type stubHealth struct {
	status service.HealthStatus
}

func (s stubHealth) Check(context.Context) service.HealthStatus {
	return s.status
}

type testEnv struct {
	router   *chi.Mux
	products *MockProductService
	tokens   *service.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithTimeout(t, 0)
}

func newTestEnvWithTimeout(t *testing.T, timeout time.Duration) *testEnv {
	t.Helper()
	tokens, err := service.NewTokenService(testSecret, time.Hour)
	require.NoError(t, err)

	products := new(MockProductService)
	router := NewRouter(RouterConfig{
		Products: NewProductHandler(products),
		Auth:     NewAuthHandler(tokens),
		Health:   NewHealthHandler(stubHealth{status: service.HealthStatus{Mongo: service.StatusUp}}),
		Verifier: tokens,

		RequestTimeout: timeout,
	})
	return &testEnv{router: router, products: products, tokens: tokens}
}

func (e *testEnv) do(method, target, body string, header ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}
