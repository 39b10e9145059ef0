package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	"inventory-billing/internal/access"
	"inventory-billing/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

var (
	staff      = &access.Actor{Username: "cashier", Role: access.RoleStaff}
	admin      = &access.Actor{Username: "manager", Role: access.RoleAdmin}
	superAdmin = &access.Actor{Username: "root", Role: access.RoleSuperAdmin}
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// newRequest builds a request carrying actor, as the auth middleware would.
func newRequest(method, target, body string, actor *access.Actor) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if actor != nil {
		req = req.WithContext(access.WithActor(req.Context(), actor))
	}
	return req
}

// MockProductService is a mock implementation of ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) GetAll(ctx context.Context, actor *access.Actor) ([]model.Product, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, actor *access.Actor, id string) (*model.Product, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, actor *access.Actor, req *model.CreateProductRequest) (*model.Product, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, actor *access.Actor, id string) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}

func (m *MockProductService) Restock(ctx context.Context, actor *access.Actor, id string, qty int) (*model.Product, error) {
	args := m.Called(ctx, actor, id, qty)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

// MockBillingService is a mock implementation of BillingService.
type MockBillingService struct {
	mock.Mock
}

func (m *MockBillingService) SubmitSale(ctx context.Context, actor *access.Actor, lines []model.SaleLine) (*model.Bill, error) {
	args := m.Called(ctx, actor, lines)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Bill), args.Error(1)
}

func (m *MockBillingService) GetBill(ctx context.Context, actor *access.Actor, id uuid.UUID) (*model.Bill, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Bill), args.Error(1)
}

// MockDashboardService is a mock implementation of DashboardService.
type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Summary(ctx context.Context, actor *access.Actor) (*model.DashboardSummary, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DashboardSummary), args.Error(1)
}

// MockAuthService is a mock implementation of auth.Service.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (*model.LoginResponse, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LoginResponse), args.Error(1)
}

func (m *MockAuthService) CreateUser(ctx context.Context, actor *access.Actor, req *model.CreateUserRequest) (*model.User, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) EnsureSuperAdmin(ctx context.Context, username, password string) (bool, error) {
	args := m.Called(ctx, username, password)
	return args.Bool(0), args.Error(1)
}
