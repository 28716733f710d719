package service_test

import (
	"context"

	"rentout-backend/internal/domain"
	"rentout-backend/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockProductRepo
type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) Create(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockProductRepo) GetByID(ctx context.Context, id int32) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductRepo) GetForUpdate(ctx context.Context, id int32) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockProductRepo) Update(ctx context.Context, p *domain.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockProductRepo) List(ctx context.Context, query string, page, pageSize int32) ([]domain.Product, int32, error) {
	args := m.Called(ctx, query, page, pageSize)
	return args.Get(0).([]domain.Product), args.Get(1).(int32), args.Error(2)
}

// MockCustomerRepo
type MockCustomerRepo struct {
	mock.Mock
}

func (m *MockCustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCustomerRepo) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}
func (m *MockCustomerRepo) Update(ctx context.Context, c *domain.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCustomerRepo) SoftDelete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockCustomerRepo) Search(ctx context.Context, query string, page, pageSize int32) ([]domain.Customer, int32, error) {
	args := m.Called(ctx, query, page, pageSize)
	return args.Get(0).([]domain.Customer), args.Get(1).(int32), args.Error(2)
}

// MockRentOutRepo
type MockRentOutRepo struct {
	mock.Mock
}

func (m *MockRentOutRepo) Create(ctx context.Context, rt *domain.RentOut) error {
	args := m.Called(ctx, rt)
	return args.Error(0)
}
func (m *MockRentOutRepo) GetByID(ctx context.Context, id int32) (*domain.RentOut, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentOut), args.Error(1)
}
func (m *MockRentOutRepo) GetForUpdate(ctx context.Context, id int32) (*domain.RentOut, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RentOut), args.Error(1)
}
func (m *MockRentOutRepo) UpdateStatus(ctx context.Context, rt *domain.RentOut) error {
	args := m.Called(ctx, rt)
	return args.Error(0)
}
func (m *MockRentOutRepo) CreateReturn(ctx context.Context, ret *domain.RentReturn) error {
	args := m.Called(ctx, ret)
	return args.Error(0)
}
func (m *MockRentOutRepo) CreatePayment(ctx context.Context, p *domain.RentPayment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}
func (m *MockRentOutRepo) SoftDelete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockRentOutRepo) List(ctx context.Context, filter domain.RentOutFilter) ([]domain.RentOut, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.RentOut), args.Get(1).(int32), args.Error(2)
}
func (m *MockRentOutRepo) ListActiveIDs(ctx context.Context) ([]int32, error) {
	args := m.Called(ctx)
	return args.Get(0).([]int32), args.Error(1)
}
func (m *MockRentOutRepo) ListByProduct(ctx context.Context, productID int32) ([]domain.RentOut, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]domain.RentOut), args.Error(1)
}

// fakeTx runs the unit of work against the same mock repositories and
// counts how often it was entered.
type fakeTx struct {
	repos repository.Repositories
	calls int
}

func (f *fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	f.calls++
	return fn(ctx, f.repos)
}

type fixture struct {
	products  *MockProductRepo
	customers *MockCustomerRepo
	rentOuts  *MockRentOutRepo
	repos     repository.Repositories
	tx        *fakeTx
}

func newFixture() *fixture {
	f := &fixture{
		products:  new(MockProductRepo),
		customers: new(MockCustomerRepo),
		rentOuts:  new(MockRentOutRepo),
	}
	f.repos = repository.Repositories{Products: f.products, Customers: f.customers, RentOuts: f.rentOuts}
	f.tx = &fakeTx{repos: f.repos}
	return f
}
