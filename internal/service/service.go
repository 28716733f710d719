package service

import (
	"context"

	"rentout-backend/internal/domain"
	"rentout-backend/internal/ledger"
)

// RentOutDetail is a rent-out with every derived view computed from its children.
type RentOutDetail struct {
	RentOut *domain.RentOut
	// Quantities is keyed by rent-out item id.
	Quantities map[int32]ledger.ItemQuantity
	Payment    ledger.PaymentSummary
}

type ProductDetail struct {
	Product      *domain.Product
	Availability ledger.ProductQuantity
}

type RentOutService interface {
	CreateRentOut(ctx context.Context, in domain.RentOutInput) (*domain.RentOut, error)
	GetRentOut(ctx context.Context, id int32) (*RentOutDetail, error)
	ListRentOuts(ctx context.Context, filter domain.RentOutFilter) ([]domain.RentOut, int32, error)
	DeleteRentOut(ctx context.Context, id int32) error
	RecordPayment(ctx context.Context, rentOutID int32, in domain.PaymentInput) (*domain.RentPayment, error)
	RecordReturn(ctx context.Context, rentOutID int32, in domain.ReturnInput) (*domain.RentReturn, error)
	// ReconcileStatus rewrites the cached statuses from a full replay and
	// reports whether they had drifted.
	ReconcileStatus(ctx context.Context, rentOutID int32) (bool, error)
	ListActiveRentOutIDs(ctx context.Context) ([]int32, error)
}

type ProductService interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	GetProduct(ctx context.Context, id int32) (*ProductDetail, error)
	UpdateProduct(ctx context.Context, product *domain.Product) error
	ListProducts(ctx context.Context, query string, page, pageSize int32) ([]domain.Product, int32, error)
}

type CustomerService interface {
	CreateCustomer(ctx context.Context, customer *domain.Customer) error
	GetCustomer(ctx context.Context, id int32) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, customer *domain.Customer) error
	DeleteCustomer(ctx context.Context, id int32) error
	SearchCustomers(ctx context.Context, query string, page, pageSize int32) ([]domain.Customer, int32, error)
}
