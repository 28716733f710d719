package repository

import (
	"context"

	"rentout-backend/internal/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id int32) (*domain.Product, error)
	// GetForUpdate locks the product row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id int32) (*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	List(ctx context.Context, query string, page, pageSize int32) ([]domain.Product, int32, error)
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	// GetByID returns deleted customers too; callers check Lifecycle.
	GetByID(ctx context.Context, id int32) (*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer) error
	SoftDelete(ctx context.Context, id int32) error
	Search(ctx context.Context, query string, page, pageSize int32) ([]domain.Customer, int32, error)
}

type RentOutRepository interface {
	// Create inserts the rent-out and its items, filling in generated ids.
	Create(ctx context.Context, rentOut *domain.RentOut) error
	// GetByID loads the full aggregate (items, returns, payments). Deleted
	// rent-outs are reported as not found.
	GetByID(ctx context.Context, id int32) (*domain.RentOut, error)
	// GetForUpdate is GetByID with the rent_outs row locked for the rest of
	// the transaction.
	GetForUpdate(ctx context.Context, id int32) (*domain.RentOut, error)
	// UpdateStatus writes the cached statuses if rentOut.Version still matches
	// and bumps the version. A stale version is ErrConcurrencyConflict.
	UpdateStatus(ctx context.Context, rentOut *domain.RentOut) error
	CreateReturn(ctx context.Context, ret *domain.RentReturn) error
	CreatePayment(ctx context.Context, payment *domain.RentPayment) error
	SoftDelete(ctx context.Context, id int32) error
	// List returns rent-outs without children, newest first.
	List(ctx context.Context, filter domain.RentOutFilter) ([]domain.RentOut, int32, error)
	ListActiveIDs(ctx context.Context) ([]int32, error)
	// ListByProduct returns active rent-outs still holding stock that have a
	// line for the product, with only those lines loaded.
	ListByProduct(ctx context.Context, productID int32) ([]domain.RentOut, error)
}

// Repositories is the set of repositories bound to one connection or transaction.
type Repositories struct {
	Products  ProductRepository
	Customers CustomerRepository
	RentOuts  RentOutRepository
}

// Transactor runs fn inside a single database transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
}
