package service

import (
	"context"

	"rentout-backend/internal/domain"
	"rentout-backend/internal/repository"
)

type customerService struct {
	repos repository.Repositories
	tx    repository.Transactor
}

func NewCustomerService(repos repository.Repositories, tx repository.Transactor) CustomerService {
	return &customerService{repos: repos, tx: tx}
}

func (s *customerService) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return s.repos.Customers.Create(ctx, c)
}

// GetCustomer hides deleted customers.
func (s *customerService) GetCustomer(ctx context.Context, id int32) (*domain.Customer, error) {
	c, err := s.repos.Customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !c.Lifecycle.IsActive() {
		return nil, domain.NotFoundError("customer", id)
	}
	return c, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, c *domain.Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return s.repos.Customers.Update(ctx, c)
}

// DeleteCustomer soft-deletes a customer who has nothing left out.
func (s *customerService) DeleteCustomer(ctx context.Context, id int32) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		_, open, err := repos.RentOuts.List(ctx, domain.RentOutFilter{
			CustomerID: id,
			Statuses:   []domain.RentOutStatus{domain.RentOutStatusPending, domain.RentOutStatusPartiallyReturned},
			Page:       1,
			PageSize:   1,
		})
		if err != nil {
			return err
		}
		if open > 0 {
			return domain.NewValidationError("customer_id",
				"customer has %d rent-out(s) with items not yet returned", open)
		}
		return repos.Customers.SoftDelete(ctx, id)
	})
}

func (s *customerService) SearchCustomers(ctx context.Context, query string, page, pageSize int32) ([]domain.Customer, int32, error) {
	return s.repos.Customers.Search(ctx, query, page, pageSize)
}
