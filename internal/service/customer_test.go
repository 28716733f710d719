package service_test

import (
	"context"
	"testing"
	"time"

	"rentout-backend/internal/domain"
	"rentout-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCustomerService_GetCustomer(t *testing.T) {
	ctx := context.Background()

	t.Run("Deleted customers are hidden", func(t *testing.T) {
		f := newFixture()
		svc := service.NewCustomerService(f.repos, f.tx)

		f.customers.On("GetByID", mock.Anything, int32(1)).
			Return(&domain.Customer{ID: 1, Name: "Ravi", Lifecycle: domain.DeletedAt(time.Now())}, nil)

		c, err := svc.GetCustomer(ctx, 1)
		assert.Nil(t, c)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestCustomerService_DeleteCustomer(t *testing.T) {
	ctx := context.Background()
	open := domain.RentOutFilter{
		CustomerID: 1,
		Statuses:   []domain.RentOutStatus{domain.RentOutStatusPending, domain.RentOutStatusPartiallyReturned},
		Page:       1,
		PageSize:   1,
	}

	t.Run("Success", func(t *testing.T) {
		f := newFixture()
		svc := service.NewCustomerService(f.repos, f.tx)

		f.rentOuts.On("List", mock.Anything, open).Return([]domain.RentOut{}, int32(0), nil)
		f.customers.On("SoftDelete", mock.Anything, int32(1)).Return(nil)

		assert.NoError(t, svc.DeleteCustomer(ctx, 1))
		f.customers.AssertExpectations(t)
	})

	t.Run("Customer still holds items", func(t *testing.T) {
		f := newFixture()
		svc := service.NewCustomerService(f.repos, f.tx)

		f.rentOuts.On("List", mock.Anything, open).Return([]domain.RentOut{{ID: 3}}, int32(2), nil)

		err := svc.DeleteCustomer(ctx, 1)
		assert.ErrorIs(t, err, domain.ErrValidation)
		f.customers.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)
	})
}

func TestCustomerService_CreateCustomer(t *testing.T) {
	f := newFixture()
	svc := service.NewCustomerService(f.repos, f.tx)

	err := svc.CreateCustomer(context.Background(), &domain.Customer{})
	assert.ErrorIs(t, err, domain.ErrValidation)
	f.customers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
