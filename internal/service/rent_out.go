package service

import (
	"context"
	"fmt"
	"sort"

	"rentout-backend/internal/domain"
	"rentout-backend/internal/ledger"
	"rentout-backend/internal/logger"
	"rentout-backend/internal/repository"
	"rentout-backend/internal/settlement"
)

type rentOutService struct {
	repos repository.Repositories
	tx    repository.Transactor
}

// NewRentOutService reads through repos and runs every mutation through tx.
func NewRentOutService(repos repository.Repositories, tx repository.Transactor) RentOutService {
	return &rentOutService{repos: repos, tx: tx}
}

func (s *rentOutService) CreateRentOut(ctx context.Context, in domain.RentOutInput) (*domain.RentOut, error) {
	logger.EnterMethod("rentOutService.CreateRentOut", "customerID", in.CustomerID, "items", len(in.Items))

	if err := validateRentOutInput(in); err != nil {
		logger.ExitMethodWithError("rentOutService.CreateRentOut", err)
		return nil, err
	}

	rt := &domain.RentOut{
		CustomerID:    in.CustomerID,
		RentedOn:      in.RentedOn,
		Description:   in.Description,
		Status:        domain.RentOutStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		customer, err := repos.Customers.GetByID(ctx, in.CustomerID)
		if err != nil {
			return err
		}
		if !customer.Lifecycle.IsActive() {
			return domain.NotFoundError("customer", in.CustomerID)
		}

		// Lock products in id order so concurrent creates cannot deadlock.
		ids := make([]int32, 0, len(in.Items))
		for _, item := range in.Items {
			ids = append(ids, item.ProductID)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		products := make(map[int32]*domain.Product, len(ids))
		for _, id := range ids {
			product, err := repos.Products.GetForUpdate(ctx, id)
			if err != nil {
				return err
			}
			products[id] = product
		}

		for _, item := range in.Items {
			product := products[item.ProductID]
			holding, err := repos.RentOuts.ListByProduct(ctx, product.ID)
			if err != nil {
				return err
			}
			available := ledger.ProductQuantityInfo(*product, holding).RemainingQuantity
			if item.Quantity > available {
				return fmt.Errorf("product %d: requested %d, available %d: %w",
					product.ID, item.Quantity, available, domain.ErrInsufficientStock)
			}
			rt.Items = append(rt.Items, domain.RentOutItem{
				ProductID:       product.ID,
				Quantity:        item.Quantity,
				RentPerDayCents: product.RentPerDayCents,
			})
		}

		return repos.RentOuts.Create(ctx, rt)
	})
	if err != nil {
		logger.ExitMethodWithError("rentOutService.CreateRentOut", err, "customerID", in.CustomerID)
		return nil, err
	}

	logger.ExitMethod("rentOutService.CreateRentOut", "rentOutID", rt.ID)
	return rt, nil
}

func validateRentOutInput(in domain.RentOutInput) error {
	if in.CustomerID <= 0 {
		return domain.NewValidationError("customer_id", "is required")
	}
	if in.RentedOn.IsZero() {
		return domain.NewValidationError("rented_on", "is required")
	}
	if len(in.Items) == 0 {
		return domain.NewValidationError("items", "at least one item is required")
	}
	seen := make(map[int32]bool, len(in.Items))
	for i, item := range in.Items {
		if item.Quantity <= 0 {
			return domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "must be greater than zero")
		}
		if seen[item.ProductID] {
			return domain.NewValidationError(fmt.Sprintf("items[%d].product_id", i),
				"product %d appears more than once", item.ProductID)
		}
		seen[item.ProductID] = true
	}
	return nil
}

func (s *rentOutService) GetRentOut(ctx context.Context, id int32) (*RentOutDetail, error) {
	rt, err := s.repos.RentOuts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	quantities := make(map[int32]ledger.ItemQuantity, len(rt.Items))
	for _, item := range rt.Items {
		quantities[item.ID] = ledger.ItemQuantityInfo(item)
	}
	return &RentOutDetail{
		RentOut:    rt,
		Quantities: quantities,
		Payment:    ledger.PaymentInfo(*rt),
	}, nil
}

func (s *rentOutService) ListRentOuts(ctx context.Context, filter domain.RentOutFilter) ([]domain.RentOut, int32, error) {
	for _, st := range filter.Statuses {
		if !st.IsValid() {
			return nil, 0, domain.NewValidationError("status", "unknown status %q", st)
		}
	}
	for _, st := range filter.PaymentStatuses {
		if !st.IsValid() {
			return nil, 0, domain.NewValidationError("payment_status", "unknown payment status %q", st)
		}
	}
	return s.repos.RentOuts.List(ctx, filter)
}

func (s *rentOutService) DeleteRentOut(ctx context.Context, id int32) error {
	logger.EnterMethod("rentOutService.DeleteRentOut", "rentOutID", id)
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		if _, err := repos.RentOuts.GetForUpdate(ctx, id); err != nil {
			return err
		}
		return repos.RentOuts.SoftDelete(ctx, id)
	})
	if err != nil {
		logger.ExitMethodWithError("rentOutService.DeleteRentOut", err, "rentOutID", id)
		return err
	}
	logger.ExitMethod("rentOutService.DeleteRentOut", "rentOutID", id)
	return nil
}

// RecordPayment records a standalone payment and advances the payment status.
func (s *rentOutService) RecordPayment(ctx context.Context, rentOutID int32, in domain.PaymentInput) (*domain.RentPayment, error) {
	logger.EnterMethod("rentOutService.RecordPayment", "rentOutID", rentOutID, "totalCents", in.TotalCents)

	var payment *domain.RentPayment
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		rt, err := repos.RentOuts.GetForUpdate(ctx, rentOutID)
		if err != nil {
			return err
		}
		next, err := settlement.DecidePayment(rt, in)
		if err != nil {
			return err
		}

		p := newPayment(rentOutID, domain.PaymentTypeRegular, in)
		if err := repos.RentOuts.CreatePayment(ctx, p); err != nil {
			return err
		}
		if err := writeState(ctx, repos, rt, next); err != nil {
			return err
		}
		payment = p
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("rentOutService.RecordPayment", err, "rentOutID", rentOutID)
		return nil, err
	}

	logger.ExitMethod("rentOutService.RecordPayment", "rentOutID", rentOutID, "paymentID", payment.ID)
	return payment, nil
}

// RecordReturn records a return batch, with its optional payment, and
// advances both statuses.
func (s *rentOutService) RecordReturn(ctx context.Context, rentOutID int32, in domain.ReturnInput) (*domain.RentReturn, error) {
	logger.EnterMethod("rentOutService.RecordReturn", "rentOutID", rentOutID, "items", len(in.Items))

	var ret *domain.RentReturn
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		rt, err := repos.RentOuts.GetForUpdate(ctx, rentOutID)
		if err != nil {
			return err
		}
		next, err := settlement.DecideReturn(rt, in)
		if err != nil {
			return err
		}

		r := &domain.RentReturn{
			RentOutID:   rentOutID,
			ReturnedOn:  in.ReturnedOn,
			TotalCents:  in.TotalCents,
			Description: in.Description,
		}
		for _, entry := range in.Items {
			r.Items = append(r.Items, domain.ReturnItem{
				RentOutItemID:   entry.RentOutItemID,
				Quantity:        entry.Quantity,
				UsedDays:        entry.UsedDays,
				RentPerDayCents: entry.RentPerDayCents,
				TotalCents:      entry.TotalCents,
			})
		}
		if in.Payment != nil {
			pin := *in.Payment
			if pin.PaidOn.IsZero() {
				pin.PaidOn = in.ReturnedOn
			}
			r.Payment = newPayment(rentOutID, domain.PaymentTypeReturn, pin)
		}

		if err := repos.RentOuts.CreateReturn(ctx, r); err != nil {
			return err
		}
		if err := writeState(ctx, repos, rt, next); err != nil {
			return err
		}
		ret = r
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("rentOutService.RecordReturn", err, "rentOutID", rentOutID)
		return nil, err
	}

	logger.ExitMethod("rentOutService.RecordReturn", "rentOutID", rentOutID, "returnID", ret.ID)
	return ret, nil
}

func (s *rentOutService) ReconcileStatus(ctx context.Context, rentOutID int32) (bool, error) {
	var drifted bool
	err := s.tx.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
		rt, err := repos.RentOuts.GetForUpdate(ctx, rentOutID)
		if err != nil {
			return err
		}
		derived, ok := settlement.Drifted(rt)
		if !ok {
			return nil
		}

		logger.Warn("Rent-out status drifted from its history",
			"rentOutID", rentOutID,
			"cachedStatus", rt.Status, "derivedStatus", derived.Status,
			"cachedPaymentStatus", rt.PaymentStatus, "derivedPaymentStatus", derived.PaymentStatus)
		drifted = true
		return writeState(ctx, repos, rt, derived)
	})
	if err != nil {
		return false, err
	}
	return drifted, nil
}

func (s *rentOutService) ListActiveRentOutIDs(ctx context.Context) ([]int32, error) {
	return s.repos.RentOuts.ListActiveIDs(ctx)
}

func writeState(ctx context.Context, repos repository.Repositories, rt *domain.RentOut, next settlement.State) error {
	rt.Status = next.Status
	rt.PaymentStatus = next.PaymentStatus
	return repos.RentOuts.UpdateStatus(ctx, rt)
}

func newPayment(rentOutID int32, typ domain.PaymentType, in domain.PaymentInput) *domain.RentPayment {
	return &domain.RentPayment{
		RentOutID:     rentOutID,
		Type:          typ,
		PaidOn:        in.PaidOn,
		ReceivedCents: in.ReceivedCents,
		DiscountCents: in.DiscountCents,
		TotalCents:    in.TotalCents,
		Description:   in.Description,
	}
}
