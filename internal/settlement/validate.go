package settlement

import (
	"errors"
	"fmt"

	"rentout-backend/internal/domain"
	"rentout-backend/internal/ledger"
)

// ValidateReturn checks a return batch against the persisted state of the
// rent-out. Remaining quantities come from rt, never from the request.
func ValidateReturn(rt *domain.RentOut, in domain.ReturnInput) error {
	if len(in.Items) == 0 {
		return domain.NewValidationError("return_items", "at least one item is required")
	}
	if in.ReturnedOn.Before(rt.RentedOn) {
		return domain.NewValidationError("returned_on", "return date must be >= rent-out date")
	}

	seen := make(map[int32]bool, len(in.Items))
	var sum int64
	for i, entry := range in.Items {
		field := fmt.Sprintf("return_items[%d]", i)

		item := rt.Item(entry.RentOutItemID)
		if item == nil {
			return domain.NewValidationError(field+".rent_out_item_id",
				"rent-out item %d does not belong to rent-out %d", entry.RentOutItemID, rt.ID)
		}
		if seen[entry.RentOutItemID] {
			return domain.NewValidationError(field+".rent_out_item_id",
				"rent-out item %d appears more than once", entry.RentOutItemID)
		}
		seen[entry.RentOutItemID] = true

		if entry.Quantity <= 0 {
			return domain.NewValidationError(field+".quantity", "must be greater than zero")
		}
		if entry.UsedDays < 0 {
			return domain.NewValidationError(field+".used_days", "must not be negative")
		}
		if entry.RentPerDayCents < 0 {
			return domain.NewValidationError(field+".rent_per_day", "must not be negative")
		}

		remaining := ledger.ItemQuantityInfo(*item).RemainingQuantity
		if entry.Quantity > remaining {
			return domain.NewValidationError(field+".quantity",
				"return quantity cannot exceed remaining quantity (%d)", remaining)
		}

		expected, err := ledger.ReturnItemTotal(entry.Quantity, entry.RentPerDayCents, entry.UsedDays)
		if err != nil {
			return domain.NewValidationError(field+".total_amount", "%v", err)
		}
		if entry.TotalCents != expected {
			return domain.NewValidationError(field+".total_amount",
				"%d does not equal quantity * rent_per_day * used_days (%d)", entry.TotalCents, expected)
		}

		if sum, err = addCents(sum, entry.TotalCents); err != nil {
			return domain.NewValidationError("total_amount", "%v", err)
		}
	}

	if in.TotalCents != sum {
		return domain.NewValidationError("total_amount",
			"%d does not equal the sum of item totals (%d)", in.TotalCents, sum)
	}

	if in.Payment != nil {
		return validatePayment("payment.", *in.Payment)
	}
	return nil
}

// ValidatePayment checks the arithmetic of a payment on its own.
func ValidatePayment(in domain.PaymentInput) error {
	return validatePayment("", in)
}

func validatePayment(prefix string, in domain.PaymentInput) error {
	if in.TotalCents < 0 {
		return domain.NewValidationError(prefix+"total_amount", "must not be negative")
	}
	if in.ReceivedCents < 0 {
		return domain.NewValidationError(prefix+"received_amount", "must not be negative")
	}
	if in.DiscountCents < 0 {
		return domain.NewValidationError(prefix+"discount_amount", "must not be negative")
	}
	sum, err := addCents(in.ReceivedCents, in.DiscountCents)
	if err != nil || sum != in.TotalCents {
		return domain.NewValidationError(prefix+"total_amount",
			"received_amount + discount_amount must equal total_amount")
	}
	return nil
}

var errSumOverflow = errors.New("sum overflows")

func addCents(a, b int64) (int64, error) {
	c := a + b
	if (b > 0 && c < a) || (b < 0 && c > a) {
		return 0, errSumOverflow
	}
	return c, nil
}
