package domain

import "time"

type RentOutStatus string

const (
	RentOutStatusPending           RentOutStatus = "PENDING"
	RentOutStatusPartiallyReturned RentOutStatus = "PARTIALLY_RETURNED"
	RentOutStatusReturned          RentOutStatus = "RETURNED"
)

// Rank orders return statuses along their only allowed direction of travel.
func (s RentOutStatus) Rank() int {
	switch s {
	case RentOutStatusPartiallyReturned:
		return 1
	case RentOutStatusReturned:
		return 2
	default:
		return 0
	}
}

func (s RentOutStatus) IsValid() bool {
	switch s {
	case RentOutStatusPending, RentOutStatusPartiallyReturned, RentOutStatusReturned:
		return true
	}
	return false
}

// HoldsStock reports whether a rent-out in this status still has product out with the customer.
func (s RentOutStatus) HoldsStock() bool {
	return s == RentOutStatusPending || s == RentOutStatusPartiallyReturned
}

type PaymentStatus string

const (
	PaymentStatusPending       PaymentStatus = "PENDING"
	PaymentStatusPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentStatusPaid          PaymentStatus = "PAID"
)

func (s PaymentStatus) Rank() int {
	switch s {
	case PaymentStatusPartiallyPaid:
		return 1
	case PaymentStatusPaid:
		return 2
	default:
		return 0
	}
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPartiallyPaid, PaymentStatusPaid:
		return true
	}
	return false
}

// RentOut is one rental order and the aggregate root for its items, returns
// and payments. Status and PaymentStatus are cached projections of the children.
type RentOut struct {
	ID            int32         `json:"id"`
	CustomerID    int32         `json:"customer_id"`
	RentedOn      time.Time     `json:"rented_on"`
	Description   string        `json:"description"`
	Status        RentOutStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	Version       int32         `json:"version"`
	Lifecycle     Lifecycle     `json:"-"`
	Items         []RentOutItem `json:"items"`
	Returns       []RentReturn  `json:"returns"`
	Payments      []RentPayment `json:"payments"`
	CreatedOn     time.Time     `json:"created_on"`
	UpdatedOn     time.Time     `json:"updated_on"`
}

// Item returns the line with the given id, or nil if the rent-out does not own it.
func (r *RentOut) Item(id int32) *RentOutItem {
	for i := range r.Items {
		if r.Items[i].ID == id {
			return &r.Items[i]
		}
	}
	return nil
}

type RentOutItem struct {
	ID              int32 `json:"id"`
	RentOutID       int32 `json:"rent_out_id"`
	ProductID       int32 `json:"product_id"`
	Quantity        int32 `json:"quantity"`
	RentPerDayCents int64 `json:"rent_per_day_cents"`
	// ReturnItems are the return lines that reduced this item, across all returns.
	ReturnItems []ReturnItem `json:"return_items"`
}
