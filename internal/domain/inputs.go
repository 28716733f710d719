package domain

import "time"

// PaymentInput is a proposed payment against a rent-out.
type PaymentInput struct {
	PaidOn        time.Time
	ReceivedCents int64
	DiscountCents int64
	TotalCents    int64
	Description   string
}

// ReturnItemInput is one line of a proposed return batch.
type ReturnItemInput struct {
	RentOutItemID   int32
	Quantity        int32
	UsedDays        int32
	RentPerDayCents int64
	TotalCents      int64
}

// ReturnInput is a proposed return batch with an optional payment collected at return time.
type ReturnInput struct {
	ReturnedOn  time.Time
	Items       []ReturnItemInput
	TotalCents  int64
	Description string
	Payment     *PaymentInput
}

type RentOutItemInput struct {
	ProductID int32
	Quantity  int32
}

// RentOutInput creates a rent-out. RentPerDay is snapshotted from each product.
type RentOutInput struct {
	CustomerID  int32
	RentedOn    time.Time
	Description string
	Items       []RentOutItemInput
}

// RentOutFilter drives rent-out search. Empty slices do not filter.
type RentOutFilter struct {
	CustomerID      int32
	Statuses        []RentOutStatus
	PaymentStatuses []PaymentStatus
	Page            int32
	PageSize        int32
}
