package domain

import "time"

type PaymentType string

const (
	PaymentTypeRegular PaymentType = "REGULAR"
	PaymentTypeReturn  PaymentType = "RETURN"
)

type RentPayment struct {
	ID            int32       `json:"id"`
	RentOutID     int32       `json:"rent_out_id"`
	RentReturnID  *int32      `json:"rent_return_id,omitempty"`
	Type          PaymentType `json:"type"`
	PaidOn        time.Time   `json:"paid_on"`
	ReceivedCents int64       `json:"received_cents"`
	DiscountCents int64       `json:"discount_cents"`
	TotalCents    int64       `json:"total_cents"`
	Description   string      `json:"description"`
	CreatedOn     time.Time   `json:"created_on"`
}
