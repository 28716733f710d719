package domain

import "time"

type RentReturn struct {
	ID          int32        `json:"id"`
	RentOutID   int32        `json:"rent_out_id"`
	ReturnedOn  time.Time    `json:"returned_on"`
	TotalCents  int64        `json:"total_cents"`
	Description string       `json:"description"`
	Items       []ReturnItem `json:"items"`
	// Payment is the payment collected at return time, if any.
	Payment   *RentPayment `json:"payment,omitempty"`
	CreatedOn time.Time    `json:"created_on"`
}

type ReturnItem struct {
	ID              int32 `json:"id"`
	RentReturnID    int32 `json:"rent_return_id"`
	RentOutItemID   int32 `json:"rent_out_item_id"`
	Quantity        int32 `json:"quantity"`
	UsedDays        int32 `json:"used_days"`
	RentPerDayCents int64 `json:"rent_per_day_cents"`
	TotalCents      int64 `json:"total_cents"`
}
