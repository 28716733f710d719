package ledger

import "rentout-backend/internal/domain"

type PaymentSummary struct {
	TotalCents   int64 `json:"total_cents"`
	PaidCents    int64 `json:"paid_cents"`
	PendingCents int64 `json:"pending_cents"`
	// CreditCents is what has been paid beyond the charges accrued so far.
	CreditCents int64 `json:"credit_cents"`
}

// PaymentInfo totals the charges from returns against the payments received.
// PendingCents never goes below zero; any excess shows up as CreditCents.
func PaymentInfo(rt domain.RentOut) PaymentSummary {
	var total, paid int64
	for _, ret := range rt.Returns {
		total += ret.TotalCents
	}
	for _, p := range rt.Payments {
		paid += p.TotalCents
	}

	s := PaymentSummary{TotalCents: total, PaidCents: paid}
	if total > paid {
		s.PendingCents = total - paid
	} else {
		s.CreditCents = paid - total
	}
	return s
}
