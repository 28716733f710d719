// Package settlement decides how a rent-out's return status and payment
// status move when returns and payments are recorded against it.
//
// Every decision, incremental or replayed, goes through Apply so the cached
// statuses on a rent-out always equal what a replay of its children produces.
package settlement

import "rentout-backend/internal/domain"

// State is the settlement projection of a rent-out.
type State struct {
	Status        domain.RentOutStatus
	PaymentStatus domain.PaymentStatus
	ChargedCents  int64
	PaidCents     int64
}

// ReturnEvent is a return batch that has already passed validation.
type ReturnEvent struct {
	ChargedCents int64
	// ExhaustsRemaining is true when, after this batch, no item has quantity left out.
	ExhaustsRemaining bool
}

// Event is one recorded return (possibly with a payment) or one standalone payment.
type Event struct {
	Return       *ReturnEvent
	PaymentCents *int64
}

// InitialState is a rent-out with nothing returned and nothing paid.
func InitialState() State {
	return State{
		Status:        domain.RentOutStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
	}
}

// StateOf projects the cached statuses and child totals of a rent-out.
func StateOf(rt *domain.RentOut) State {
	s := State{Status: rt.Status, PaymentStatus: rt.PaymentStatus}
	for _, ret := range rt.Returns {
		s.ChargedCents += ret.TotalCents
	}
	for _, p := range rt.Payments {
		s.PaidCents += p.TotalCents
	}
	return s
}

// Apply is the reducer. Statuses only move forward.
func Apply(prior State, ev Event) State {
	next := prior
	status := prior.Status
	if ev.Return != nil {
		next.ChargedCents += ev.Return.ChargedCents
		if ev.Return.ExhaustsRemaining {
			status = domain.RentOutStatusReturned
		} else {
			status = domain.RentOutStatusPartiallyReturned
		}
	}
	next.Status = laterStatus(prior.Status, status)

	if ev.PaymentCents != nil {
		next.PaidCents += *ev.PaymentCents
	}

	paymentStatus := prior.PaymentStatus
	switch {
	case next.Status == domain.RentOutStatusReturned && next.PaidCents >= next.ChargedCents:
		paymentStatus = domain.PaymentStatusPaid
	case ev.PaymentCents != nil:
		paymentStatus = domain.PaymentStatusPartiallyPaid
	}
	next.PaymentStatus = laterPaymentStatus(prior.PaymentStatus, paymentStatus)

	return next
}

func laterStatus(a, b domain.RentOutStatus) domain.RentOutStatus {
	if b.Rank() > a.Rank() {
		return b
	}
	if !a.IsValid() {
		return domain.RentOutStatusPending
	}
	return a
}

func laterPaymentStatus(a, b domain.PaymentStatus) domain.PaymentStatus {
	if b.Rank() > a.Rank() {
		return b
	}
	if !a.IsValid() {
		return domain.PaymentStatusPending
	}
	return a
}
