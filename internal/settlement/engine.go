package settlement

import (
	"rentout-backend/internal/domain"
	"rentout-backend/internal/ledger"
)

// IsFullyReturning reports whether a return batch leaves nothing out: every
// item is either already fully returned and absent from the batch, or present
// with exactly its remaining quantity.
func IsFullyReturning(rt *domain.RentOut, in domain.ReturnInput) bool {
	proposed := make(map[int32]int32, len(in.Items))
	for _, entry := range in.Items {
		proposed[entry.RentOutItemID] += entry.Quantity
	}

	for _, item := range rt.Items {
		remaining := ledger.ItemQuantityInfo(item).RemainingQuantity
		qty, ok := proposed[item.ID]
		if !ok && remaining != 0 {
			return false
		}
		if ok && qty != remaining {
			return false
		}
	}
	return true
}

// DecideReturn validates a return batch and computes the statuses the
// rent-out moves to once it is recorded.
func DecideReturn(rt *domain.RentOut, in domain.ReturnInput) (State, error) {
	if !rt.Lifecycle.IsActive() {
		return State{}, domain.NotFoundError("rent-out", rt.ID)
	}
	if err := ValidateReturn(rt, in); err != nil {
		return State{}, err
	}

	ev := Event{Return: &ReturnEvent{
		ChargedCents:      in.TotalCents,
		ExhaustsRemaining: IsFullyReturning(rt, in),
	}}
	if in.Payment != nil {
		amount := in.Payment.TotalCents
		ev.PaymentCents = &amount
	}
	return Apply(StateOf(rt), ev), nil
}

// DecidePayment validates a standalone payment and computes the resulting statuses.
func DecidePayment(rt *domain.RentOut, in domain.PaymentInput) (State, error) {
	if !rt.Lifecycle.IsActive() {
		return State{}, domain.NotFoundError("rent-out", rt.ID)
	}
	if err := ValidatePayment(in); err != nil {
		return State{}, err
	}

	amount := in.TotalCents
	return Apply(StateOf(rt), Event{PaymentCents: &amount}), nil
}

// Derive replays every recorded return and payment of a rent-out from the
// initial state, ignoring the cached statuses. Returns replay in slice order
// with their attached payment; standalone payments follow.
func Derive(rt *domain.RentOut) State {
	s := InitialState()

	returned := make(map[int32]int32, len(rt.Items))
	for _, ret := range rt.Returns {
		for _, ri := range ret.Items {
			returned[ri.RentOutItemID] += ri.Quantity
		}
		ev := Event{Return: &ReturnEvent{
			ChargedCents:      ret.TotalCents,
			ExhaustsRemaining: allReturned(rt.Items, returned),
		}}
		if ret.Payment != nil {
			amount := ret.Payment.TotalCents
			ev.PaymentCents = &amount
		}
		s = Apply(s, ev)
	}

	for _, p := range rt.Payments {
		if p.RentReturnID != nil && returnHasPayment(rt.Returns, *p.RentReturnID) {
			continue
		}
		amount := p.TotalCents
		s = Apply(s, Event{PaymentCents: &amount})
	}
	return s
}

func allReturned(items []domain.RentOutItem, returned map[int32]int32) bool {
	for _, item := range items {
		if returned[item.ID] < item.Quantity {
			return false
		}
	}
	return true
}

func returnHasPayment(returns []domain.RentReturn, returnID int32) bool {
	for _, ret := range returns {
		if ret.ID == returnID && ret.Payment != nil {
			return true
		}
	}
	return false
}

// Drifted reports whether the cached statuses differ from a full replay.
func Drifted(rt *domain.RentOut) (State, bool) {
	d := Derive(rt)
	return d, d.Status != rt.Status || d.PaymentStatus != rt.PaymentStatus
}
