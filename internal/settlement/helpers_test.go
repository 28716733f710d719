package settlement

import (
	"time"

	"rentout-backend/internal/domain"
)

var day = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func newRentOut(items ...domain.RentOutItem) *domain.RentOut {
	rt := &domain.RentOut{
		ID:            1,
		Status:        domain.RentOutStatusPending,
		PaymentStatus: domain.PaymentStatusPending,
		Lifecycle:     domain.Active(),
	}
	for i := range items {
		items[i].RentOutID = rt.ID
		rt.Items = append(rt.Items, items[i])
	}
	return rt
}

func rentOutItem(id, qty int32, rentPerDay int64) domain.RentOutItem {
	return domain.RentOutItem{ID: id, ProductID: id * 10, Quantity: qty, RentPerDayCents: rentPerDay}
}

func returnLine(itemID, qty, usedDays int32, rentPerDay int64) domain.ReturnItemInput {
	return domain.ReturnItemInput{
		RentOutItemID:   itemID,
		Quantity:        qty,
		UsedDays:        usedDays,
		RentPerDayCents: rentPerDay,
		TotalCents:      int64(qty) * rentPerDay * int64(usedDays),
	}
}

func returnBatch(lines ...domain.ReturnItemInput) domain.ReturnInput {
	in := domain.ReturnInput{ReturnedOn: day}
	for _, l := range lines {
		in.Items = append(in.Items, l)
		in.TotalCents += l.TotalCents
	}
	return in
}

func payment(received, discount int64) domain.PaymentInput {
	return domain.PaymentInput{
		PaidOn:        day,
		ReceivedCents: received,
		DiscountCents: discount,
		TotalCents:    received + discount,
	}
}

// recordReturn mirrors what persistence does after a successful DecideReturn.
func recordReturn(rt *domain.RentOut, in domain.ReturnInput, s State) {
	ret := domain.RentReturn{
		ID:         int32(len(rt.Returns) + 1),
		RentOutID:  rt.ID,
		ReturnedOn: in.ReturnedOn,
		TotalCents: in.TotalCents,
	}
	for _, l := range in.Items {
		ri := domain.ReturnItem{
			ID:              int32(len(ret.Items) + 1),
			RentReturnID:    ret.ID,
			RentOutItemID:   l.RentOutItemID,
			Quantity:        l.Quantity,
			UsedDays:        l.UsedDays,
			RentPerDayCents: l.RentPerDayCents,
			TotalCents:      l.TotalCents,
		}
		ret.Items = append(ret.Items, ri)
		item := rt.Item(l.RentOutItemID)
		item.ReturnItems = append(item.ReturnItems, ri)
	}
	if in.Payment != nil {
		id := ret.ID
		p := paymentRow(rt, *in.Payment, domain.PaymentTypeReturn, &id)
		ret.Payment = &p
		rt.Payments = append(rt.Payments, p)
	}
	rt.Returns = append(rt.Returns, ret)
	rt.Status = s.Status
	rt.PaymentStatus = s.PaymentStatus
}

func recordPayment(rt *domain.RentOut, in domain.PaymentInput, s State) {
	rt.Payments = append(rt.Payments, paymentRow(rt, in, domain.PaymentTypeRegular, nil))
	rt.Status = s.Status
	rt.PaymentStatus = s.PaymentStatus
}

func paymentRow(rt *domain.RentOut, in domain.PaymentInput, typ domain.PaymentType, returnID *int32) domain.RentPayment {
	return domain.RentPayment{
		ID:            int32(len(rt.Payments) + 1),
		RentOutID:     rt.ID,
		RentReturnID:  returnID,
		Type:          typ,
		PaidOn:        in.PaidOn,
		ReceivedCents: in.ReceivedCents,
		DiscountCents: in.DiscountCents,
		TotalCents:    in.TotalCents,
	}
}
