package settlement

import (
	"math/rand"
	"testing"

	"rentout-backend/internal/domain"
	"rentout-backend/internal/ledger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// simulate drives a rent-out through random returns and payments, recording
// every accepted mutation the way the orchestrator would.
func simulate(t *testing.T, r *rand.Rand) *domain.RentOut {
	var items []domain.RentOutItem
	for id := int32(1); id <= int32(1+r.Intn(3)); id++ {
		items = append(items, rentOutItem(id, int32(1+r.Intn(6)), int64(100*(1+r.Intn(5)))))
	}
	rt := newRentOut(items...)

	for step := 0; step < 12; step++ {
		prior := StateOf(rt)

		if r.Intn(2) == 0 {
			p := payment(int64(r.Intn(3000)), int64(r.Intn(200)))
			s, err := DecidePayment(rt, p)
			require.NoError(t, err)
			recordPayment(rt, p, s)
		} else {
			var lines []domain.ReturnItemInput
			for _, item := range rt.Items {
				remaining := ledger.ItemQuantityInfo(item).RemainingQuantity
				if remaining == 0 || r.Intn(2) == 0 {
					continue
				}
				lines = append(lines, returnLine(item.ID, int32(1+r.Intn(int(remaining))), int32(r.Intn(5)), item.RentPerDayCents))
			}
			if len(lines) == 0 {
				continue
			}
			in := returnBatch(lines...)
			if r.Intn(3) == 0 {
				p := payment(int64(r.Intn(4000)), 0)
				in.Payment = &p
			}
			s, err := DecideReturn(rt, in)
			require.NoError(t, err)
			recordReturn(rt, in, s)
		}

		assert.GreaterOrEqual(t, rt.Status.Rank(), prior.Status.Rank(), "return status regressed")
		assert.GreaterOrEqual(t, rt.PaymentStatus.Rank(), prior.PaymentStatus.Rank(), "payment status regressed")
	}
	return rt
}

func TestProperty_CachedStatusEqualsReplay(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		rt := simulate(t, r)

		d := Derive(rt)
		assert.Equal(t, rt.Status, d.Status)
		assert.Equal(t, rt.PaymentStatus, d.PaymentStatus)

		_, drifted := Drifted(rt)
		assert.False(t, drifted)
	}
}

func TestProperty_ReplayOrderDoesNotMatter(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		rt := simulate(t, r)
		want := Derive(rt)

		shuffled := *rt
		shuffled.Payments = append([]domain.RentPayment(nil), rt.Payments...)
		r.Shuffle(len(shuffled.Payments), func(a, b int) {
			shuffled.Payments[a], shuffled.Payments[b] = shuffled.Payments[b], shuffled.Payments[a]
		})
		shuffled.Returns = append([]domain.RentReturn(nil), rt.Returns...)
		r.Shuffle(len(shuffled.Returns), func(a, b int) {
			shuffled.Returns[a], shuffled.Returns[b] = shuffled.Returns[b], shuffled.Returns[a]
		})

		got := Derive(&shuffled)
		assert.Equal(t, want.Status, got.Status)
		assert.Equal(t, want.PaymentStatus, got.PaymentStatus)
	}
}

func TestProperty_InvariantsHold(t *testing.T) {
	r := rand.New(rand.NewSource(99))
	for i := 0; i < 100; i++ {
		rt := simulate(t, r)

		for _, item := range rt.Items {
			info := ledger.ItemQuantityInfo(item)
			assert.LessOrEqual(t, info.ReturnedQuantity, item.Quantity)
		}
		for _, ret := range rt.Returns {
			for _, ri := range ret.Items {
				assert.Equal(t, int64(ri.Quantity)*ri.RentPerDayCents*int64(ri.UsedDays), ri.TotalCents)
			}
		}
		for _, p := range rt.Payments {
			assert.Equal(t, p.TotalCents, p.ReceivedCents+p.DiscountCents)
		}
		assert.GreaterOrEqual(t, ledger.PaymentInfo(*rt).PendingCents, int64(0))
	}
}

func TestDrifted_DetectsCorruptedCache(t *testing.T) {
	rt := newRentOut(rentOutItem(1, 2, 100))
	in := returnBatch(returnLine(1, 1, 1, 100))
	s, err := DecideReturn(rt, in)
	require.NoError(t, err)
	recordReturn(rt, in, s)

	rt.Status = domain.RentOutStatusReturned
	d, drifted := Drifted(rt)
	assert.True(t, drifted)
	assert.Equal(t, domain.RentOutStatusPartiallyReturned, d.Status)
}
