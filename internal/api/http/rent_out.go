package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"rentout-backend/internal/domain"
	"rentout-backend/internal/ledger"

	"github.com/shopspring/decimal"
)

type rentOutItemRequest struct {
	ProductID int32 `json:"product_id"`
	Quantity  int32 `json:"quantity"`
}

type createRentOutRequest struct {
	CustomerID  int32                `json:"customer_id"`
	RentedOn    string               `json:"rented_on"`
	Description string               `json:"description"`
	Items       []rentOutItemRequest `json:"items"`
}

type paymentRequest struct {
	PaidOn         string           `json:"paid_on"`
	ReceivedAmount *decimal.Decimal `json:"received_amount"`
	DiscountAmount *decimal.Decimal `json:"discount_amount"`
	TotalAmount    *decimal.Decimal `json:"total_amount"`
	Description    string           `json:"description"`
}

// returnItemRequest leaves used_days, rent_per_day and total_amount optional;
// missing values are filled from the rent-out before validation.
type returnItemRequest struct {
	RentOutItemID int32            `json:"rent_out_item_id"`
	Quantity      int32            `json:"quantity"`
	UsedDays      *int32           `json:"used_days"`
	RentPerDay    *decimal.Decimal `json:"rent_per_day"`
	TotalAmount   *decimal.Decimal `json:"total_amount"`
}

type returnRequest struct {
	ReturnedOn  string              `json:"returned_on"`
	Description string              `json:"description"`
	Items       []returnItemRequest `json:"items"`
	TotalAmount *decimal.Decimal    `json:"total_amount"`
	Payment     *paymentRequest     `json:"payment"`
}

func (h *Handler) CreateRentOut(w http.ResponseWriter, r *http.Request) {
	var req createRentOutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rentedOn, err := parseDate("rented_on", req.RentedOn, today())
	if err != nil {
		writeError(w, r, err)
		return
	}

	in := domain.RentOutInput{
		CustomerID:  req.CustomerID,
		RentedOn:    rentedOn,
		Description: req.Description,
	}
	for _, item := range req.Items {
		in.Items = append(in.Items, domain.RentOutItemInput{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	rt, err := h.rentOuts.CreateRentOut(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	detail, err := h.rentOuts.GetRentOut(r.Context(), rt.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, MapRentOutDetail(detail))
}

func (h *Handler) GetRentOut(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	detail, err := h.rentOuts.GetRentOut(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapRentOutDetail(detail))
}

func (h *Handler) ListRentOuts(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := h.page(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	q := r.URL.Query()
	filter := domain.RentOutFilter{Page: page, PageSize: pageSize}

	if v := q.Get("customer_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			writeError(w, r, domain.NewValidationError("customer_id", "must be an integer"))
			return
		}
		filter.CustomerID = int32(id)
	}
	for _, s := range splitList(q["status"]) {
		filter.Statuses = append(filter.Statuses, domain.RentOutStatus(strings.ToUpper(s)))
	}
	for _, s := range splitList(q["payment_status"]) {
		filter.PaymentStatuses = append(filter.PaymentStatuses, domain.PaymentStatus(strings.ToUpper(s)))
	}

	rentOuts, total, err := h.rentOuts.ListRentOuts(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res := listResponse[RentOutResponse]{Items: make([]RentOutResponse, 0, len(rentOuts)), TotalCount: total, Page: page, PageSize: pageSize}
	for i := range rentOuts {
		res.Items = append(res.Items, MapRentOut(&rentOuts[i]))
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) DeleteRentOut(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.rentOuts.DeleteRentOut(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req paymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in, err := toPaymentInput("", req, today())
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.rentOuts.RecordPayment(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, MapPayment(p))
}

func (h *Handler) RecordReturn(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req returnRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	// Defaults come from the rent-out's immutable fields, so reading it
	// outside the settlement transaction is safe.
	detail, err := h.rentOuts.GetRentOut(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	in, err := toReturnInput(detail.RentOut, req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	ret, err := h.rentOuts.RecordReturn(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, MapReturn(ret))
}

type reconcileResponse struct {
	RentOutID int32 `json:"rent_out_id"`
	Corrected bool  `json:"corrected"`
}

func (h *Handler) ReconcileRentOut(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	corrected, err := h.rentOuts.ReconcileStatus(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reconcileResponse{RentOutID: id, Corrected: corrected})
}

func toPaymentInput(prefix string, req paymentRequest, defaultDate time.Time) (domain.PaymentInput, error) {
	paidOn, err := parseDate(prefix+"paid_on", req.PaidOn, defaultDate)
	if err != nil {
		return domain.PaymentInput{}, err
	}
	received, err := requiredCents(prefix+"received_amount", req.ReceivedAmount)
	if err != nil {
		return domain.PaymentInput{}, err
	}
	discount, err := optionalCents(prefix+"discount_amount", req.DiscountAmount, 0)
	if err != nil {
		return domain.PaymentInput{}, err
	}
	total, err := optionalCents(prefix+"total_amount", req.TotalAmount, received+discount)
	if err != nil {
		return domain.PaymentInput{}, err
	}
	return domain.PaymentInput{
		PaidOn:        paidOn,
		ReceivedCents: received,
		DiscountCents: discount,
		TotalCents:    total,
		Description:   req.Description,
	}, nil
}

func toReturnInput(rt *domain.RentOut, req returnRequest) (domain.ReturnInput, error) {
	returnedOn, err := parseDate("returned_on", req.ReturnedOn, today())
	if err != nil {
		return domain.ReturnInput{}, err
	}
	in := domain.ReturnInput{ReturnedOn: returnedOn, Description: req.Description}

	var defaultDays int32
	if len(req.Items) > 0 {
		if defaultDays, err = ledger.UsedDays(rt.RentedOn, returnedOn); err != nil {
			return domain.ReturnInput{}, domain.NewValidationError("returned_on", "%v", err)
		}
	}

	var sum int64
	for i, item := range req.Items {
		field := "return_items[" + strconv.Itoa(i) + "]"

		var snapshot int64
		if line := rt.Item(item.RentOutItemID); line != nil {
			snapshot = line.RentPerDayCents
		}
		rate, err := optionalCents(field+".rent_per_day", item.RentPerDay, snapshot)
		if err != nil {
			return domain.ReturnInput{}, err
		}
		days := defaultDays
		if item.UsedDays != nil {
			days = *item.UsedDays
		}

		var computed int64
		if item.TotalAmount == nil {
			if computed, err = ledger.ReturnItemTotal(item.Quantity, rate, days); err != nil {
				return domain.ReturnInput{}, domain.NewValidationError(field+".total_amount", "%v", err)
			}
		}
		total, err := optionalCents(field+".total_amount", item.TotalAmount, computed)
		if err != nil {
			return domain.ReturnInput{}, err
		}

		in.Items = append(in.Items, domain.ReturnItemInput{
			RentOutItemID:   item.RentOutItemID,
			Quantity:        item.Quantity,
			UsedDays:        days,
			RentPerDayCents: rate,
			TotalCents:      total,
		})
		sum += total
	}

	if in.TotalCents, err = optionalCents("total_amount", req.TotalAmount, sum); err != nil {
		return domain.ReturnInput{}, err
	}

	if req.Payment != nil {
		p, err := toPaymentInput("payment.", *req.Payment, returnedOn)
		if err != nil {
			return domain.ReturnInput{}, err
		}
		in.Payment = &p
	}
	return in, nil
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func parseDate(field, s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	t, err := ledger.ParseDate(s)
	if err != nil {
		return time.Time{}, domain.NewValidationError(field, "%v", err)
	}
	return t, nil
}

// splitList accepts both repeated parameters and comma-separated values.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
