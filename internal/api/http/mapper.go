package http

import (
	"time"

	"rentout-backend/internal/domain"
	"rentout-backend/internal/ledger"
	"rentout-backend/internal/service"
)

type RentOutItemResponse struct {
	ID                int32  `json:"id"`
	ProductID         int32  `json:"product_id"`
	Quantity          int32  `json:"quantity"`
	RentPerDay        string `json:"rent_per_day"`
	ReturnedQuantity  int32  `json:"returned_quantity"`
	RemainingQuantity int32  `json:"remaining_quantity"`
}

type ReturnItemResponse struct {
	ID            int32  `json:"id"`
	RentOutItemID int32  `json:"rent_out_item_id"`
	Quantity      int32  `json:"quantity"`
	UsedDays      int32  `json:"used_days"`
	RentPerDay    string `json:"rent_per_day"`
	TotalAmount   string `json:"total_amount"`
}

type PaymentResponse struct {
	ID             int32  `json:"id"`
	RentOutID      int32  `json:"rent_out_id"`
	RentReturnID   *int32 `json:"rent_return_id,omitempty"`
	Type           string `json:"type"`
	PaidOn         string `json:"paid_on"`
	ReceivedAmount string `json:"received_amount"`
	DiscountAmount string `json:"discount_amount"`
	TotalAmount    string `json:"total_amount"`
	Description    string `json:"description"`
}

type ReturnResponse struct {
	ID          int32                `json:"id"`
	RentOutID   int32                `json:"rent_out_id"`
	ReturnedOn  string               `json:"returned_on"`
	TotalAmount string               `json:"total_amount"`
	Description string               `json:"description"`
	Items       []ReturnItemResponse `json:"items"`
	Payment     *PaymentResponse     `json:"payment,omitempty"`
}

// RentOutResponse is the list shape; the detail view adds children and totals.
type RentOutResponse struct {
	ID            int32     `json:"id"`
	CustomerID    int32     `json:"customer_id"`
	RentedOn      string    `json:"rented_on"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"payment_status"`
	CreatedOn     time.Time `json:"created_on"`
	UpdatedOn     time.Time `json:"updated_on"`
}

type RentOutDetailResponse struct {
	RentOutResponse
	Items         []RentOutItemResponse `json:"items"`
	Returns       []ReturnResponse      `json:"returns"`
	Payments      []PaymentResponse     `json:"payments"`
	TotalAmount   string                `json:"total_amount"`
	PaidAmount    string                `json:"paid_amount"`
	PendingAmount string                `json:"pending_amount"`
	CreditAmount  string                `json:"credit_amount"`
}

type ProductResponse struct {
	ID                      int32  `json:"id"`
	Name                    string `json:"name"`
	Description             string `json:"description"`
	Quantity                int32  `json:"quantity"`
	RentPerDay              string `json:"rent_per_day"`
	CurrentlyRentedQuantity *int32 `json:"currently_rented_quantity,omitempty"`
	RemainingQuantity       *int32 `json:"remaining_quantity,omitempty"`
}

type CustomerResponse struct {
	ID            int32     `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	IDProofNumber string    `json:"id_proof_number"`
	Notes         string    `json:"notes"`
	ImageKeys     []string  `json:"image_keys"`
	CreatedOn     time.Time `json:"created_on"`
}

func MapRentOut(rt *domain.RentOut) RentOutResponse {
	return RentOutResponse{
		ID:            rt.ID,
		CustomerID:    rt.CustomerID,
		RentedOn:      ledger.FormatDate(rt.RentedOn),
		Description:   rt.Description,
		Status:        string(rt.Status),
		PaymentStatus: string(rt.PaymentStatus),
		CreatedOn:     rt.CreatedOn,
		UpdatedOn:     rt.UpdatedOn,
	}
}

func MapRentOutDetail(d *service.RentOutDetail) RentOutDetailResponse {
	rt := d.RentOut
	res := RentOutDetailResponse{
		RentOutResponse: MapRentOut(rt),
		Items:           make([]RentOutItemResponse, 0, len(rt.Items)),
		Returns:         make([]ReturnResponse, 0, len(rt.Returns)),
		Payments:        make([]PaymentResponse, 0, len(rt.Payments)),
		TotalAmount:     formatCents(d.Payment.TotalCents),
		PaidAmount:      formatCents(d.Payment.PaidCents),
		PendingAmount:   formatCents(d.Payment.PendingCents),
		CreditAmount:    formatCents(d.Payment.CreditCents),
	}
	for _, item := range rt.Items {
		q := d.Quantities[item.ID]
		res.Items = append(res.Items, RentOutItemResponse{
			ID:                item.ID,
			ProductID:         item.ProductID,
			Quantity:          item.Quantity,
			RentPerDay:        formatCents(item.RentPerDayCents),
			ReturnedQuantity:  q.ReturnedQuantity,
			RemainingQuantity: q.RemainingQuantity,
		})
	}
	for i := range rt.Returns {
		res.Returns = append(res.Returns, MapReturn(&rt.Returns[i]))
	}
	for i := range rt.Payments {
		res.Payments = append(res.Payments, MapPayment(&rt.Payments[i]))
	}
	return res
}

func MapReturn(ret *domain.RentReturn) ReturnResponse {
	res := ReturnResponse{
		ID:          ret.ID,
		RentOutID:   ret.RentOutID,
		ReturnedOn:  ledger.FormatDate(ret.ReturnedOn),
		TotalAmount: formatCents(ret.TotalCents),
		Description: ret.Description,
		Items:       make([]ReturnItemResponse, 0, len(ret.Items)),
	}
	for _, ri := range ret.Items {
		res.Items = append(res.Items, ReturnItemResponse{
			ID:            ri.ID,
			RentOutItemID: ri.RentOutItemID,
			Quantity:      ri.Quantity,
			UsedDays:      ri.UsedDays,
			RentPerDay:    formatCents(ri.RentPerDayCents),
			TotalAmount:   formatCents(ri.TotalCents),
		})
	}
	if ret.Payment != nil {
		p := MapPayment(ret.Payment)
		res.Payment = &p
	}
	return res
}

func MapPayment(p *domain.RentPayment) PaymentResponse {
	return PaymentResponse{
		ID:             p.ID,
		RentOutID:      p.RentOutID,
		RentReturnID:   p.RentReturnID,
		Type:           string(p.Type),
		PaidOn:         ledger.FormatDate(p.PaidOn),
		ReceivedAmount: formatCents(p.ReceivedCents),
		DiscountAmount: formatCents(p.DiscountCents),
		TotalAmount:    formatCents(p.TotalCents),
		Description:    p.Description,
	}
}

func MapProduct(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Quantity:    p.Quantity,
		RentPerDay:  formatCents(p.RentPerDayCents),
	}
}

func MapProductDetail(d *service.ProductDetail) ProductResponse {
	res := MapProduct(d.Product)
	rented, remaining := d.Availability.CurrentlyRentedQuantity, d.Availability.RemainingQuantity
	res.CurrentlyRentedQuantity = &rented
	res.RemainingQuantity = &remaining
	return res
}

func MapCustomer(c *domain.Customer) CustomerResponse {
	keys := c.ImageKeys
	if keys == nil {
		keys = []string{}
	}
	return CustomerResponse{
		ID:            c.ID,
		Name:          c.Name,
		Phone:         c.Phone,
		Address:       c.Address,
		IDProofNumber: c.IDProofNumber,
		Notes:         c.Notes,
		ImageKeys:     keys,
		CreatedOn:     c.CreatedOn,
	}
}
