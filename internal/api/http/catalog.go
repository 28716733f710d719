package http

import (
	"net/http"

	"rentout-backend/internal/domain"

	"github.com/shopspring/decimal"
)

type productRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Quantity    int32            `json:"quantity"`
	RentPerDay  *decimal.Decimal `json:"rent_per_day"`
}

func (req productRequest) toDomain(id int32) (*domain.Product, error) {
	rate, err := requiredCents("rent_per_day", req.RentPerDay)
	if err != nil {
		return nil, err
	}
	return &domain.Product{
		ID:              id,
		Name:            req.Name,
		Description:     req.Description,
		Quantity:        req.Quantity,
		RentPerDayCents: rate,
	}, nil
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := req.toDomain(0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.products.CreateProduct(r.Context(), p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, MapProduct(p))
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	detail, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapProductDetail(detail))
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := req.toDomain(id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.products.UpdateProduct(r.Context(), p); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapProduct(p))
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := h.page(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	products, total, err := h.products.ListProducts(r.Context(), r.URL.Query().Get("q"), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res := listResponse[ProductResponse]{Items: make([]ProductResponse, 0, len(products)), TotalCount: total, Page: page, PageSize: pageSize}
	for i := range products {
		res.Items = append(res.Items, MapProduct(&products[i]))
	}
	writeJSON(w, http.StatusOK, res)
}

type customerRequest struct {
	Name          string   `json:"name"`
	Phone         string   `json:"phone"`
	Address       string   `json:"address"`
	IDProofNumber string   `json:"id_proof_number"`
	Notes         string   `json:"notes"`
	ImageKeys     []string `json:"image_keys"`
}

func (req customerRequest) toDomain(id int32) *domain.Customer {
	return &domain.Customer{
		ID:            id,
		Name:          req.Name,
		Phone:         req.Phone,
		Address:       req.Address,
		IDProofNumber: req.IDProofNumber,
		Notes:         req.Notes,
		ImageKeys:     req.ImageKeys,
	}
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c := req.toDomain(0)
	if err := h.customers.CreateCustomer(r.Context(), c); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, MapCustomer(c))
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.customers.GetCustomer(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapCustomer(c))
}

func (h *Handler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c := req.toDomain(id)
	if err := h.customers.UpdateCustomer(r.Context(), c); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapCustomer(c))
}

func (h *Handler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.customers.DeleteCustomer(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SearchCustomers(w http.ResponseWriter, r *http.Request) {
	page, pageSize, err := h.page(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	customers, total, err := h.customers.SearchCustomers(r.Context(), r.URL.Query().Get("q"), page, pageSize)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res := listResponse[CustomerResponse]{Items: make([]CustomerResponse, 0, len(customers)), TotalCount: total, Page: page, PageSize: pageSize}
	for i := range customers {
		res.Items = append(res.Items, MapCustomer(&customers[i]))
	}
	writeJSON(w, http.StatusOK, res)
}
