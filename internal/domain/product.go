package domain

import "time"

type Product struct {
	ID              int32     `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Quantity        int32     `json:"quantity"`
	RentPerDayCents int64     `json:"rent_per_day_cents"`
	CreatedOn       time.Time `json:"created_on"`
	UpdatedOn       time.Time `json:"updated_on"`
}

// Validate checks the fields an admin can edit.
func (p *Product) Validate() error {
	if p.Name == "" {
		return NewValidationError("name", "is required")
	}
	if p.Quantity < 0 {
		return NewValidationError("quantity", "must not be negative")
	}
	if p.RentPerDayCents < 0 {
		return NewValidationError("rent_per_day", "must not be negative")
	}
	return nil
}
