package domain

import "time"

type Customer struct {
	ID            int32     `json:"id"`
	Name          string    `json:"name"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	IDProofNumber string    `json:"id_proof_number"`
	Notes         string    `json:"notes"`
	ImageKeys     []string  `json:"image_keys"`
	Lifecycle     Lifecycle `json:"-"`
	CreatedOn     time.Time `json:"created_on"`
	UpdatedOn     time.Time `json:"updated_on"`
}

func (c *Customer) Validate() error {
	if c.Name == "" {
		return NewValidationError("name", "is required")
	}
	return nil
}
