package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"rentout-backend/internal/domain"
	"rentout-backend/internal/repository"

	"github.com/lib/pq"
)

type customerRepository struct {
	db DBTX
}

func NewCustomerRepository(db DBTX) repository.CustomerRepository {
	return &customerRepository{db: db}
}

const customerColumns = `id, name, phone, address, id_proof_number, notes, image_keys, deleted_on, created_on, updated_on`

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `INSERT INTO customers (name, phone, address, id_proof_number, notes, image_keys, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	now := time.Now().UTC()
	err := r.db.QueryRowContext(ctx, query, c.Name, c.Phone, c.Address, c.IDProofNumber, c.Notes, pq.Array(c.ImageKeys), now, now).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	c.CreatedOn, c.UpdatedOn = now, now
	c.Lifecycle = domain.Active()
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "customer", id)
	}
	return c, nil
}

func (r *customerRepository) Update(ctx context.Context, c *domain.Customer) error {
	query := `UPDATE customers SET name=$1, phone=$2, address=$3, id_proof_number=$4, notes=$5, image_keys=$6, updated_on=$7
	          WHERE id=$8 AND deleted_on IS NULL`
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, c.Name, c.Phone, c.Address, c.IDProofNumber, c.Notes, pq.Array(c.ImageKeys), now, c.ID)
	if err != nil {
		return fmt.Errorf("update customer %d: %w", c.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError("customer", c.ID)
	}
	c.UpdatedOn = now
	return nil
}

func (r *customerRepository) SoftDelete(ctx context.Context, id int32) error {
	query := `UPDATE customers SET deleted_on = $1 WHERE id = $2 AND deleted_on IS NULL`
	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError("customer", id)
	}
	return nil
}

// Search matches name or phone and skips deleted customers.
func (r *customerRepository) Search(ctx context.Context, query string, page, pageSize int32) ([]domain.Customer, int32, error) {
	where := " WHERE deleted_on IS NULL"
	args := []any{}
	if query != "" {
		where += " AND (name ILIKE $1 OR phone ILIKE $1)"
		args = append(args, "%"+query+"%")
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM customers"+where, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	stmt := `SELECT ` + customerColumns + ` FROM customers` + where +
		fmt.Sprintf(" ORDER BY created_on DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, pageSize, offset(page, pageSize))

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("search customers: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		customers = append(customers, *c)
	}
	return customers, count, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCustomer(s scanner) (*domain.Customer, error) {
	c := &domain.Customer{}
	var deletedOn sql.NullTime
	err := s.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.IDProofNumber, &c.Notes, pq.Array(&c.ImageKeys), &deletedOn, &c.CreatedOn, &c.UpdatedOn)
	if err != nil {
		return nil, err
	}
	c.Lifecycle = domain.LifecycleFromNullTime(deletedOn)
	return c, nil
}
