package postgres

import (
	"context"
	"fmt"
	"time"

	"rentout-backend/internal/domain"
	"rentout-backend/internal/logger"
	"rentout-backend/internal/repository"
)

type productRepository struct {
	db DBTX
}

func NewProductRepository(db DBTX) repository.ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, description, quantity, rent_per_day_cents, created_on, updated_on`

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	query := `INSERT INTO products (name, description, quantity, rent_per_day_cents, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	now := time.Now().UTC()
	logger.DatabaseCall("INSERT", query, "name", p.Name)
	err := r.db.QueryRowContext(ctx, query, p.Name, p.Description, p.Quantity, p.RentPerDayCents, now, now).Scan(&p.ID)
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err)
		return fmt.Errorf("insert product: %w", err)
	}
	p.CreatedOn, p.UpdatedOn = now, now
	logger.DatabaseResult("INSERT", 1, nil, "product_id", p.ID)
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id int32) (*domain.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

func (r *productRepository) GetForUpdate(ctx context.Context, id int32) (*domain.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

func (r *productRepository) get(ctx context.Context, query string, id int32) (*domain.Product, error) {
	p := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Description, &p.Quantity, &p.RentPerDayCents, &p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		return nil, notFound(err, "product", id)
	}
	return p, nil
}

func (r *productRepository) Update(ctx context.Context, p *domain.Product) error {
	query := `UPDATE products SET name=$1, description=$2, quantity=$3, rent_per_day_cents=$4, updated_on=$5 WHERE id=$6`
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, p.Name, p.Description, p.Quantity, p.RentPerDayCents, now, p.ID)
	if err != nil {
		return fmt.Errorf("update product %d: %w", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError("product", p.ID)
	}
	p.UpdatedOn = now
	return nil
}

func (r *productRepository) List(ctx context.Context, query string, page, pageSize int32) ([]domain.Product, int32, error) {
	where := ""
	args := []any{}
	if query != "" {
		where = " WHERE name ILIKE $1"
		args = append(args, "%"+query+"%")
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM products"+where, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	stmt := `SELECT ` + productColumns + ` FROM products` + where +
		fmt.Sprintf(" ORDER BY name, id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, pageSize, offset(page, pageSize))

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Quantity, &p.RentPerDayCents, &p.CreatedOn, &p.UpdatedOn); err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	return products, count, rows.Err()
}
