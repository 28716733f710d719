package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"rentout-backend/internal/domain"
	"rentout-backend/internal/logger"
	"rentout-backend/internal/repository"

	"github.com/lib/pq"
)

type rentOutRepository struct {
	db DBTX
}

func NewRentOutRepository(db DBTX) repository.RentOutRepository {
	return &rentOutRepository{db: db}
}

const rentOutColumns = `id, customer_id, rented_on, description, status, payment_status, version, deleted_on, created_on, updated_on`

func (r *rentOutRepository) Create(ctx context.Context, rt *domain.RentOut) error {
	logger.EnterMethod("rentOutRepository.Create", "customerID", rt.CustomerID)

	query := `INSERT INTO rent_outs (customer_id, rented_on, description, status, payment_status, version, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	now := time.Now().UTC()
	err := r.db.QueryRowContext(ctx, query, rt.CustomerID, rt.RentedOn, rt.Description, rt.Status, rt.PaymentStatus, rt.Version, now, now).Scan(&rt.ID)
	if err != nil {
		logger.ExitMethodWithError("rentOutRepository.Create", err)
		return fmt.Errorf("insert rent-out: %w", err)
	}
	rt.CreatedOn, rt.UpdatedOn = now, now
	rt.Lifecycle = domain.Active()

	itemQuery := `INSERT INTO rent_out_items (rent_out_id, product_id, quantity, rent_per_day_cents) VALUES ($1, $2, $3, $4) RETURNING id`
	for i := range rt.Items {
		item := &rt.Items[i]
		item.RentOutID = rt.ID
		if err := r.db.QueryRowContext(ctx, itemQuery, item.RentOutID, item.ProductID, item.Quantity, item.RentPerDayCents).Scan(&item.ID); err != nil {
			logger.ExitMethodWithError("rentOutRepository.Create", err)
			return fmt.Errorf("insert rent-out item: %w", err)
		}
	}

	logger.ExitMethod("rentOutRepository.Create", "rentOutID", rt.ID)
	return nil
}

func (r *rentOutRepository) GetByID(ctx context.Context, id int32) (*domain.RentOut, error) {
	return r.load(ctx, id, false)
}

func (r *rentOutRepository) GetForUpdate(ctx context.Context, id int32) (*domain.RentOut, error) {
	return r.load(ctx, id, true)
}

func (r *rentOutRepository) load(ctx context.Context, id int32, lock bool) (*domain.RentOut, error) {
	query := `SELECT ` + rentOutColumns + ` FROM rent_outs WHERE id = $1 AND deleted_on IS NULL`
	if lock {
		query += ` FOR UPDATE`
	}
	logger.DatabaseCall("SELECT", query, "rentOutID", id)

	rt, err := scanRentOut(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.DatabaseResult("SELECT", 0, nil, "rentOutID", id)
		} else {
			logger.DatabaseResult("SELECT", 0, err)
		}
		return nil, notFound(err, "rent-out", id)
	}

	if rt.Items, err = r.items(ctx, id); err != nil {
		return nil, err
	}
	if rt.Returns, err = r.returns(ctx, id); err != nil {
		return nil, err
	}
	if rt.Payments, err = r.payments(ctx, id); err != nil {
		return nil, err
	}
	returnItems, err := r.returnItems(ctx, id)
	if err != nil {
		return nil, err
	}
	assemble(rt, returnItems)

	logger.DatabaseResult("SELECT", 1, nil, "items", len(rt.Items), "returns", len(rt.Returns), "payments", len(rt.Payments))
	return rt, nil
}

// assemble attaches return lines to both their return and their rent-out
// item, and payments collected at return time to their return.
func assemble(rt *domain.RentOut, returnItems []domain.ReturnItem) {
	returns := make(map[int32]*domain.RentReturn, len(rt.Returns))
	for i := range rt.Returns {
		returns[rt.Returns[i].ID] = &rt.Returns[i]
	}
	items := make(map[int32]*domain.RentOutItem, len(rt.Items))
	for i := range rt.Items {
		items[rt.Items[i].ID] = &rt.Items[i]
	}

	for _, ri := range returnItems {
		if ret, ok := returns[ri.RentReturnID]; ok {
			ret.Items = append(ret.Items, ri)
		}
		if item, ok := items[ri.RentOutItemID]; ok {
			item.ReturnItems = append(item.ReturnItems, ri)
		}
	}

	for _, p := range rt.Payments {
		if p.RentReturnID == nil {
			continue
		}
		if ret, ok := returns[*p.RentReturnID]; ok {
			payment := p
			ret.Payment = &payment
		}
	}
}

func (r *rentOutRepository) items(ctx context.Context, rentOutID int32) ([]domain.RentOutItem, error) {
	query := `SELECT id, rent_out_id, product_id, quantity, rent_per_day_cents FROM rent_out_items WHERE rent_out_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, rentOutID)
	if err != nil {
		return nil, fmt.Errorf("load rent-out items: %w", err)
	}
	defer rows.Close()

	var items []domain.RentOutItem
	for rows.Next() {
		var item domain.RentOutItem
		if err := rows.Scan(&item.ID, &item.RentOutID, &item.ProductID, &item.Quantity, &item.RentPerDayCents); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *rentOutRepository) returns(ctx context.Context, rentOutID int32) ([]domain.RentReturn, error) {
	query := `SELECT id, rent_out_id, returned_on, total_cents, description, created_on FROM rent_returns WHERE rent_out_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, rentOutID)
	if err != nil {
		return nil, fmt.Errorf("load rent returns: %w", err)
	}
	defer rows.Close()

	var returns []domain.RentReturn
	for rows.Next() {
		var ret domain.RentReturn
		if err := rows.Scan(&ret.ID, &ret.RentOutID, &ret.ReturnedOn, &ret.TotalCents, &ret.Description, &ret.CreatedOn); err != nil {
			return nil, err
		}
		returns = append(returns, ret)
	}
	return returns, rows.Err()
}

func (r *rentOutRepository) returnItems(ctx context.Context, rentOutID int32) ([]domain.ReturnItem, error) {
	query := `SELECT ri.id, ri.rent_return_id, ri.rent_out_item_id, ri.quantity, ri.used_days, ri.rent_per_day_cents, ri.total_cents
	          FROM return_items ri JOIN rent_returns rr ON rr.id = ri.rent_return_id
	          WHERE rr.rent_out_id = $1 ORDER BY ri.id`
	rows, err := r.db.QueryContext(ctx, query, rentOutID)
	if err != nil {
		return nil, fmt.Errorf("load return items: %w", err)
	}
	defer rows.Close()
	return scanReturnItems(rows)
}

func scanReturnItems(rows *sql.Rows) ([]domain.ReturnItem, error) {
	var items []domain.ReturnItem
	for rows.Next() {
		var ri domain.ReturnItem
		if err := rows.Scan(&ri.ID, &ri.RentReturnID, &ri.RentOutItemID, &ri.Quantity, &ri.UsedDays, &ri.RentPerDayCents, &ri.TotalCents); err != nil {
			return nil, err
		}
		items = append(items, ri)
	}
	return items, rows.Err()
}

func (r *rentOutRepository) payments(ctx context.Context, rentOutID int32) ([]domain.RentPayment, error) {
	query := `SELECT id, rent_out_id, rent_return_id, type, paid_on, received_cents, discount_cents, total_cents, description, created_on
	          FROM rent_payments WHERE rent_out_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, rentOutID)
	if err != nil {
		return nil, fmt.Errorf("load rent payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.RentPayment
	for rows.Next() {
		var p domain.RentPayment
		var returnID sql.NullInt32
		if err := rows.Scan(&p.ID, &p.RentOutID, &returnID, &p.Type, &p.PaidOn, &p.ReceivedCents, &p.DiscountCents, &p.TotalCents, &p.Description, &p.CreatedOn); err != nil {
			return nil, err
		}
		if returnID.Valid {
			id := returnID.Int32
			p.RentReturnID = &id
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *rentOutRepository) UpdateStatus(ctx context.Context, rt *domain.RentOut) error {
	query := `UPDATE rent_outs SET status=$1, payment_status=$2, version=version+1, updated_on=$3
	          WHERE id=$4 AND version=$5 AND deleted_on IS NULL`
	now := time.Now().UTC()
	logger.DatabaseCall("UPDATE", query, "rentOutID", rt.ID, "version", rt.Version)

	res, err := r.db.ExecContext(ctx, query, rt.Status, rt.PaymentStatus, now, rt.ID, rt.Version)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return fmt.Errorf("update rent-out %d status: %w", rt.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update rent-out %d status: %w", rt.ID, err)
	}
	logger.DatabaseResult("UPDATE", n, nil)
	if n == 0 {
		return fmt.Errorf("rent-out %d at version %d: %w", rt.ID, rt.Version, domain.ErrConcurrencyConflict)
	}

	rt.Version++
	rt.UpdatedOn = now
	return nil
}

// CreateReturn inserts the return, its lines and, when present, the payment
// collected with it.
func (r *rentOutRepository) CreateReturn(ctx context.Context, ret *domain.RentReturn) error {
	query := `INSERT INTO rent_returns (rent_out_id, returned_on, total_cents, description, created_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	now := time.Now().UTC()
	if err := r.db.QueryRowContext(ctx, query, ret.RentOutID, ret.ReturnedOn, ret.TotalCents, ret.Description, now).Scan(&ret.ID); err != nil {
		return fmt.Errorf("insert rent return: %w", err)
	}
	ret.CreatedOn = now

	itemQuery := `INSERT INTO return_items (rent_return_id, rent_out_item_id, quantity, used_days, rent_per_day_cents, total_cents)
	              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	for i := range ret.Items {
		ri := &ret.Items[i]
		ri.RentReturnID = ret.ID
		if err := r.db.QueryRowContext(ctx, itemQuery, ri.RentReturnID, ri.RentOutItemID, ri.Quantity, ri.UsedDays, ri.RentPerDayCents, ri.TotalCents).Scan(&ri.ID); err != nil {
			return fmt.Errorf("insert return item: %w", err)
		}
	}

	if ret.Payment != nil {
		ret.Payment.RentOutID = ret.RentOutID
		ret.Payment.RentReturnID = &ret.ID
		ret.Payment.Type = domain.PaymentTypeReturn
		return r.CreatePayment(ctx, ret.Payment)
	}
	return nil
}

func (r *rentOutRepository) CreatePayment(ctx context.Context, p *domain.RentPayment) error {
	query := `INSERT INTO rent_payments (rent_out_id, rent_return_id, type, paid_on, received_cents, discount_cents, total_cents, description, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now().UTC()
	var returnID sql.NullInt32
	if p.RentReturnID != nil {
		returnID = sql.NullInt32{Int32: *p.RentReturnID, Valid: true}
	}
	err := r.db.QueryRowContext(ctx, query, p.RentOutID, returnID, p.Type, p.PaidOn, p.ReceivedCents, p.DiscountCents, p.TotalCents, p.Description, now).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert rent payment: %w", err)
	}
	p.CreatedOn = now
	return nil
}

func (r *rentOutRepository) SoftDelete(ctx context.Context, id int32) error {
	query := `UPDATE rent_outs SET deleted_on = $1, version = version + 1 WHERE id = $2 AND deleted_on IS NULL`
	res, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("delete rent-out %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError("rent-out", id)
	}
	return nil
}

func (r *rentOutRepository) List(ctx context.Context, f domain.RentOutFilter) ([]domain.RentOut, int32, error) {
	conds := []string{"deleted_on IS NULL"}
	args := []any{}
	if f.CustomerID != 0 {
		args = append(args, f.CustomerID)
		conds = append(conds, fmt.Sprintf("customer_id = $%d", len(args)))
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		args = append(args, pq.Array(statuses))
		conds = append(conds, fmt.Sprintf("status = ANY($%d)", len(args)))
	}
	if len(f.PaymentStatuses) > 0 {
		statuses := make([]string, len(f.PaymentStatuses))
		for i, s := range f.PaymentStatuses {
			statuses[i] = string(s)
		}
		args = append(args, pq.Array(statuses))
		conds = append(conds, fmt.Sprintf("payment_status = ANY($%d)", len(args)))
	}
	where := " WHERE " + strings.Join(conds, " AND ")

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) FROM rent_outs"+where, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count rent-outs: %w", err)
	}

	stmt := `SELECT ` + rentOutColumns + ` FROM rent_outs` + where +
		fmt.Sprintf(" ORDER BY created_on DESC, id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, f.PageSize, offset(f.Page, f.PageSize))

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list rent-outs: %w", err)
	}
	defer rows.Close()

	var rentOuts []domain.RentOut
	for rows.Next() {
		rt, err := scanRentOut(rows)
		if err != nil {
			return nil, 0, err
		}
		rentOuts = append(rentOuts, *rt)
	}
	return rentOuts, count, rows.Err()
}

func (r *rentOutRepository) ListActiveIDs(ctx context.Context) ([]int32, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM rent_outs WHERE deleted_on IS NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list active rent-out ids: %w", err)
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *rentOutRepository) ListByProduct(ctx context.Context, productID int32) ([]domain.RentOut, error) {
	query := `SELECT i.id, i.rent_out_id, i.product_id, i.quantity, i.rent_per_day_cents, ro.status, ro.payment_status
	          FROM rent_out_items i JOIN rent_outs ro ON ro.id = i.rent_out_id
	          WHERE i.product_id = $1 AND ro.deleted_on IS NULL AND ro.status = ANY($2)
	          ORDER BY ro.id, i.id`
	holding := []string{string(domain.RentOutStatusPending), string(domain.RentOutStatusPartiallyReturned)}
	rows, err := r.db.QueryContext(ctx, query, productID, pq.Array(holding))
	if err != nil {
		return nil, fmt.Errorf("list rent-outs for product %d: %w", productID, err)
	}
	defer rows.Close()

	var rentOuts []domain.RentOut
	var itemIDs []int64
	for rows.Next() {
		var item domain.RentOutItem
		var status domain.RentOutStatus
		var paymentStatus domain.PaymentStatus
		if err := rows.Scan(&item.ID, &item.RentOutID, &item.ProductID, &item.Quantity, &item.RentPerDayCents, &status, &paymentStatus); err != nil {
			return nil, err
		}
		if n := len(rentOuts); n == 0 || rentOuts[n-1].ID != item.RentOutID {
			rentOuts = append(rentOuts, domain.RentOut{
				ID:            item.RentOutID,
				Status:        status,
				PaymentStatus: paymentStatus,
				Lifecycle:     domain.Active(),
			})
		}
		last := &rentOuts[len(rentOuts)-1]
		last.Items = append(last.Items, item)
		itemIDs = append(itemIDs, int64(item.ID))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(itemIDs) == 0 {
		return rentOuts, nil
	}

	riRows, err := r.db.QueryContext(ctx, `SELECT id, rent_return_id, rent_out_item_id, quantity, used_days, rent_per_day_cents, total_cents
	          FROM return_items WHERE rent_out_item_id = ANY($1) ORDER BY id`, pq.Array(itemIDs))
	if err != nil {
		return nil, fmt.Errorf("load return items for product %d: %w", productID, err)
	}
	defer riRows.Close()
	returnItems, err := scanReturnItems(riRows)
	if err != nil {
		return nil, err
	}

	for i := range rentOuts {
		assemble(&rentOuts[i], returnItems)
	}
	return rentOuts, nil
}

func scanRentOut(s scanner) (*domain.RentOut, error) {
	rt := &domain.RentOut{}
	var deletedOn sql.NullTime
	err := s.Scan(&rt.ID, &rt.CustomerID, &rt.RentedOn, &rt.Description, &rt.Status, &rt.PaymentStatus, &rt.Version, &deletedOn, &rt.CreatedOn, &rt.UpdatedOn)
	if err != nil {
		return nil, err
	}
	rt.Lifecycle = domain.LifecycleFromNullTime(deletedOn)
	return rt, nil
}
