package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"rentout-backend/internal/domain"
	"rentout-backend/internal/repository"
	"rentout-backend/internal/repository/postgres"
	"rentout-backend/internal/settlement"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	rentedOn = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	now      = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
)

var rentOutCols = []string{"id", "customer_id", "rented_on", "description", "status", "payment_status", "version", "deleted_on", "created_on", "updated_on"}

// expectAggregate queues the five queries that load one rent-out: one item
// of 5 units with 2 returned, one return with an attached payment, and one
// standalone payment.
func expectAggregate(mock sqlmock.Sqlmock, id int32, lock bool) {
	q := "SELECT (.+) FROM rent_outs WHERE id = \\$1 AND deleted_on IS NULL"
	if lock {
		q += " FOR UPDATE"
	}
	mock.ExpectQuery(q).WithArgs(id).
		WillReturnRows(sqlmock.NewRows(rentOutCols).
			AddRow(id, 7, rentedOn, "", "PARTIALLY_RETURNED", "PARTIALLY_PAID", 3, nil, now, now))

	mock.ExpectQuery("SELECT (.+) FROM rent_out_items WHERE rent_out_id = \\$1").WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "rent_out_id", "product_id", "quantity", "rent_per_day_cents"}).
			AddRow(11, id, 3, 5, 1000))

	mock.ExpectQuery("SELECT (.+) FROM rent_returns WHERE rent_out_id = \\$1").WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "rent_out_id", "returned_on", "total_cents", "description", "created_on"}).
			AddRow(21, id, now, 8000, "", now))

	mock.ExpectQuery("SELECT (.+) FROM rent_payments WHERE rent_out_id = \\$1").WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "rent_out_id", "rent_return_id", "type", "paid_on", "received_cents", "discount_cents", "total_cents", "description", "created_on"}).
			AddRow(31, id, 21, "RETURN", now, 5000, 0, 5000, "", now).
			AddRow(32, id, nil, "REGULAR", now, 1000, 0, 1000, "", now))

	mock.ExpectQuery("SELECT (.+) FROM return_items ri JOIN rent_returns rr").WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "rent_return_id", "rent_out_item_id", "quantity", "used_days", "rent_per_day_cents", "total_cents"}).
			AddRow(41, 21, 11, 2, 4, 1000, 8000))
}

func TestRentOutRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentOutRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		expectAggregate(mock, 1, false)

		rt, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, domain.RentOutStatusPartiallyReturned, rt.Status)
		assert.Equal(t, int32(3), rt.Version)
		assert.True(t, rt.Lifecycle.IsActive())

		require.Len(t, rt.Items, 1)
		require.Len(t, rt.Items[0].ReturnItems, 1)
		assert.Equal(t, int32(2), rt.Items[0].ReturnItems[0].Quantity)

		require.Len(t, rt.Returns, 1)
		require.Len(t, rt.Returns[0].Items, 1)
		require.NotNil(t, rt.Returns[0].Payment)
		assert.Equal(t, int32(31), rt.Returns[0].Payment.ID)

		require.Len(t, rt.Payments, 2)
		assert.Nil(t, rt.Payments[1].RentReturnID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rent_outs WHERE id = \\$1").WithArgs(int32(2)).
			WillReturnRows(sqlmock.NewRows(rentOutCols))

		rt, err := repo.GetByID(ctx, 2)
		assert.Nil(t, rt)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRentOutRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentOutRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rt := &domain.RentOut{ID: 1, Status: domain.RentOutStatusReturned, PaymentStatus: domain.PaymentStatusPaid, Version: 3}
		mock.ExpectExec("UPDATE rent_outs SET status").
			WithArgs(rt.Status, rt.PaymentStatus, sqlmock.AnyArg(), rt.ID, int32(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(ctx, rt)
		assert.NoError(t, err)
		assert.Equal(t, int32(4), rt.Version)
	})

	t.Run("Stale version", func(t *testing.T) {
		rt := &domain.RentOut{ID: 1, Status: domain.RentOutStatusReturned, PaymentStatus: domain.PaymentStatusPaid, Version: 3}
		mock.ExpectExec("UPDATE rent_outs SET status").
			WithArgs(rt.Status, rt.PaymentStatus, sqlmock.AnyArg(), rt.ID, int32(3)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(ctx, rt)
		assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
		assert.Equal(t, int32(3), rt.Version)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRentOutRepository_CreateReturn(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentOutRepository(db)
	ctx := context.Background()

	t.Run("With payment", func(t *testing.T) {
		ret := &domain.RentReturn{
			RentOutID:  1,
			ReturnedOn: now,
			TotalCents: 2000,
			Items: []domain.ReturnItem{
				{RentOutItemID: 11, Quantity: 1, UsedDays: 2, RentPerDayCents: 1000, TotalCents: 2000},
			},
			Payment: &domain.RentPayment{PaidOn: now, ReceivedCents: 2000, TotalCents: 2000},
		}

		mock.ExpectQuery("INSERT INTO rent_returns").
			WithArgs(int32(1), now, int64(2000), "", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(21))
		mock.ExpectQuery("INSERT INTO return_items").
			WithArgs(int32(21), int32(11), int32(1), int32(2), int64(1000), int64(2000)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(41))
		mock.ExpectQuery("INSERT INTO rent_payments").
			WithArgs(int32(1), int64(21), domain.PaymentTypeReturn, now, int64(2000), int64(0), int64(2000), "", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(31))

		err := repo.CreateReturn(ctx, ret)
		require.NoError(t, err)
		assert.Equal(t, int32(21), ret.ID)
		assert.Equal(t, int32(41), ret.Items[0].ID)
		assert.Equal(t, int32(31), ret.Payment.ID)
		require.NotNil(t, ret.Payment.RentReturnID)
		assert.Equal(t, int32(21), *ret.Payment.RentReturnID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRentOutRepository_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentOutRepository(db)
	ctx := context.Background()

	t.Run("Filters by customer and status", func(t *testing.T) {
		filter := domain.RentOutFilter{
			CustomerID: 7,
			Statuses:   []domain.RentOutStatus{domain.RentOutStatusPending, domain.RentOutStatusPartiallyReturned},
			Page:       2,
			PageSize:   10,
		}

		mock.ExpectQuery("SELECT count\\(\\*\\) FROM rent_outs WHERE deleted_on IS NULL AND customer_id = \\$1 AND status = ANY\\(\\$2\\)").
			WithArgs(int32(7), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))
		mock.ExpectQuery("SELECT (.+) FROM rent_outs WHERE (.+) ORDER BY created_on DESC, id DESC LIMIT \\$3 OFFSET \\$4").
			WithArgs(int32(7), sqlmock.AnyArg(), int32(10), int32(10)).
			WillReturnRows(sqlmock.NewRows(rentOutCols).
				AddRow(1, 7, rentedOn, "", "PENDING", "PENDING", 1, nil, now, now))

		rentOuts, total, err := repo.List(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int32(11), total)
		require.Len(t, rentOuts, 1)
		assert.Equal(t, domain.PaymentStatusPending, rentOuts[0].PaymentStatus)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRentOutRepository_ListByProduct(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewRentOutRepository(db)
	ctx := context.Background()

	t.Run("Groups lines by rent-out", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM rent_out_items i JOIN rent_outs ro").
			WithArgs(int32(3), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id", "rent_out_id", "product_id", "quantity", "rent_per_day_cents", "status", "payment_status"}).
				AddRow(11, 1, 3, 5, 1000, "PARTIALLY_RETURNED", "PENDING").
				AddRow(12, 2, 3, 4, 1000, "PENDING", "PENDING"))
		mock.ExpectQuery("SELECT (.+) FROM return_items WHERE rent_out_item_id = ANY\\(\\$1\\)").
			WithArgs(pq.Array([]int64{11, 12})).
			WillReturnRows(sqlmock.NewRows([]string{"id", "rent_return_id", "rent_out_item_id", "quantity", "used_days", "rent_per_day_cents", "total_cents"}).
				AddRow(41, 21, 11, 2, 4, 1000, 8000))

		rentOuts, err := repo.ListByProduct(ctx, 3)
		require.NoError(t, err)
		require.Len(t, rentOuts, 2)
		assert.Len(t, rentOuts[0].Items[0].ReturnItems, 1)
		assert.Empty(t, rentOuts[1].Items[0].ReturnItems)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_WithinTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	store := postgres.NewStore(db)
	ctx := context.Background()

	t.Run("Rejected return writes nothing and rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		expectAggregate(mock, 1, true)
		mock.ExpectRollback()

		err := store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
			rt, err := repos.RentOuts.GetForUpdate(ctx, 1)
			if err != nil {
				return err
			}
			in := domain.ReturnInput{
				ReturnedOn: now,
				Items:      []domain.ReturnItemInput{{RentOutItemID: 11, Quantity: 4, UsedDays: 1, RentPerDayCents: 1000, TotalCents: 4000}},
				TotalCents: 4000,
			}
			_, err = settlement.DecideReturn(rt, in)
			return err
		})

		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, err.Error(), "return quantity cannot exceed remaining quantity (3)")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Commit", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE rent_outs SET deleted_on").
			WithArgs(sqlmock.AnyArg(), int32(5)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
			return repos.RentOuts.SoftDelete(ctx, 5)
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Serialization failure is a conflict", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE rent_outs SET deleted_on").
			WithArgs(sqlmock.AnyArg(), int32(5)).
			WillReturnError(&pq.Error{Code: "40001", Message: "could not serialize access"})
		mock.ExpectRollback()

		err := store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
			return repos.RentOuts.SoftDelete(ctx, 5)
		})
		assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Begin failure", func(t *testing.T) {
		mock.ExpectBegin().WillReturnError(errors.New("connection refused"))

		called := false
		err := store.WithinTx(ctx, func(ctx context.Context, repos repository.Repositories) error {
			called = true
			return nil
		})
		assert.Error(t, err)
		assert.False(t, called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
