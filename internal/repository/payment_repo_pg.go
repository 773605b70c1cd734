package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tripgrid/backoffice/internal/domain"
)

type PaymentRepository interface {
	UpsertByOrderID(ctx context.Context, txn *domain.PaymentTransaction) error
	GetByOrderID(ctx context.Context, orderID string) (*domain.PaymentTransaction, error)
	UpdateStatusByOrderID(ctx context.Context, orderID string, status domain.PaymentStatus) (*domain.PaymentTransaction, error)
	ListStaleProcessing(ctx context.Context, olderThan time.Time) ([]domain.PaymentTransaction, error)
}

// querier is the single-statement subset of pgxpool.Pool this repository
// reads and writes through.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

type PGPaymentRepository struct {
	db querier
}

func NewPaymentRepository(db *pgxpool.Pool) PaymentRepository {
	return &PGPaymentRepository{db: db}
}

const paymentColumns = `id, order_id, booking_ref, amount_minor, currency, gateway, status, redirect_url, created_at, updated_at`

// UpsertByOrderID keeps at most one row per merchant order id: a retried
// CreateOrder overwrites the existing row instead of duplicating it.
func (r *PGPaymentRepository) UpsertByOrderID(ctx context.Context, txn *domain.PaymentTransaction) error {
	row := r.db.QueryRow(ctx, `INSERT INTO payment_transactions (order_id, booking_ref, amount_minor, currency, gateway, status, redirect_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (order_id) DO UPDATE SET
			booking_ref = EXCLUDED.booking_ref,
			amount_minor = EXCLUDED.amount_minor,
			currency = EXCLUDED.currency,
			gateway = EXCLUDED.gateway,
			status = EXCLUDED.status,
			redirect_url = EXCLUDED.redirect_url,
			updated_at = now()
		RETURNING id, created_at, updated_at`,
		txn.OrderID, txn.BookingRef, txn.AmountMinor, txn.Currency, txn.Gateway, txn.Status, txn.RedirectURL)
	if err := row.Scan(&txn.ID, &txn.CreatedAt, &txn.UpdatedAt); err != nil {
		return domain.Persistencef("upsert payment transaction", err)
	}
	return nil
}

func (r *PGPaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.PaymentTransaction, error) {
	row := r.db.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payment_transactions WHERE order_id=$1`, orderID)
	var t domain.PaymentTransaction
	if err := row.Scan(&t.ID, &t.OrderID, &t.BookingRef, &t.AmountMinor, &t.Currency, &t.Gateway, &t.Status, &t.RedirectURL, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.NotFoundf("payment order %s", orderID)
		}
		return nil, domain.Persistencef("get payment transaction", err)
	}
	return &t, nil
}

// UpdateStatusByOrderID writes the gateway's current truth. The WHERE
// clause refuses to overwrite a terminal status; when it matches nothing
// the stored row is re-read and returned unchanged.
func (r *PGPaymentRepository) UpdateStatusByOrderID(ctx context.Context, orderID string, status domain.PaymentStatus) (*domain.PaymentTransaction, error) {
	row := r.db.QueryRow(ctx, `UPDATE payment_transactions SET status=$1, updated_at=now()
		WHERE order_id=$2 AND status NOT IN ($3, $4)
		RETURNING `+paymentColumns,
		status, orderID, domain.PaymentStatusSuccess, domain.PaymentStatusFailed)
	var t domain.PaymentTransaction
	err := row.Scan(&t.ID, &t.OrderID, &t.BookingRef, &t.AmountMinor, &t.Currency, &t.Gateway, &t.Status, &t.RedirectURL, &t.CreatedAt, &t.UpdatedAt)
	if err == pgx.ErrNoRows {
		return r.GetByOrderID(ctx, orderID)
	}
	if err != nil {
		return nil, domain.Persistencef("update payment status", err)
	}
	return &t, nil
}

func (r *PGPaymentRepository) ListStaleProcessing(ctx context.Context, olderThan time.Time) ([]domain.PaymentTransaction, error) {
	rows, err := r.db.Query(ctx, `SELECT `+paymentColumns+` FROM payment_transactions WHERE status=$1 AND updated_at <= $2 ORDER BY updated_at`, domain.PaymentStatusProcessing, olderThan)
	if err != nil {
		return nil, domain.Persistencef("list stale payments", err)
	}
	defer rows.Close()

	var stale []domain.PaymentTransaction
	for rows.Next() {
		var t domain.PaymentTransaction
		if err := rows.Scan(&t.ID, &t.OrderID, &t.BookingRef, &t.AmountMinor, &t.Currency, &t.Gateway, &t.Status, &t.RedirectURL, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, domain.Persistencef("scan payment transaction", err)
		}
		stale = append(stale, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistencef("list stale payments", err)
	}
	return stale, nil
}

var _ PaymentRepository = (*PGPaymentRepository)(nil)
