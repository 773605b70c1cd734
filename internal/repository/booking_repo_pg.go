package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tripgrid/backoffice/internal/domain"
)

type BookingRepository interface {
	CreateWithPassengers(ctx context.Context, booking *domain.Booking) (*CompositeResult, error)
	GetByRef(ctx context.Context, ref string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, ref string, status domain.BookingStatus) (*domain.Booking, error)
}

type PGBookingRepository struct {
	db     *pgxpool.Pool
	writer *CompositeWriter
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db, writer: NewCompositeWriter(db)}
}

func (r *PGBookingRepository) CreateWithPassengers(ctx context.Context, booking *domain.Booking) (*CompositeResult, error) {
	rows := make([][]interface{}, 0, len(booking.Passengers))
	for _, p := range booking.Passengers {
		rows = append(rows, []interface{}{p.FirstName, p.LastName, p.Age, p.PassportNo})
	}

	res, err := r.writer.Insert(ctx, CompositeInsert{
		Table: "bookings",
		Columns: []string{
			"ref", "tour_id", "customer_name", "customer_email", "customer_phone",
			"total_adult", "total_child", "total_amount_minor", "currency", "status",
		},
		Values: []interface{}{
			booking.Ref, booking.TourID, booking.CustomerName, booking.CustomerEmail, booking.CustomerPhone,
			booking.TotalAdult, booking.TotalChild, booking.TotalAmountMinor, booking.Currency, booking.Status,
		},
		KeyColumn: "id",
		Children: []ChildSet{{
			Table:    "booking_passengers",
			FKColumn: "booking_id",
			Columns:  []string{"first_name", "last_name", "age", "passport_no"},
			Rows:     rows,
		}},
	})
	if err != nil {
		return nil, err
	}
	booking.ID = res.Key
	return res, nil
}

func (r *PGBookingRepository) GetByRef(ctx context.Context, ref string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT id, ref, tour_id, customer_name, customer_email, customer_phone, total_adult, total_child, total_amount_minor, currency, status, created_at, updated_at FROM bookings WHERE ref=$1`, ref)
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.Ref, &b.TourID, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone, &b.TotalAdult, &b.TotalChild, &b.TotalAmountMinor, &b.Currency, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.NotFoundf("booking %s", ref)
		}
		return nil, domain.Persistencef("get booking", err)
	}

	rows, err := r.db.Query(ctx, `SELECT id, booking_id, first_name, last_name, age, passport_no FROM booking_passengers WHERE booking_id=$1 ORDER BY id`, b.ID)
	if err != nil {
		return nil, domain.Persistencef("list passengers", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Passenger
		if err := rows.Scan(&p.ID, &p.BookingID, &p.FirstName, &p.LastName, &p.Age, &p.PassportNo); err != nil {
			return nil, domain.Persistencef("scan passenger", err)
		}
		b.Passengers = append(b.Passengers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistencef("list passengers", err)
	}
	return &b, nil
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, ref string, status domain.BookingStatus) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE ref=$2 RETURNING id, ref, tour_id, customer_name, customer_email, customer_phone, total_adult, total_child, total_amount_minor, currency, status, created_at, updated_at`, status, ref)
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.Ref, &b.TourID, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone, &b.TotalAdult, &b.TotalChild, &b.TotalAmountMinor, &b.Currency, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.NotFoundf("booking %s", ref)
		}
		return nil, domain.Persistencef("update booking status", err)
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
