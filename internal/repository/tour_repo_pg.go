package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tripgrid/backoffice/internal/domain"
)

type TourRepository interface {
	List(ctx context.Context) ([]domain.Tour, error)
	GetByID(ctx context.Context, id int64) (*domain.Tour, error)
}

type PGTourRepository struct {
	db *pgxpool.Pool
}

func NewTourRepository(db *pgxpool.Pool) TourRepository {
	return &PGTourRepository{db: db}
}

func (r *PGTourRepository) List(ctx context.Context) ([]domain.Tour, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title, destination, duration_days, price_minor, currency, active, created_at, updated_at FROM tours WHERE active ORDER BY title`)
	if err != nil {
		return nil, domain.Persistencef("list tours", err)
	}
	defer rows.Close()

	tours := make([]domain.Tour, 0)
	for rows.Next() {
		var t domain.Tour
		if err := rows.Scan(&t.ID, &t.Title, &t.Destination, &t.DurationDays, &t.PriceMinor, &t.Currency, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, domain.Persistencef("scan tour", err)
		}
		tours = append(tours, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistencef("list tours", err)
	}
	return tours, nil
}

func (r *PGTourRepository) GetByID(ctx context.Context, id int64) (*domain.Tour, error) {
	row := r.db.QueryRow(ctx, `SELECT id, title, destination, duration_days, price_minor, currency, active, created_at, updated_at FROM tours WHERE id=$1`, id)
	var t domain.Tour
	if err := row.Scan(&t.ID, &t.Title, &t.Destination, &t.DurationDays, &t.PriceMinor, &t.Currency, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.NotFoundf("tour %d", id)
		}
		return nil, domain.Persistencef("get tour", err)
	}
	return &t, nil
}

var _ TourRepository = (*PGTourRepository)(nil)
