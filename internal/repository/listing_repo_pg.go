package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tripgrid/backoffice/internal/domain"
)

type ListingRepository interface {
	CreateOfflineFlight(ctx context.Context, flight *domain.OfflineFlight) (*CompositeResult, error)
	UpdateOfflineFlight(ctx context.Context, id int64, upd domain.OfflineFlightUpdate, filters []domain.ListingFilter) (*CompositeResult, error)
	GetOfflineFlight(ctx context.Context, id int64) (*domain.OfflineFlight, error)

	CreateOfflineHotel(ctx context.Context, hotel *domain.OfflineHotel) (*CompositeResult, error)
	UpdateOfflineHotel(ctx context.Context, id int64, upd domain.OfflineHotelUpdate, images []domain.HotelImage, filters []domain.ListingFilter) (*CompositeResult, error)
	GetOfflineHotel(ctx context.Context, id int64) (*domain.OfflineHotel, error)
}

type PGListingRepository struct {
	db     *pgxpool.Pool
	writer *CompositeWriter
}

func NewListingRepository(db *pgxpool.Pool) ListingRepository {
	return &PGListingRepository{db: db, writer: NewCompositeWriter(db)}
}

func filterRows(filters []domain.ListingFilter) [][]interface{} {
	rows := make([][]interface{}, 0, len(filters))
	for _, f := range filters {
		rows = append(rows, []interface{}{f.Name, f.Value})
	}
	return rows
}

func (r *PGListingRepository) CreateOfflineFlight(ctx context.Context, flight *domain.OfflineFlight) (*CompositeResult, error) {
	res, err := r.writer.Insert(ctx, CompositeInsert{
		Table:   "offline_flights",
		Columns: []string{"airline", "from_city", "to_city", "departure_date", "price_minor", "currency", "status"},
		Values: []interface{}{
			flight.Airline, flight.FromCity, flight.ToCity, flight.DepartureDate,
			flight.PriceMinor, flight.Currency, flight.Status,
		},
		KeyColumn: "id",
		Children: []ChildSet{{
			Table:    "offline_flight_filters",
			FKColumn: "flight_id",
			Columns:  []string{"name", "value"},
			Rows:     filterRows(flight.Filters),
		}},
	})
	if err != nil {
		return nil, err
	}
	flight.ID = res.Key
	return res, nil
}

func (r *PGListingRepository) UpdateOfflineFlight(ctx context.Context, id int64, upd domain.OfflineFlightUpdate, filters []domain.ListingFilter) (*CompositeResult, error) {
	set := NewUpdateBuilder("airline", "from_city", "to_city", "price_minor", "status")
	if upd.Airline != nil {
		if err := set.Set("airline", *upd.Airline); err != nil {
			return nil, err
		}
	}
	if upd.FromCity != nil {
		if err := set.Set("from_city", *upd.FromCity); err != nil {
			return nil, err
		}
	}
	if upd.ToCity != nil {
		if err := set.Set("to_city", *upd.ToCity); err != nil {
			return nil, err
		}
	}
	if upd.PriceMinor != nil {
		if err := set.Set("price_minor", *upd.PriceMinor); err != nil {
			return nil, err
		}
	}
	if upd.Status != nil {
		if err := set.Set("status", *upd.Status); err != nil {
			return nil, err
		}
	}

	return r.writer.Replace(ctx, CompositeUpdate{
		Table:     "offline_flights",
		KeyColumn: "id",
		Key:       id,
		Set:       set,
		Children: []ChildSet{{
			Table:    "offline_flight_filters",
			FKColumn: "flight_id",
			Columns:  []string{"name", "value"},
			Rows:     filterRows(filters),
		}},
	})
}

func (r *PGListingRepository) GetOfflineFlight(ctx context.Context, id int64) (*domain.OfflineFlight, error) {
	row := r.db.QueryRow(ctx, `SELECT id, airline, from_city, to_city, departure_date, price_minor, currency, status, created_at, updated_at FROM offline_flights WHERE id=$1`, id)
	var f domain.OfflineFlight
	if err := row.Scan(&f.ID, &f.Airline, &f.FromCity, &f.ToCity, &f.DepartureDate, &f.PriceMinor, &f.Currency, &f.Status, &f.CreatedAt, &f.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.NotFoundf("offline flight %d", id)
		}
		return nil, domain.Persistencef("get offline flight", err)
	}

	filters, err := r.listFilters(ctx, `SELECT id, flight_id, name, value FROM offline_flight_filters WHERE flight_id=$1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	f.Filters = filters
	return &f, nil
}

func (r *PGListingRepository) CreateOfflineHotel(ctx context.Context, hotel *domain.OfflineHotel) (*CompositeResult, error) {
	res, err := r.writer.Insert(ctx, CompositeInsert{
		Table:   "offline_hotels",
		Columns: []string{"name", "city", "address", "rating", "price_per_night_minor", "currency", "status"},
		Values: []interface{}{
			hotel.Name, hotel.City, hotel.Address, hotel.Rating,
			hotel.PricePerNightMinor, hotel.Currency, hotel.Status,
		},
		KeyColumn: "id",
		Children: []ChildSet{
			{
				Table:    "hotel_images",
				FKColumn: "hotel_id",
				Columns:  []string{"path", "caption", "position"},
				Rows:     imageRows(hotel.Images),
			},
			{
				Table:    "hotel_filters",
				FKColumn: "hotel_id",
				Columns:  []string{"name", "value"},
				Rows:     filterRows(hotel.Filters),
			},
		},
	})
	if err != nil {
		return nil, err
	}
	hotel.ID = res.Key
	return res, nil
}

func (r *PGListingRepository) UpdateOfflineHotel(ctx context.Context, id int64, upd domain.OfflineHotelUpdate, images []domain.HotelImage, filters []domain.ListingFilter) (*CompositeResult, error) {
	set := NewUpdateBuilder("name", "city", "address", "rating", "price_per_night_minor", "status")
	if upd.Name != nil {
		if err := set.Set("name", *upd.Name); err != nil {
			return nil, err
		}
	}
	if upd.City != nil {
		if err := set.Set("city", *upd.City); err != nil {
			return nil, err
		}
	}
	if upd.Address != nil {
		if err := set.Set("address", *upd.Address); err != nil {
			return nil, err
		}
	}
	if upd.Rating != nil {
		if err := set.Set("rating", *upd.Rating); err != nil {
			return nil, err
		}
	}
	if upd.PricePerNightMinor != nil {
		if err := set.Set("price_per_night_minor", *upd.PricePerNightMinor); err != nil {
			return nil, err
		}
	}
	if upd.Status != nil {
		if err := set.Set("status", *upd.Status); err != nil {
			return nil, err
		}
	}

	return r.writer.Replace(ctx, CompositeUpdate{
		Table:     "offline_hotels",
		KeyColumn: "id",
		Key:       id,
		Set:       set,
		Children: []ChildSet{
			{
				Table:    "hotel_images",
				FKColumn: "hotel_id",
				Columns:  []string{"path", "caption", "position"},
				Rows:     imageRows(images),
			},
			{
				Table:    "hotel_filters",
				FKColumn: "hotel_id",
				Columns:  []string{"name", "value"},
				Rows:     filterRows(filters),
			},
		},
	})
}

func (r *PGListingRepository) GetOfflineHotel(ctx context.Context, id int64) (*domain.OfflineHotel, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, city, address, rating, price_per_night_minor, currency, status, created_at, updated_at FROM offline_hotels WHERE id=$1`, id)
	var h domain.OfflineHotel
	if err := row.Scan(&h.ID, &h.Name, &h.City, &h.Address, &h.Rating, &h.PricePerNightMinor, &h.Currency, &h.Status, &h.CreatedAt, &h.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.NotFoundf("offline hotel %d", id)
		}
		return nil, domain.Persistencef("get offline hotel", err)
	}

	imgRows, err := r.db.Query(ctx, `SELECT id, hotel_id, path, caption, position FROM hotel_images WHERE hotel_id=$1 ORDER BY position, id`, id)
	if err != nil {
		return nil, domain.Persistencef("list hotel images", err)
	}
	defer imgRows.Close()
	for imgRows.Next() {
		var img domain.HotelImage
		if err := imgRows.Scan(&img.ID, &img.HotelID, &img.Path, &img.Caption, &img.Position); err != nil {
			return nil, domain.Persistencef("scan hotel image", err)
		}
		h.Images = append(h.Images, img)
	}
	if err := imgRows.Err(); err != nil {
		return nil, domain.Persistencef("list hotel images", err)
	}

	filters, err := r.listFilters(ctx, `SELECT id, hotel_id, name, value FROM hotel_filters WHERE hotel_id=$1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	h.Filters = filters
	return &h, nil
}

func (r *PGListingRepository) listFilters(ctx context.Context, sql string, parentID int64) ([]domain.ListingFilter, error) {
	rows, err := r.db.Query(ctx, sql, parentID)
	if err != nil {
		return nil, domain.Persistencef("list filters", err)
	}
	defer rows.Close()

	var filters []domain.ListingFilter
	for rows.Next() {
		var f domain.ListingFilter
		if err := rows.Scan(&f.ID, &f.ParentID, &f.Name, &f.Value); err != nil {
			return nil, domain.Persistencef("scan filter", err)
		}
		filters = append(filters, f)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Persistencef("list filters", err)
	}
	return filters, nil
}

func imageRows(images []domain.HotelImage) [][]interface{} {
	rows := make([][]interface{}, 0, len(images))
	for _, img := range images {
		rows = append(rows, []interface{}{img.Path, img.Caption, img.Position})
	}
	return rows
}

var _ ListingRepository = (*PGListingRepository)(nil)
