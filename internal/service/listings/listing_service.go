package listings

import (
	"context"
	"time"

	"github.com/tripgrid/backoffice/internal/domain"
	"github.com/tripgrid/backoffice/internal/repository"
)

type ListingUseCase interface {
	CreateOfflineFlight(ctx context.Context, input OfflineFlightInput) (*CreateResult, error)
	UpdateOfflineFlight(ctx context.Context, id int64, input OfflineFlightUpdateInput) (*CreateResult, error)
	GetOfflineFlight(ctx context.Context, id int64) (*domain.OfflineFlight, error)

	CreateOfflineHotel(ctx context.Context, input OfflineHotelInput) (*CreateResult, error)
	UpdateOfflineHotel(ctx context.Context, id int64, input OfflineHotelUpdateInput) (*CreateResult, error)
	GetOfflineHotel(ctx context.Context, id int64) (*domain.OfflineHotel, error)
}

type ListingService struct {
	repo repository.ListingRepository
}

func NewListingService(repo repository.ListingRepository) *ListingService {
	return &ListingService{repo: repo}
}

type FilterInput struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ImageInput struct {
	Path     string `json:"path"`
	Caption  string `json:"caption"`
	Position int    `json:"position"`
}

type OfflineFlightInput struct {
	Airline       string        `json:"airline"`
	FromCity      string        `json:"from_city"`
	ToCity        string        `json:"to_city"`
	DepartureDate time.Time     `json:"departure_date"`
	Price         float64       `json:"price"`
	Currency      string        `json:"currency"`
	Filters       []FilterInput `json:"filters"`
}

// OfflineFlightUpdateInput carries optional parent fields plus the FULL
// desired filter set. Filters are replaced wholesale; a partial child
// update is not supported.
type OfflineFlightUpdateInput struct {
	Airline  *string               `json:"airline"`
	FromCity *string               `json:"from_city"`
	ToCity   *string               `json:"to_city"`
	Price    *float64              `json:"price"`
	Status   *domain.ListingStatus `json:"status"`
	Filters  []FilterInput         `json:"filters"`
}

type OfflineHotelInput struct {
	Name          string        `json:"name"`
	City          string        `json:"city"`
	Address       string        `json:"address"`
	Rating        int           `json:"rating"`
	PricePerNight float64       `json:"price_per_night"`
	Currency      string        `json:"currency"`
	Images        []ImageInput  `json:"images"`
	Filters       []FilterInput `json:"filters"`
}

type OfflineHotelUpdateInput struct {
	Name          *string               `json:"name"`
	City          *string               `json:"city"`
	Address       *string               `json:"address"`
	Rating        *int                  `json:"rating"`
	PricePerNight *float64              `json:"price_per_night"`
	Status        *domain.ListingStatus `json:"status"`
	Images        []ImageInput          `json:"images"`
	Filters       []FilterInput         `json:"filters"`
}

type CreateResult struct {
	ID          int64          `json:"id"`
	ChildCounts map[string]int `json:"child_counts"`
}

func (s *ListingService) CreateOfflineFlight(ctx context.Context, input OfflineFlightInput) (*CreateResult, error) {
	if input.Airline == "" {
		return nil, domain.Validationf("airline is required")
	}
	if input.FromCity == "" || input.ToCity == "" {
		return nil, domain.Validationf("from and to cities are required")
	}
	if input.Price <= 0 {
		return nil, domain.Validationf("price must be positive")
	}
	if input.DepartureDate.IsZero() {
		return nil, domain.Validationf("departure date is required")
	}

	flight := &domain.OfflineFlight{
		Airline:       input.Airline,
		FromCity:      input.FromCity,
		ToCity:        input.ToCity,
		DepartureDate: input.DepartureDate,
		PriceMinor:    domain.ToMinorUnits(input.Price),
		Currency:      input.Currency,
		Status:        domain.ListingStatusAvailable,
		Filters:       toFilters(input.Filters),
	}

	res, err := s.repo.CreateOfflineFlight(ctx, flight)
	if err != nil {
		return nil, err
	}
	return &CreateResult{ID: res.Key, ChildCounts: res.ChildCounts}, nil
}

func (s *ListingService) UpdateOfflineFlight(ctx context.Context, id int64, input OfflineFlightUpdateInput) (*CreateResult, error) {
	upd := domain.OfflineFlightUpdate{
		Airline:  input.Airline,
		FromCity: input.FromCity,
		ToCity:   input.ToCity,
		Status:   input.Status,
	}
	if input.Price != nil {
		if *input.Price <= 0 {
			return nil, domain.Validationf("price must be positive")
		}
		minor := domain.ToMinorUnits(*input.Price)
		upd.PriceMinor = &minor
	}

	res, err := s.repo.UpdateOfflineFlight(ctx, id, upd, toFilters(input.Filters))
	if err != nil {
		return nil, err
	}
	return &CreateResult{ID: res.Key, ChildCounts: res.ChildCounts}, nil
}

func (s *ListingService) GetOfflineFlight(ctx context.Context, id int64) (*domain.OfflineFlight, error) {
	return s.repo.GetOfflineFlight(ctx, id)
}

func (s *ListingService) CreateOfflineHotel(ctx context.Context, input OfflineHotelInput) (*CreateResult, error) {
	if input.Name == "" {
		return nil, domain.Validationf("hotel name is required")
	}
	if input.City == "" {
		return nil, domain.Validationf("city is required")
	}
	if input.PricePerNight <= 0 {
		return nil, domain.Validationf("price per night must be positive")
	}
	if input.Rating < 0 || input.Rating > 5 {
		return nil, domain.Validationf("rating must be between 0 and 5")
	}

	hotel := &domain.OfflineHotel{
		Name:               input.Name,
		City:               input.City,
		Address:            input.Address,
		Rating:             input.Rating,
		PricePerNightMinor: domain.ToMinorUnits(input.PricePerNight),
		Currency:           input.Currency,
		Status:             domain.ListingStatusAvailable,
		Images:             toImages(input.Images),
		Filters:            toFilters(input.Filters),
	}

	res, err := s.repo.CreateOfflineHotel(ctx, hotel)
	if err != nil {
		return nil, err
	}
	return &CreateResult{ID: res.Key, ChildCounts: res.ChildCounts}, nil
}

func (s *ListingService) UpdateOfflineHotel(ctx context.Context, id int64, input OfflineHotelUpdateInput) (*CreateResult, error) {
	upd := domain.OfflineHotelUpdate{
		Name:    input.Name,
		City:    input.City,
		Address: input.Address,
		Status:  input.Status,
	}
	if input.Rating != nil {
		if *input.Rating < 0 || *input.Rating > 5 {
			return nil, domain.Validationf("rating must be between 0 and 5")
		}
		upd.Rating = input.Rating
	}
	if input.PricePerNight != nil {
		if *input.PricePerNight <= 0 {
			return nil, domain.Validationf("price per night must be positive")
		}
		minor := domain.ToMinorUnits(*input.PricePerNight)
		upd.PricePerNightMinor = &minor
	}

	res, err := s.repo.UpdateOfflineHotel(ctx, id, upd, toImages(input.Images), toFilters(input.Filters))
	if err != nil {
		return nil, err
	}
	return &CreateResult{ID: res.Key, ChildCounts: res.ChildCounts}, nil
}

func (s *ListingService) GetOfflineHotel(ctx context.Context, id int64) (*domain.OfflineHotel, error) {
	return s.repo.GetOfflineHotel(ctx, id)
}

func toFilters(in []FilterInput) []domain.ListingFilter {
	filters := make([]domain.ListingFilter, 0, len(in))
	for _, f := range in {
		filters = append(filters, domain.ListingFilter{Name: f.Name, Value: f.Value})
	}
	return filters
}

func toImages(in []ImageInput) []domain.HotelImage {
	images := make([]domain.HotelImage, 0, len(in))
	for _, img := range in {
		images = append(images, domain.HotelImage{Path: img.Path, Caption: img.Caption, Position: img.Position})
	}
	return images
}

var _ ListingUseCase = (*ListingService)(nil)
