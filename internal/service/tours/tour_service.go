package tours

import (
	"context"

	"github.com/tripgrid/backoffice/internal/domain"
	"github.com/tripgrid/backoffice/internal/repository"
)

type TourUseCase interface {
	List(ctx context.Context) ([]domain.Tour, error)
	GetByID(ctx context.Context, id int64) (*domain.Tour, error)
}

type Cache interface {
	GetTours(ctx context.Context) ([]domain.Tour, error)
	SetTours(ctx context.Context, tours []domain.Tour) error
}

type TourService struct {
	repo  repository.TourRepository
	cache Cache
}

func NewTourService(repo repository.TourRepository, cache Cache) *TourService {
	return &TourService{repo: repo, cache: cache}
}

func (s *TourService) List(ctx context.Context) ([]domain.Tour, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetTours(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	tours, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetTours(ctx, tours)
	}
	return tours, nil
}

func (s *TourService) GetByID(ctx context.Context, id int64) (*domain.Tour, error) {
	return s.repo.GetByID(ctx, id)
}

var _ TourUseCase = (*TourService)(nil)
