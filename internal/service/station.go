package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/mertdogan/sportspot-api/internal/domain"
	"github.com/mertdogan/sportspot-api/internal/repository"
)

type StationRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Station, error)
	FindAll(ctx context.Context, filter domain.StationFilter) ([]domain.Station, error)
}

type StationService struct {
	repo StationRepository
}

func NewStationService(repo StationRepository) *StationService {
	return &StationService{
		repo: repo,
	}
}

func (s *StationService) GetStation(ctx context.Context, id uint) (domain.Station, error) {
	station, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrStationNotFound) {
			return domain.Station{}, ErrStationNotFound
		}

		return domain.Station{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return station, nil
}

func (s *StationService) ListStations(ctx context.Context, filter domain.StationFilter) ([]domain.Station, error) {
	stations, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return stations, nil
}
