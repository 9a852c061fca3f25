package services

import (
	"context"
	"errors"
	"strings"

	"sira/internal/models"
	"sira/internal/repositories"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileService interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	GetByPhone(ctx context.Context, phone string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, profile *models.Profile) error
	ListTaskers(ctx context.Context, limit, offset int) ([]*models.Profile, error)
	SearchTaskers(ctx context.Context, query string, limit, offset int) ([]*models.Profile, error)
	SetAvailability(ctx context.Context, id string, available bool) error
}

type profileService struct {
	repo repositories.ProfileRepository
}

func NewProfileService(repo repositories.ProfileRepository) ProfileService {
	return &profileService{repo: repo}
}

func (s *profileService) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProfileNotFound
	}
	return p, nil
}

func (s *profileService) GetByPhone(ctx context.Context, phone string) (*models.Profile, error) {
	return s.repo.GetByPhone(ctx, phone)
}

func (s *profileService) UpdateProfile(ctx context.Context, profile *models.Profile) error {
	if strings.TrimSpace(profile.FullName) == "" {
		return errors.New("full name is required")
	}
	return s.repo.Update(ctx, profile)
}

func (s *profileService) ListTaskers(ctx context.Context, limit, offset int) ([]*models.Profile, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListTaskers(ctx, limit, offset)
}

func (s *profileService) SearchTaskers(ctx context.Context, query string, limit, offset int) ([]*models.Profile, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.ListTaskers(ctx, limit, offset)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.SearchTaskers(ctx, query, limit, offset)
}

func (s *profileService) SetAvailability(ctx context.Context, id string, available bool) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrProfileNotFound
	}
	p.Available = available
	return s.repo.Update(ctx, p)
}
