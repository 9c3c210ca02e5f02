package trip

import (
	"context"
	"log/slog"
)

type RepositoryAPI interface {
	Create(ctx context.Context, input *TripInput) (int64, error)
	List(ctx context.Context) ([]*Trip, error)
	Get(ctx context.Context, id int64) (*Trip, error)
	Update(ctx context.Context, id int64, input *TripInput) error
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) CreateTrip(ctx context.Context, form TripForm) (*Trip, error) {
	input, verr := form.Validate()
	if verr != nil {
		s.logger.Warn("trip validation failed", "error", verr.UserMessage())
		return nil, verr
	}

	id, err := s.repo.Create(ctx, input)
	if err != nil {
		s.logger.Error("failed to create trip", "error", err, "name", input.Name)
		return nil, err
	}

	s.logger.Info("trip created", "trip_id", id, "name", input.Name)
	return s.repo.Get(ctx, id)
}

// ListTrips returns every trip by start date, each with its total in the
// base currency.
func (s *Service) ListTrips(ctx context.Context) ([]*Trip, error) {
	trips, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list trips", "error", err)
		return nil, err
	}
	return trips, nil
}

func (s *Service) GetTrip(ctx context.Context, id int64) (*Trip, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		s.logger.Warn("failed to get trip", "error", err, "trip_id", id)
		return nil, err
	}
	return t, nil
}

func (s *Service) UpdateTrip(ctx context.Context, id int64, form TripForm) (*Trip, error) {
	input, verr := form.Validate()
	if verr != nil {
		s.logger.Warn("trip validation failed", "error", verr.UserMessage(), "trip_id", id)
		return nil, verr
	}

	if err := s.repo.Update(ctx, id, input); err != nil {
		s.logger.Error("failed to update trip", "error", err, "trip_id", id)
		return nil, err
	}

	s.logger.Info("trip updated", "trip_id", id, "name", input.Name)
	return s.repo.Get(ctx, id)
}

// DeleteTrip removes the trip; its expenses go with it.
func (s *Service) DeleteTrip(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete trip", "error", err, "trip_id", id)
		return err
	}

	s.logger.Info("trip deleted", "trip_id", id)
	return nil
}
