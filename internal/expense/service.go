package expense

import (
	"context"
	"log/slog"
)

type RepositoryAPI interface {
	Create(ctx context.Context, tripID int64, input *ExpenseInput) (int64, error)
	ListByTrip(ctx context.Context, tripID int64, filter Filter) ([]*Expense, error)
	Get(ctx context.Context, id int64) (*Expense, error)
	Update(ctx context.Context, id int64, input *ExpenseInput) error
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

func (s *Service) CreateExpense(ctx context.Context, tripID int64, form ExpenseForm) (*Expense, error) {
	input, verr := form.Validate()
	if verr != nil {
		s.logger.Warn("expense validation failed", "error", verr.UserMessage(), "trip_id", tripID)
		return nil, verr
	}

	id, err := s.repo.Create(ctx, tripID, input)
	if err != nil {
		s.logger.Error("failed to create expense", "error", err, "trip_id", tripID)
		return nil, err
	}

	s.logger.Info("expense created", "expense_id", id, "trip_id", tripID)
	return s.repo.Get(ctx, id)
}

// ListByTrip returns the trip's expenses grouped by category in category
// order. A trip without expenses yields an empty grouping.
func (s *Service) ListByTrip(ctx context.Context, tripID int64, filter Filter) (*Grouping, error) {
	expenses, err := s.repo.ListByTrip(ctx, tripID, filter)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err, "trip_id", tripID)
		return nil, err
	}
	return GroupByCategory(expenses), nil
}

func (s *Service) GetExpense(ctx context.Context, id int64) (*Expense, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		s.logger.Warn("failed to get expense", "error", err, "expense_id", id)
		return nil, err
	}
	return e, nil
}

func (s *Service) UpdateExpense(ctx context.Context, id int64, form ExpenseForm) (*Expense, error) {
	input, verr := form.Validate()
	if verr != nil {
		s.logger.Warn("expense validation failed", "error", verr.UserMessage(), "expense_id", id)
		return nil, verr
	}

	if err := s.repo.Update(ctx, id, input); err != nil {
		s.logger.Error("failed to update expense", "error", err, "expense_id", id)
		return nil, err
	}

	s.logger.Info("expense updated", "expense_id", id)
	return s.repo.Get(ctx, id)
}

// DeleteExpense returns the removed expense so callers know which trip it
// belonged to.
func (s *Service) DeleteExpense(ctx context.Context, id int64) (*Expense, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		s.logger.Warn("failed to get expense for delete", "error", err, "expense_id", id)
		return nil, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", id)
		return nil, err
	}

	s.logger.Info("expense deleted", "expense_id", id, "trip_id", e.TripID)
	return e, nil
}
