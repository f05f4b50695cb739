// Package budget orchestrates budget-level balance projections: it resolves
// a budget's accounts, categories and scheduled transactions through its
// ports and hands them to the forecast engine.
package budget

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"saldo/internal/core"
	"saldo/internal/forecast"
)

// DefaultDaysAhead is the horizon for budget-level projections when the
// caller does not specify one.
const DefaultDaysAhead = 300

type Service struct {
	accounts   AccountSource
	categories CategorySource
	scheduled  ScheduledSource
}

func NewService(accounts AccountSource, categories CategorySource, scheduled ScheduledSource) *Service {
	return &Service{
		accounts:   accounts,
		categories: categories,
		scheduled:  scheduled,
	}
}

// ProjectedBalances resolves the budget's data and runs one projection.
// daysAhead < 0 selects the default horizon.
func (s *Service) ProjectedBalances(ctx context.Context, budgetID uuid.UUID, daysAhead int, sims []core.Simulation) (forecast.Result, error) {
	if daysAhead < 0 {
		daysAhead = DefaultDaysAhead
	}

	accounts, err := s.accounts.AccountsForBudget(ctx, budgetID)
	if err != nil {
		return nil, fmt.Errorf("accounts for budget %s: %w", budgetID, err)
	}
	categories, err := s.categories.CategoriesForBudget(ctx, budgetID)
	if err != nil {
		return nil, fmt.Errorf("categories for budget %s: %w", budgetID, err)
	}
	scheduled, err := s.scheduled.ScheduledTransactions(ctx, budgetID)
	if err != nil {
		return nil, fmt.Errorf("scheduled transactions for budget %s: %w", budgetID, err)
	}

	slog.InfoContext(ctx, "Running budget projection",
		"budget_id", budgetID,
		"days_ahead", daysAhead,
		"accounts", len(accounts),
		"categories", len(categories),
		"scheduled", len(scheduled),
		"simulations", len(sims))

	result, err := forecast.Project(forecast.Input{
		Accounts:    accounts,
		Categories:  categories,
		Scheduled:   scheduled,
		Simulations: sims,
		DaysAhead:   daysAhead,
	})
	if err != nil {
		return nil, fmt.Errorf("project budget %s: %w", budgetID, err)
	}
	return result, nil
}
