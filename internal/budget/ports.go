package budget

import (
	"context"

	"github.com/google/uuid"

	"saldo/internal/core"
)

// Ports for the collaborators a budget-level projection depends on.
// Accounts and categories normally come from the local store; scheduled
// transactions come live from the upstream budgeting API.
type (
	AccountSource interface {
		AccountsForBudget(ctx context.Context, budgetID uuid.UUID) ([]core.Account, error)
	}

	CategorySource interface {
		CategoriesForBudget(ctx context.Context, budgetID uuid.UUID) ([]core.Category, error)
	}

	ScheduledSource interface {
		ScheduledTransactions(ctx context.Context, budgetID uuid.UUID) ([]core.ScheduledTransaction, error)
	}
)
