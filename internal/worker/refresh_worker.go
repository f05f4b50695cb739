// Package worker keeps the local budget mirror in sync with the upstream
// API, driven by AMQP refresh messages and a periodic fallback timer.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"saldo/internal/amqp"
	"saldo/internal/core"
)

// BudgetFetcher reads budget data from the upstream API.
type BudgetFetcher interface {
	BudgetName(ctx context.Context, budgetID uuid.UUID) (string, error)
	AccountsForBudget(ctx context.Context, budgetID uuid.UUID) ([]core.Account, error)
	CategoriesForBudget(ctx context.Context, budgetID uuid.UUID) ([]core.Category, error)
}

// SnapshotStore persists budget snapshots locally.
type SnapshotStore interface {
	ReplaceBudgetData(ctx context.Context, budgetID uuid.UUID, name string, accounts []core.Account, categories []core.Category) error
	LastRefreshed(ctx context.Context, budgetID uuid.UUID) (time.Time, error)
}

// RefreshWorker syncs configured budgets from the upstream API into the
// local store.
type RefreshWorker struct {
	store    SnapshotStore
	api      BudgetFetcher
	budgets  []uuid.UUID
	interval time.Duration
}

func NewRefreshWorker(store SnapshotStore, api BudgetFetcher, budgets []uuid.UUID, interval time.Duration) *RefreshWorker {
	return &RefreshWorker{
		store:    store,
		api:      api,
		budgets:  budgets,
		interval: interval,
	}
}

// HandleRefreshMessage processes a single budget refresh message from AMQP.
func (w *RefreshWorker) HandleRefreshMessage(ctx context.Context, msg *amqp.BudgetRefreshMessage) error {
	slog.InfoContext(ctx, "Processing refresh message",
		"budget_id", msg.BudgetID,
		"requested_at", msg.Timestamp)

	if err := w.RefreshBudget(ctx, msg.BudgetID); err != nil {
		return fmt.Errorf("refresh budget %s: %w", msg.BudgetID, err)
	}
	return nil
}

// RefreshBudget fetches a budget's accounts and categories from the
// upstream API and replaces the local snapshot.
func (w *RefreshWorker) RefreshBudget(ctx context.Context, budgetID uuid.UUID) error {
	name, err := w.api.BudgetName(ctx, budgetID)
	if err != nil {
		return fmt.Errorf("fetch budget name: %w", err)
	}

	accounts, err := w.api.AccountsForBudget(ctx, budgetID)
	if err != nil {
		return fmt.Errorf("fetch accounts: %w", err)
	}

	categories, err := w.api.CategoriesForBudget(ctx, budgetID)
	if err != nil {
		return fmt.Errorf("fetch categories: %w", err)
	}

	if err := w.store.ReplaceBudgetData(ctx, budgetID, name, accounts, categories); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Budget refreshed",
		"budget_id", budgetID,
		"name", name,
		"accounts", len(accounts),
		"categories", len(categories))

	return nil
}

// StartupRefreshCheck syncs any configured budget whose local snapshot is
// missing or older than the refresh interval. This recovers from missed
// AMQP messages or worker downtime.
func (w *RefreshWorker) StartupRefreshCheck(ctx context.Context) error {
	successCount := 0
	errorCount := 0

	for _, budgetID := range w.budgets {
		refreshed, err := w.store.LastRefreshed(ctx, budgetID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to read last refresh time",
				"budget_id", budgetID, "error", err)
			errorCount++
			continue
		}

		if !refreshed.IsZero() && time.Since(refreshed) < w.interval {
			slog.InfoContext(ctx, "Snapshot is fresh, skipping",
				"budget_id", budgetID,
				"last_refresh", refreshed.Format(time.RFC3339))
			continue
		}

		if err := w.RefreshBudget(ctx, budgetID); err != nil {
			slog.ErrorContext(ctx, "Failed to refresh budget on startup",
				"budget_id", budgetID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup refresh completed",
		"total", len(w.budgets),
		"refreshed", successCount,
		"errors", errorCount)

	return nil
}

// Run blocks, refreshing all configured budgets on every interval tick
// until the context is cancelled.
func (w *RefreshWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "Periodic refresh started",
		"budgets", len(w.budgets),
		"interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Periodic refresh stopped", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			for _, budgetID := range w.budgets {
				if err := w.RefreshBudget(ctx, budgetID); err != nil {
					slog.ErrorContext(ctx, "Periodic refresh failed",
						"budget_id", budgetID, "error", err)
				}
			}
		}
	}
}
