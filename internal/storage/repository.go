// Package storage keeps a local SQLite mirror of upstream budget data so
// projections can be served without a round trip for accounts and
// categories on every request.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"saldo/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// ReplaceBudgetData swaps in a fresh snapshot of a budget's accounts and
// categories inside one transaction and stamps the refresh time.
func (r *SQLiteRepository) ReplaceBudgetData(ctx context.Context, budgetID uuid.UUID, name string, accounts []core.Account, categories []core.Category) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	id := budgetID.String()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO budgets (id, name, refreshed_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, refreshed_at = excluded.refreshed_at`,
		id, name, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert budget: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE budget_id = ?`, id); err != nil {
		return fmt.Errorf("clear accounts: %w", err)
	}
	for _, a := range accounts {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (budget_id, name, balance) VALUES (?, ?, ?)`,
			id, a.Name, a.Balance)
		if err != nil {
			return fmt.Errorf("insert account %q: %w", a.Name, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE budget_id = ?`, id); err != nil {
		return fmt.Errorf("clear categories: %w", err)
	}
	for _, c := range categories {
		var goalType, goalTargetMonth sql.NullString
		var goalTarget, goalOverallLeft sql.NullInt64
		var goalCadence, goalFrequency, goalDay sql.NullInt64
		if c.Goal != nil {
			goalType = sql.NullString{String: string(c.Goal.Type), Valid: true}
			goalTarget = sql.NullInt64{Int64: c.Goal.Target, Valid: true}
			goalOverallLeft = sql.NullInt64{Int64: c.Goal.OverallLeft, Valid: true}
			goalTargetMonth = sql.NullString{String: c.Goal.TargetMonth, Valid: c.Goal.TargetMonth != ""}
			goalCadence = sql.NullInt64{Int64: int64(c.Goal.Cadence), Valid: true}
			goalFrequency = sql.NullInt64{Int64: int64(c.Goal.Frequency), Valid: true}
			goalDay = sql.NullInt64{Int64: int64(c.Goal.Day), Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO categories
			(budget_id, name, balance, goal_type, goal_target, goal_overall_left,
			 goal_target_month, goal_cadence, goal_cadence_frequency, goal_day)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, c.Name, c.Balance, goalType, goalTarget, goalOverallLeft,
			goalTargetMonth, goalCadence, goalFrequency, goalDay)
		if err != nil {
			return fmt.Errorf("insert category %q: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	slog.InfoContext(ctx, "Budget data replaced",
		"budget_id", id,
		"accounts", len(accounts),
		"categories", len(categories))
	return nil
}

// AccountsForBudget implements budget.AccountSource.
func (r *SQLiteRepository) AccountsForBudget(ctx context.Context, budgetID uuid.UUID) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name, balance FROM accounts WHERE budget_id = ? ORDER BY id`,
		budgetID.String())
	if err != nil {
		return nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []core.Account
	for rows.Next() {
		var a core.Account
		if err := rows.Scan(&a.Name, &a.Balance); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

// CategoriesForBudget implements budget.CategorySource.
func (r *SQLiteRepository) CategoriesForBudget(ctx context.Context, budgetID uuid.UUID) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, balance, goal_type, goal_target, goal_overall_left,
		       goal_target_month, goal_cadence, goal_cadence_frequency, goal_day
		FROM categories WHERE budget_id = ? ORDER BY id`,
		budgetID.String())
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		var c core.Category
		var goalType, goalTargetMonth sql.NullString
		var goalTarget, goalOverallLeft, goalCadence, goalFrequency, goalDay sql.NullInt64
		err := rows.Scan(&c.Name, &c.Balance, &goalType, &goalTarget, &goalOverallLeft,
			&goalTargetMonth, &goalCadence, &goalFrequency, &goalDay)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if goalType.Valid {
			c.Goal = &core.Goal{
				Type:        core.GoalType(goalType.String),
				Target:      goalTarget.Int64,
				OverallLeft: goalOverallLeft.Int64,
				TargetMonth: goalTargetMonth.String,
				Cadence:     int(goalCadence.Int64),
				Frequency:   int(goalFrequency.Int64),
				Day:         int(goalDay.Int64),
			}
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// LastRefreshed returns when the budget's local mirror was last replaced.
// A zero time means the budget has never been synced.
func (r *SQLiteRepository) LastRefreshed(ctx context.Context, budgetID uuid.UUID) (time.Time, error) {
	var refreshed sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT refreshed_at FROM budgets WHERE id = ?`, budgetID.String()).Scan(&refreshed)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("query refreshed_at: %w", err)
	}
	if !refreshed.Valid {
		return time.Time{}, nil
	}
	return refreshed.Time, nil
}
