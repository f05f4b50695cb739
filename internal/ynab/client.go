// Package ynab provides a client for a YNAB-compatible budgeting API, the
// upstream source of accounts, categories and scheduled transactions.
package ynab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"saldo/internal/core"
)

const (
	requestTimeout = 10 * time.Second
	maxBodySize    = 4 << 20 // 4 MB
)

var (
	// ErrUnauthorized indicates the API token is expired or invalid.
	ErrUnauthorized = errors.New("ynab: unauthorized (token expired or invalid)")
	// ErrRateLimited indicates the upstream rate limit was hit.
	ErrRateLimited = errors.New("ynab: rate limited")
)

// Client fetches budget data over HTTP with a bearer token.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the given API base URL and token.
// Returns an error if either is empty.
func NewClient(baseURL, token string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	token = strings.TrimSpace(token)
	if baseURL == "" {
		return nil, errors.New("ynab: base URL is required")
	}
	if token == "" {
		return nil, errors.New("ynab: API token is required")
	}
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{},
	}, nil
}

// BudgetName returns the display name of a budget.
func (c *Client) BudgetName(ctx context.Context, budgetID uuid.UUID) (string, error) {
	body, err := c.get(ctx, fmt.Sprintf("/budgets/%s", budgetID))
	if err != nil {
		return "", err
	}

	var raw budgetResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", fmt.Errorf("ynab: parsing budget: %w", err)
	}
	return raw.Data.Budget.Name, nil
}

// AccountsForBudget returns the budget's open, non-deleted accounts.
func (c *Client) AccountsForBudget(ctx context.Context, budgetID uuid.UUID) ([]core.Account, error) {
	body, err := c.get(ctx, fmt.Sprintf("/budgets/%s/accounts", budgetID))
	if err != nil {
		return nil, err
	}

	var raw accountsResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("ynab: parsing accounts: %w", err)
	}

	accounts := make([]core.Account, 0, len(raw.Data.Accounts))
	for _, a := range raw.Data.Accounts {
		if a.Closed || a.Deleted {
			continue
		}
		accounts = append(accounts, core.Account{Name: a.Name, Balance: a.Balance})
	}
	return accounts, nil
}

// CategoriesForBudget returns the budget's visible categories with their
// goals, if any.
func (c *Client) CategoriesForBudget(ctx context.Context, budgetID uuid.UUID) ([]core.Category, error) {
	body, err := c.get(ctx, fmt.Sprintf("/budgets/%s/categories", budgetID))
	if err != nil {
		return nil, err
	}

	var raw categoriesResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("ynab: parsing categories: %w", err)
	}

	categories := make([]core.Category, 0, len(raw.Data.Categories))
	for _, wc := range raw.Data.Categories {
		if wc.Hidden || wc.Deleted {
			continue
		}
		categories = append(categories, core.Category{
			Name:    wc.Name,
			Balance: wc.Balance,
			Goal:    goalFromWire(wc),
		})
	}
	return categories, nil
}

// ScheduledTransactions returns the budget's upcoming scheduled
// transactions.
func (c *Client) ScheduledTransactions(ctx context.Context, budgetID uuid.UUID) ([]core.ScheduledTransaction, error) {
	body, err := c.get(ctx, fmt.Sprintf("/budgets/%s/scheduled_transactions", budgetID))
	if err != nil {
		return nil, err
	}

	var raw scheduledResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("ynab: parsing scheduled transactions: %w", err)
	}

	txns := make([]core.ScheduledTransaction, 0, len(raw.Data.ScheduledTransactions))
	for _, wt := range raw.Data.ScheduledTransactions {
		if wt.Deleted {
			continue
		}
		txns = append(txns, core.ScheduledTransaction{
			DateNext:     wt.DateNext,
			Amount:       wt.Amount,
			CategoryName: wt.CategoryName,
			AccountName:  wt.AccountName,
			PayeeName:    wt.PayeeName,
			Memo:         wt.Memo,
		})
	}
	return txns, nil
}

// get performs an authenticated GET request and returns the response body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("ynab: creating request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ynab: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ynab: unexpected status %d for %s", resp.StatusCode, path)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("ynab: reading response: %w", err)
	}
	return body, nil
}

// goalFromWire converts the nullable goal fields into a core.Goal, or nil
// when the category carries no goal.
func goalFromWire(wc wireCategory) *core.Goal {
	if wc.GoalType == nil || *wc.GoalType == "" {
		return nil
	}

	goal := &core.Goal{Type: core.GoalType(*wc.GoalType)}
	if wc.GoalTarget != nil {
		goal.Target = *wc.GoalTarget
	}
	if wc.GoalOverallLeft != nil {
		goal.OverallLeft = *wc.GoalOverallLeft
	}
	if wc.GoalTargetMonth != nil {
		goal.TargetMonth = *wc.GoalTargetMonth
	}
	if wc.GoalCadence != nil {
		goal.Cadence = *wc.GoalCadence
	}
	if wc.GoalCadenceFreq != nil {
		goal.Frequency = *wc.GoalCadenceFreq
	}
	if wc.GoalDay != nil {
		goal.Day = *wc.GoalDay
	}
	return goal
}
