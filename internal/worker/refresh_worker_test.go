package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"saldo/internal/amqp"
	"saldo/internal/core"
)

type fakeFetcher struct {
	name       string
	accounts   []core.Account
	categories []core.Category
	err        error
}

func (f *fakeFetcher) BudgetName(ctx context.Context, budgetID uuid.UUID) (string, error) {
	return f.name, f.err
}

func (f *fakeFetcher) AccountsForBudget(ctx context.Context, budgetID uuid.UUID) ([]core.Account, error) {
	return f.accounts, f.err
}

func (f *fakeFetcher) CategoriesForBudget(ctx context.Context, budgetID uuid.UUID) ([]core.Category, error) {
	return f.categories, f.err
}

type fakeStore struct {
	refreshed time.Time
	replaced  map[uuid.UUID]string
	err       error
}

func (f *fakeStore) ReplaceBudgetData(ctx context.Context, budgetID uuid.UUID, name string, accounts []core.Account, categories []core.Category) error {
	if f.err != nil {
		return f.err
	}
	if f.replaced == nil {
		f.replaced = make(map[uuid.UUID]string)
	}
	f.replaced[budgetID] = name
	return nil
}

func (f *fakeStore) LastRefreshed(ctx context.Context, budgetID uuid.UUID) (time.Time, error) {
	return f.refreshed, nil
}

func TestRefreshBudgetStoresSnapshot(t *testing.T) {
	budgetID := uuid.New()
	fetcher := &fakeFetcher{
		name:       "Household",
		accounts:   []core.Account{{Name: "Checking", Balance: 100000}},
		categories: []core.Category{{Name: "Groceries", Balance: 50000}},
	}
	store := &fakeStore{}
	w := NewRefreshWorker(store, fetcher, []uuid.UUID{budgetID}, time.Hour)

	require.NoError(t, w.RefreshBudget(context.Background(), budgetID))

	assert.Equal(t, "Household", store.replaced[budgetID])
}

func TestRefreshBudgetPropagatesFetchError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("upstream down")}
	store := &fakeStore{}
	w := NewRefreshWorker(store, fetcher, nil, time.Hour)

	err := w.RefreshBudget(context.Background(), uuid.New())

	require.Error(t, err)
	assert.Empty(t, store.replaced)
}

func TestHandleRefreshMessage(t *testing.T) {
	budgetID := uuid.New()
	fetcher := &fakeFetcher{name: "B"}
	store := &fakeStore{}
	w := NewRefreshWorker(store, fetcher, nil, time.Hour)

	msg := amqp.NewBudgetRefreshMessage(budgetID)
	require.NoError(t, w.HandleRefreshMessage(context.Background(), msg))

	assert.Contains(t, store.replaced, budgetID)
}

func TestStartupRefreshCheckSkipsFreshSnapshots(t *testing.T) {
	budgetID := uuid.New()
	fetcher := &fakeFetcher{name: "B"}
	store := &fakeStore{refreshed: time.Now()}
	w := NewRefreshWorker(store, fetcher, []uuid.UUID{budgetID}, time.Hour)

	require.NoError(t, w.StartupRefreshCheck(context.Background()))

	assert.Empty(t, store.replaced)
}

func TestStartupRefreshCheckSyncsStaleSnapshots(t *testing.T) {
	budgetID := uuid.New()
	fetcher := &fakeFetcher{name: "B"}
	store := &fakeStore{refreshed: time.Now().Add(-2 * time.Hour)}
	w := NewRefreshWorker(store, fetcher, []uuid.UUID{budgetID}, time.Hour)

	require.NoError(t, w.StartupRefreshCheck(context.Background()))

	assert.Contains(t, store.replaced, budgetID)
}
