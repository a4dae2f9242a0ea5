package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *recordingKV) {
	t.Helper()
	kv := newRecordingKV(testutil.SetupTestKV(t))
	store := New(Options{KV: kv, Now: func() time.Time { return fixedNow }})
	return store, kv
}

func expense(desc, category, amount string, date time.Time) model.Transaction {
	return model.Transaction{
		Type:        model.TypeExpense,
		Date:        date,
		Description: desc,
		Category:    category,
		Amount:      decimal.RequireFromString(amount),
	}
}

func TestStore_AddTransaction(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   model.Transaction
		wantErr bool
	}{
		{name: "valid expense", input: expense("Coffee", "Food", "4.50", day)},
		{
			name: "defaults applied",
			input: model.Transaction{
				Date:        day,
				Description: "  Book  ",
				Category:    " Education ",
				Amount:      decimal.NewFromInt(20),
			},
		},
		{name: "missing description", input: expense("", "Food", "4", day), wantErr: true},
		{name: "missing category", input: expense("Coffee", " ", "4", day), wantErr: true},
		{name: "zero amount", input: expense("Coffee", "Food", "0", day), wantErr: true},
		{name: "negative amount", input: expense("Coffee", "Food", "-3", day), wantErr: true},
		{name: "missing date", input: expense("Coffee", "Food", "4", time.Time{}), wantErr: true},
		{
			name: "unknown type",
			input: model.Transaction{
				Type: "transfer", Date: day, Description: "X", Category: "Y", Amount: decimal.NewFromInt(1),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := newTestStore(t)
			before := store.Version()

			got, err := store.AddTransaction(context.Background(), tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrValidation)
				assert.Empty(t, store.Transactions())
				assert.Equal(t, before, store.Version())
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
			assert.Equal(t, fixedNow, got.CreatedAt)
			assert.Equal(t, model.TypeExpense, got.Type)
			assert.Equal(t, model.DefaultPaymentMethod, got.PaymentMethod)
			assert.NotContains(t, got.Description, " ")
			assert.Equal(t, []model.Transaction{got}, store.Transactions())
			assert.Greater(t, store.Version(), before)
		})
	}
}

func TestStore_AddTransaction_UniqueIDs(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	seen := map[string]bool{}

	for i := 0; i < 50; i++ {
		tx, err := store.AddTransaction(ctx, expense("Snack", "Food", "1", fixedNow))
		require.NoError(t, err)
		require.False(t, seen[tx.ID], "duplicate id %s", tx.ID)
		seen[tx.ID] = true
	}
}

func TestStore_DeleteTransaction(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	a, err := store.AddTransaction(ctx, expense("A", "Food", "1", fixedNow))
	require.NoError(t, err)
	b, err := store.AddTransaction(ctx, expense("B", "Food", "2", fixedNow))
	require.NoError(t, err)

	require.NoError(t, store.DeleteTransaction(ctx, a.ID))
	assert.Equal(t, []model.Transaction{b}, store.Transactions())

	_, ok := store.Transaction(a.ID)
	assert.False(t, ok)

	version := store.Version()
	err = store.DeleteTransaction(ctx, a.ID)
	assert.True(t, common.IsNotFound(err))
	assert.Equal(t, version, store.Version(), "failed delete must not bump version")
}

func TestStore_UpsertBudget(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	created, err := store.UpsertBudget(ctx, "Food", decimal.NewFromInt(300))
	require.NoError(t, err)
	assert.True(t, created)

	created, err = store.UpsertBudget(ctx, " Food ", decimal.NewFromInt(450))
	require.NoError(t, err)
	assert.False(t, created)

	budgets := store.Budgets()
	require.Len(t, budgets, 1)
	assert.True(t, decimal.NewFromInt(450).Equal(budgets[0].Amount))

	_, err = store.UpsertBudget(ctx, "Food", decimal.Zero)
	assert.ErrorIs(t, err, common.ErrValidation)
	_, err = store.UpsertBudget(ctx, "", decimal.NewFromInt(5))
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestStore_DeleteBudget(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.UpsertBudget(ctx, "Food", decimal.NewFromInt(300))
	require.NoError(t, err)

	require.NoError(t, store.DeleteBudget(ctx, "Food"))
	assert.Empty(t, store.Budgets())
	assert.True(t, common.IsNotFound(store.DeleteBudget(ctx, "Food")))
}

func TestStore_SetCurrency(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetCurrency(ctx, "gbp"))
	assert.Equal(t, model.GBP, store.Settings().Currency)

	err := store.SetCurrency(ctx, "BTC")
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.ErrorIs(t, err, common.ErrUnsupportedCurrency)
	assert.Equal(t, model.GBP, store.Settings().Currency)
}

func TestStore_Toggles(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	store.SetBudgetAlerts(ctx, false)
	store.SetMonthlySummary(ctx, false)
	require.NoError(t, store.SetTheme(ctx, model.ThemeDark))
	assert.Error(t, store.SetTheme(ctx, "neon"))

	s := store.Settings()
	assert.False(t, s.BudgetAlerts)
	assert.False(t, s.MonthlySummary)
	assert.Equal(t, model.ThemeDark, s.Theme)
}

func TestStore_ImportTransactions(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	existing, err := store.AddTransaction(ctx, expense("Rent", "Housing", "900", fixedNow))
	require.NoError(t, err)

	incoming := []model.Transaction{
		expense("Coffee", "Food", "3", fixedNow),
		expense("Tea", "Food", "2", fixedNow),
	}
	incoming[0].ID = existing.ID // collides
	incoming[1].ID = "legacy-42"

	n, err := store.ImportTransactions(ctx, incoming)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	all := store.Transactions()
	require.Len(t, all, 3)
	assert.Equal(t, existing.ID, all[0].ID)
	assert.NotEqual(t, existing.ID, all[1].ID)
	assert.Equal(t, "legacy-42", all[2].ID)
	assert.Equal(t, fixedNow, all[2].CreatedAt)

	bad := []model.Transaction{expense("Ok", "Food", "1", fixedNow), expense("", "Food", "1", fixedNow)}
	_, err = store.ImportTransactions(ctx, bad)
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Len(t, store.Transactions(), 3, "failed import must change nothing")
}

func TestStore_ImportBudgets(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.UpsertBudget(ctx, "Food", decimal.NewFromInt(100))
	require.NoError(t, err)

	created, updated, err := store.ImportBudgets(ctx, []model.Budget{
		{Category: "Food", Amount: decimal.NewFromInt(250)},
		{Category: "Travel", Amount: decimal.NewFromInt(500)},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created)
	assert.Equal(t, 1, updated)

	food, ok := store.Budget("Food")
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(250).Equal(food.Amount))
	assert.Len(t, store.Budgets(), 2)
}

func TestStore_Clear(t *testing.T) {
	store, kv := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddTransaction(ctx, expense("A", "Food", "1", fixedNow))
	require.NoError(t, err)
	_, err = store.UpsertBudget(ctx, "Food", decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, store.SetCurrency(ctx, model.EUR))

	require.NoError(t, store.Clear(ctx))
	assert.Empty(t, store.Transactions())
	assert.Empty(t, store.Budgets())
	assert.Equal(t, model.EUR, store.Settings().Currency)

	_, err = kv.Get(ctx, KeyTransactions)
	assert.ErrorIs(t, err, common.ErrNotFound)
	_, err = kv.Get(ctx, KeySettings)
	assert.NoError(t, err)
}

func TestStore_ClearWithAutoSaveOff(t *testing.T) {
	store, kv := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddTransaction(ctx, expense("A", "Food", "1", fixedNow))
	require.NoError(t, err)
	store.SetAutoSave(ctx, false)

	require.NoError(t, store.Clear(ctx))
	assert.Empty(t, store.Transactions())

	reloaded := New(Options{KV: kv, Now: func() time.Time { return fixedNow }})
	require.NoError(t, reloaded.Load(ctx))
	assert.Len(t, reloaded.Transactions(), 1, "clear is not persisted until saved")

	require.NoError(t, store.Save(ctx))
	require.NoError(t, reloaded.Load(ctx))
	assert.Empty(t, reloaded.Transactions())
}

func TestStore_RewriteAmounts(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddTransaction(ctx, expense("A", "Food", "10", fixedNow))
	require.NoError(t, err)
	_, err = store.UpsertBudget(ctx, "Food", decimal.NewFromInt(100))
	require.NoError(t, err)

	double := func(d decimal.Decimal) decimal.Decimal { return d.Mul(decimal.NewFromInt(2)) }
	require.NoError(t, store.RewriteAmounts(ctx, model.EUR, double))
	assert.Equal(t, "20", store.Transactions()[0].Amount.String())
	assert.Equal(t, "200", store.Budgets()[0].Amount.String())
	assert.Equal(t, model.EUR, store.Settings().Currency)

	zero := func(decimal.Decimal) decimal.Decimal { return decimal.Zero }
	err = store.RewriteAmounts(ctx, model.USD, zero)
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Equal(t, "20", store.Transactions()[0].Amount.String(), "failed rewrite must change nothing")
	assert.Equal(t, model.EUR, store.Settings().Currency)
}

func TestStore_OnChange(t *testing.T) {
	store, _ := newTestStore(t)
	calls := 0
	store.OnChange(func() { calls++ })

	_, err := store.AddTransaction(context.Background(), expense("A", "Food", "1", fixedNow))
	require.NoError(t, err)
	_, err = store.AddTransaction(context.Background(), expense("", "Food", "1", fixedNow))
	require.Error(t, err)

	assert.Equal(t, 1, calls)
}

func TestStore_RewriteAmountsSavesAtomically(t *testing.T) {
	store, kv := newTestStore(t)
	ctx := context.Background()

	_, err := store.AddTransaction(ctx, expense("A", "Food", "10", fixedNow))
	require.NoError(t, err)

	kv.failPut = errors.New("disk full")
	double := func(d decimal.Decimal) decimal.Decimal { return d.Mul(decimal.NewFromInt(2)) }
	require.NoError(t, store.RewriteAmounts(ctx, model.EUR, double))
	kv.failPut = nil

	reloaded := New(Options{KV: kv, Now: func() time.Time { return fixedNow }})
	require.NoError(t, reloaded.Load(ctx))
	require.Len(t, reloaded.Transactions(), 1)
	assert.Equal(t, "10", reloaded.Transactions()[0].Amount.String())
	assert.Equal(t, model.USD, reloaded.Settings().Currency, "amounts and currency are stored together")

	require.NoError(t, store.Save(ctx))
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, "20", reloaded.Transactions()[0].Amount.String())
	assert.Equal(t, model.EUR, reloaded.Settings().Currency)
}

func TestStore_SaveErrorIsReported(t *testing.T) {
	var reported []error
	kv := newRecordingKV(testutil.SetupTestKV(t))
	kv.failPut = errors.New("disk full")
	store := New(Options{KV: kv, Now: func() time.Time { return fixedNow }, OnSaveError: func(err error) {
		reported = append(reported, err)
	}})

	tx, err := store.AddTransaction(context.Background(), expense("A", "Food", "1", fixedNow))
	require.NoError(t, err, "mutation succeeds even when saving fails")
	assert.NotEmpty(t, tx.ID)
	require.Len(t, reported, 1)
	assert.ErrorContains(t, reported[0], "disk full")
}
