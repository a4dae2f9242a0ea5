package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Veraticus/expense-tracker/internal/config"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTempLedger points the commands at a fresh database for one test.
func useTempLedger(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	prev := cfg
	cfg = &config.Config{DatabasePath: path, LogLevel: "info", LogFormat: "console", SummaryDelay: time.Millisecond}
	t.Cleanup(func() { cfg = prev })
	return path
}

func prepare(cmd *cobra.Command) *bytes.Buffer {
	var out bytes.Buffer
	cmd.SetContext(context.Background())
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(""))
	return &out
}

func TestResolveID(t *testing.T) {
	list := []model.Transaction{
		{ID: "abc12345-0000"},
		{ID: "abc99999-0000"},
		{ID: "def00000-0000"},
		{ID: "abc"},
	}

	tests := []struct {
		name   string
		prefix string
		want   string
	}{
		{name: "exact match wins over prefix", prefix: "abc", want: "abc"},
		{name: "unique prefix", prefix: "def", want: "def00000-0000"},
		{name: "longer unique prefix", prefix: "abc1", want: "abc12345-0000"},
		{name: "prefix of one id", prefix: "abc9", want: "abc99999-0000"},
		{name: "no match passes through", prefix: "zzz", want: "zzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveID(list, tt.prefix)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := resolveID(list[:2], "abc")
	assert.ErrorContains(t, err, "matches 2 transactions")
}

func TestDetectFormat(t *testing.T) {
	all := []string{formatJSON, formatCSV, formatXLSX, formatOFX}

	tests := []struct {
		name    string
		path    string
		flag    string
		allowed []string
		want    string
		wantErr bool
	}{
		{name: "json by extension", path: "data.json", flag: formatAuto, allowed: all, want: formatJSON},
		{name: "qfx is ofx", path: "bank.QFX", flag: formatAuto, allowed: all, want: formatOFX},
		{name: "flag overrides extension", path: "data.txt", flag: "CSV", allowed: all, want: formatCSV},
		{name: "unknown extension", path: "data.txt", flag: formatAuto, allowed: all, wantErr: true},
		{name: "format not allowed", path: "budgets.csv", flag: formatAuto, allowed: []string{formatJSON}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := detectFormat(tt.path, tt.flag, tt.allowed...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseToggle(t *testing.T) {
	for _, s := range []string{"on", "yes", "true", "1"} {
		on, err := parseToggle(s)
		require.NoError(t, err, s)
		assert.True(t, on, s)
	}
	for _, s := range []string{"off", "no", "false", "0"} {
		on, err := parseToggle(s)
		require.NoError(t, err, s)
		assert.False(t, on, s)
	}
	_, err := parseToggle("maybe")
	assert.Error(t, err)
}

func TestTransactionFromFlags(t *testing.T) {
	now := time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

	t.Run("defaults", func(t *testing.T) {
		cmd := addCmd()
		require.NoError(t, cmd.Flags().Set("category", "Food"))

		tx, err := transactionFromFlags(cmd, "Lunch", "12.50", now)
		require.NoError(t, err)
		assert.Equal(t, model.TypeExpense, tx.Type)
		assert.Equal(t, model.DefaultPaymentMethod, tx.PaymentMethod)
		assert.Equal(t, "2024-03-15", model.FormatDate(tx.Date))
		assert.True(t, decimal.RequireFromString("12.50").Equal(tx.Amount))
	})

	t.Run("explicit values", func(t *testing.T) {
		cmd := addCmd()
		require.NoError(t, cmd.Flags().Set("category", "Salary"))
		require.NoError(t, cmd.Flags().Set("type", "Income"))
		require.NoError(t, cmd.Flags().Set("date", "2024-03-01"))

		tx, err := transactionFromFlags(cmd, "Pay", "3200", now)
		require.NoError(t, err)
		assert.Equal(t, model.TypeIncome, tx.Type)
		assert.Equal(t, "2024-03-01", model.FormatDate(tx.Date))
	})

	t.Run("invalid input", func(t *testing.T) {
		tests := []struct {
			name   string
			flag   string
			value  string
			amount string
		}{
			{name: "bad type", flag: "type", value: "transfer", amount: "1"},
			{name: "bad date", flag: "date", value: "15/03/2024", amount: "1"},
			{name: "zero amount", flag: "type", value: "expense", amount: "0"},
			{name: "negative amount", flag: "type", value: "expense", amount: "-5"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				cmd := addCmd()
				require.NoError(t, cmd.Flags().Set("category", "Food"))
				require.NoError(t, cmd.Flags().Set(tt.flag, tt.value))
				_, err := transactionFromFlags(cmd, "x", tt.amount, now)
				assert.Error(t, err)
			})
		}
	})
}

func TestFilterFromFlags(t *testing.T) {
	cmd := listCmd()
	require.NoError(t, cmd.Flags().Set("type", "Expense"))
	require.NoError(t, cmd.Flags().Set("category", "Food"))
	require.NoError(t, cmd.Flags().Set("sort", "amount-asc"))

	f, err := filterFromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, "expense", f.Type)
	assert.Equal(t, "Food", f.Category)
	assert.Equal(t, "amount-asc", f.Sort.String())

	bad := listCmd()
	require.NoError(t, bad.Flags().Set("sort", "name"))
	_, err = filterFromFlags(bad)
	assert.Error(t, err)
}

func TestCommands_AddListDelete(t *testing.T) {
	path := useTempLedger(t)

	add := addCmd()
	out := prepare(add)
	require.NoError(t, add.Flags().Set("category", "Food"))
	require.NoError(t, runAdd(add, []string{"Coffee beans", "14.25"}))
	assert.Contains(t, out.String(), "Coffee beans")
	assert.Contains(t, out.String(), "Transaction added")

	list := listCmd()
	out = prepare(list)
	require.NoError(t, runList(list, nil))
	assert.Contains(t, out.String(), "Coffee beans")
	assert.Contains(t, out.String(), "Page 1 of 1 (1 transactions)")

	a, kv, err := openWith(context.Background(), path, nil, nil)
	require.NoError(t, err)
	list0 := a.Store().Transactions()
	require.Len(t, list0, 1)
	closeKV(kv)

	del := deleteCmd()
	out = prepare(del)
	require.NoError(t, runDelete(del, []string{list0[0].ID[:8]}))
	assert.Contains(t, out.String(), "Transaction deleted")

	list = listCmd()
	out = prepare(list)
	require.NoError(t, runList(list, nil))
	assert.Contains(t, out.String(), "No transactions found")
}

func TestCommands_ListPastLastPage(t *testing.T) {
	useTempLedger(t)

	add := addCmd()
	prepare(add)
	require.NoError(t, add.Flags().Set("category", "Food"))
	require.NoError(t, runAdd(add, []string{"Bread", "3"}))

	list := listCmd()
	out := prepare(list)
	require.NoError(t, list.Flags().Set("page", "3"))
	require.NoError(t, runList(list, nil))
	assert.Contains(t, out.String(), "No transactions found")
	assert.Contains(t, out.String(), "Page 3 of 1 (1 transactions)")
	assert.NotContains(t, out.String(), "Bread")
}

func TestCommands_ListPageBelowOne(t *testing.T) {
	useTempLedger(t)

	list := listCmd()
	prepare(list)
	require.NoError(t, list.Flags().Set("page", "0"))
	assert.ErrorContains(t, runList(list, nil), "page must be at least 1")
}

func TestCommands_ClearDeclined(t *testing.T) {
	path := useTempLedger(t)

	add := addCmd()
	prepare(add)
	require.NoError(t, add.Flags().Set("category", "Food"))
	require.NoError(t, runAdd(add, []string{"Bread", "3"}))

	clr := clearCmd()
	out := prepare(clr)
	clr.SetIn(strings.NewReader("n\n"))
	require.NoError(t, runClear(clr, nil))
	assert.Contains(t, out.String(), "Nothing was deleted")

	a, kv, err := openWith(context.Background(), path, nil, nil)
	require.NoError(t, err)
	defer closeKV(kv)
	assert.Len(t, a.Store().Transactions(), 1)
}

func TestCommands_ExportImportRoundTrip(t *testing.T) {
	useTempLedger(t)
	dir := t.TempDir()

	for _, args := range [][]string{{"Salary", "2000", "income"}, {"Rent", "900", "expense"}} {
		add := addCmd()
		prepare(add)
		require.NoError(t, add.Flags().Set("category", args[0]))
		require.NoError(t, add.Flags().Set("type", args[2]))
		require.NoError(t, runAdd(add, args[:2]))
	}

	exportPath := filepath.Join(dir, "out.csv")
	export := exportCmd()
	out := prepare(export)
	require.NoError(t, runExport(export, []string{exportPath}))
	assert.Contains(t, out.String(), "Exported to")

	// Import into a second, empty ledger.
	second := useTempLedger(t)
	imp := importCmd()
	out = prepare(imp)
	require.NoError(t, runImport(imp, []string{exportPath}))
	assert.Contains(t, out.String(), "Imported 2 transactions")

	a, kv, err := openWith(context.Background(), second, nil, nil)
	require.NoError(t, err)
	defer closeKV(kv)
	assert.Len(t, a.Store().Transactions(), 2)
}

func TestCommands_Budget(t *testing.T) {
	useTempLedger(t)

	set := budgetCmd()
	out := prepare(set)
	require.NoError(t, runBudgetSet(set, []string{"Food", "200"}))
	assert.Contains(t, out.String(), "Budget added")

	require.NoError(t, runBudgetSet(set, []string{"Food", "250"}))
	assert.Contains(t, out.String(), "Budget updated")

	show := budgetCmd()
	out = prepare(show)
	require.NoError(t, runBudgetList(show, nil))
	assert.Contains(t, out.String(), "Food")
	assert.Contains(t, out.String(), "remaining $250.00")
}

func TestCommands_AutoSaveOff(t *testing.T) {
	path := useTempLedger(t)

	set := settingsCmd()
	out := prepare(set)
	require.NoError(t, runSettingsSet(set, []string{"autosave", "off"}))
	assert.NotContains(t, out.String(), "Auto-save is off")

	add := addCmd()
	out = prepare(add)
	require.NoError(t, add.Flags().Set("category", "Food"))
	require.NoError(t, runAdd(add, []string{"Snack", "2"}))
	assert.Contains(t, out.String(), "changes were not saved")

	a, kv, err := openWith(context.Background(), path, nil, nil)
	require.NoError(t, err)
	defer closeKV(kv)
	assert.False(t, a.Settings().AutoSave)
	assert.Empty(t, a.Store().Transactions())
}
