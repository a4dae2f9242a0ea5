package codec

import (
	"testing"
	"time"

	"github.com/Veraticus/expense-tracker/internal/common"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTransactionsJSON(t *testing.T) {
	tests := []struct {
		check   func(t *testing.T, got []model.Transaction)
		name    string
		input   string
		wantErr bool
	}{
		{
			name: "valid records",
			input: `[
				{"id":"a","type":"expense","date":"2024-03-05","description":"Coffee","category":"Food","amount":4.5,"paymentMethod":"card","createdAt":"2024-03-05T10:00:00Z"},
				{"id":"b","type":"income","date":"2024-03-01","description":"Salary","category":"Work","amount":"3000"}
			]`,
			check: func(t *testing.T, got []model.Transaction) {
				t.Helper()
				require.Len(t, got, 2)
				assert.Equal(t, "a", got[0].ID)
				assert.Equal(t, model.TypeExpense, got[0].Type)
				assert.True(t, decimal.RequireFromString("4.5").Equal(got[0].Amount))
				assert.Equal(t, "card", got[0].PaymentMethod)
				assert.Equal(t, time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC), got[0].CreatedAt)
				assert.Equal(t, model.TypeIncome, got[1].Type)
				assert.Equal(t, model.DefaultPaymentMethod, got[1].PaymentMethod)
			},
		},
		{
			name:  "numeric id and legacy timestamp",
			input: `[{"id":1709635200123.456,"type":"expense","date":"2024-03-05","description":"Bus","category":"Transport","amount":2,"timestamp":"2024-03-05T08:00:00Z"}]`,
			check: func(t *testing.T, got []model.Transaction) {
				t.Helper()
				require.Len(t, got, 1)
				assert.Equal(t, "1709635200123.456", got[0].ID)
				assert.Equal(t, time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC), got[0].CreatedAt)
			},
		},
		{
			name:  "full timestamp as date",
			input: `[{"type":"expense","date":"2024-03-05T14:30:00.000Z","description":"Lunch","category":"Food","amount":12}]`,
			check: func(t *testing.T, got []model.Transaction) {
				t.Helper()
				require.Len(t, got, 1)
				assert.Equal(t, "2024-03-05", model.FormatDate(got[0].Date))
			},
		},
		{
			name:  "missing type defaults to expense",
			input: `[{"date":"2024-03-05","description":"Tea","category":"Food","amount":3}]`,
			check: func(t *testing.T, got []model.Transaction) {
				t.Helper()
				require.Len(t, got, 1)
				assert.Equal(t, model.TypeExpense, got[0].Type)
			},
		},
		{
			name:  "empty array",
			input: `[]`,
			check: func(t *testing.T, got []model.Transaction) {
				t.Helper()
				assert.Empty(t, got)
			},
		},
		{name: "object instead of array", input: `{"transactions":[]}`, wantErr: true},
		{name: "not json", input: `hello`, wantErr: true},
		{name: "negative amount", input: `[{"type":"expense","date":"2024-03-05","description":"X","category":"Y","amount":-5}]`, wantErr: true},
		{name: "zero amount", input: `[{"type":"expense","date":"2024-03-05","description":"X","category":"Y","amount":0}]`, wantErr: true},
		{name: "bad date", input: `[{"type":"expense","date":"2024-02-30","description":"X","category":"Y","amount":5}]`, wantErr: true},
		{name: "unknown type", input: `[{"type":"transfer","date":"2024-03-05","description":"X","category":"Y","amount":5}]`, wantErr: true},
		{name: "blank description", input: `[{"type":"expense","date":"2024-03-05","description":"  ","category":"Y","amount":5}]`, wantErr: true},
		{
			name: "one bad record rejects all",
			input: `[
				{"type":"expense","date":"2024-03-05","description":"Good","category":"Y","amount":5},
				{"type":"expense","date":"2024-03-05","description":"Bad","category":"Y"}
			]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeTransactionsJSON([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, common.ErrSerialization)
				return
			}
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestEncodeTransactionsJSON_RoundTrip(t *testing.T) {
	original := []model.Transaction{
		{
			ID:            "t1",
			Type:          model.TypeExpense,
			Date:          time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			Description:   "Groceries",
			Category:      "Food",
			Amount:        decimal.RequireFromString("52.37"),
			PaymentMethod: "card",
			CreatedAt:     time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC),
		},
	}

	data, err := EncodeTransactionsJSON(original)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"date": "2024-01-15"`)
	assert.Contains(t, string(data), `"amount": 52.37`)

	decoded, err := DecodeTransactionsJSON(data)
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, original[0].ID, decoded[0].ID)
	assert.True(t, original[0].Amount.Equal(decoded[0].Amount))
	assert.Equal(t, original[0].Date, decoded[0].Date)
	assert.Equal(t, original[0].CreatedAt, decoded[0].CreatedAt)
}

func TestDecodeBudgetsJSON(t *testing.T) {
	budgets, err := DecodeBudgetsJSON([]byte(`[{"id":7,"category":" Food ","amount":300}]`))
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, "7", budgets[0].ID)
	assert.Equal(t, "Food", budgets[0].Category)
	assert.True(t, decimal.NewFromInt(300).Equal(budgets[0].Amount))

	_, err = DecodeBudgetsJSON([]byte(`[{"category":"Food","amount":0}]`))
	assert.ErrorIs(t, err, common.ErrSerialization)

	_, err = DecodeBudgetsJSON([]byte(`{"category":"Food"}`))
	assert.ErrorIs(t, err, common.ErrSerialization)
}

func TestDecodeSettingsJSON(t *testing.T) {
	defaults := model.DefaultSettings()

	t.Run("partial settings keep defaults", func(t *testing.T) {
		got, err := DecodeSettingsJSON([]byte(`{"currency":"eur","autoSave":false}`), defaults)
		require.NoError(t, err)
		assert.Equal(t, model.EUR, got.Currency)
		assert.False(t, got.AutoSave)
		assert.True(t, got.BudgetAlerts)
		assert.Equal(t, model.ThemeLight, got.Theme)
	})

	t.Run("unsupported currency resets", func(t *testing.T) {
		got, err := DecodeSettingsJSON([]byte(`{"currency":"XYZ","theme":"dark"}`), defaults)
		require.Error(t, err)
		assert.Equal(t, model.USD, got.Currency)
		assert.Equal(t, model.ThemeDark, got.Theme)
	})

	t.Run("unknown theme resets", func(t *testing.T) {
		got, err := DecodeSettingsJSON([]byte(`{"theme":"neon"}`), defaults)
		require.NoError(t, err)
		assert.Equal(t, model.ThemeLight, got.Theme)
	})

	t.Run("corrupt json", func(t *testing.T) {
		got, err := DecodeSettingsJSON([]byte(`{`), defaults)
		require.ErrorIs(t, err, common.ErrSerialization)
		assert.Equal(t, defaults, got)
	})
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "12.50", want: "12.5"},
		{input: " 3 ", want: "3"},
		{input: "0.01", want: "0.01"},
		{input: "", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "0", wantErr: true},
		{input: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
