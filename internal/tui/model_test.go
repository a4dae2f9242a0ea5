package tui

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Veraticus/expense-tracker/internal/app"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/query"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, n int) (Model, *app.App) {
	t.Helper()
	ctx := context.Background()
	bridge := NewBridge()
	a := app.New(app.Options{Notifier: bridge, Scheduler: bridge, Now: func() time.Time { return today }})
	require.NoError(t, a.Open(ctx))

	records := make([]model.Transaction, 0, n)
	for i := range n {
		typ := model.TypeExpense
		if i%5 == 0 {
			typ = model.TypeIncome
		}
		records = append(records, model.Transaction{
			Type:        typ,
			Date:        model.DateOf(today).AddDate(0, 0, -i),
			Description: fmt.Sprintf("coffee %02d", i),
			Category:    "Food",
			Amount:      decimal.NewFromInt(int64(i + 1)),
		})
	}
	if n > 0 {
		_, err := a.ImportTransactions(ctx, records)
		require.NoError(t, err)
	}
	return New(ctx, a, bridge), a
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}
	return m
}

func TestModel_Paging(t *testing.T) {
	m, a := newTestModel(t, 23)
	assert.Equal(t, 3, a.View().PageCount)
	assert.Len(t, m.table.Rows(), 10)

	m = press(t, m, "n")
	assert.Equal(t, 2, a.View().PageNum)

	m = press(t, m, "n", "n")
	assert.Equal(t, 3, a.View().PageNum)
	assert.Len(t, m.table.Rows(), 3)

	m = press(t, m, "p")
	assert.Equal(t, 2, a.View().PageNum)
	assert.Contains(t, m.View(), "Page 2 of 3")
}

func TestModel_Delete(t *testing.T) {
	m, a := newTestModel(t, 3)
	target, ok := m.selected()
	require.True(t, ok)

	m = press(t, m, "d")
	assert.Equal(t, ModeConfirmDelete, m.mode)
	assert.Contains(t, m.View(), "y to confirm")

	m = press(t, m, "y")
	assert.Equal(t, ModeBrowse, m.mode)
	_, exists := a.Store().Transaction(target.ID)
	assert.False(t, exists)
	assert.Len(t, m.table.Rows(), 2)
	assert.Equal(t, "Transaction deleted", m.status.text)
}

func TestModel_DeleteDeclined(t *testing.T) {
	m, a := newTestModel(t, 3)

	m = press(t, m, "d", "n")
	assert.Equal(t, ModeBrowse, m.mode)
	assert.Len(t, a.Store().Transactions(), 3)
}

func TestModel_Search(t *testing.T) {
	m, a := newTestModel(t, 23)
	m = press(t, m, "n")

	m = press(t, m, "/", "c", "o", "f", "f", "e", "e", " ", "1", "enter")
	assert.Equal(t, ModeBrowse, m.mode)
	assert.Equal(t, "coffee 1", a.Filter().Search)
	assert.Equal(t, 1, a.View().PageNum, "filter change resets the page")
	assert.Len(t, a.View().Filtered, 10)

	m = press(t, m, "/", "x", "esc")
	assert.Equal(t, "coffee 1", a.Filter().Search)
	assert.Equal(t, ModeBrowse, m.mode)
}

func TestModel_FilterKeys(t *testing.T) {
	m, a := newTestModel(t, 10)

	m = press(t, m, "t")
	assert.Equal(t, string(model.TypeIncome), a.Filter().Type)
	assert.Len(t, a.View().Filtered, 2)

	m = press(t, m, "t", "t")
	assert.Equal(t, query.All, a.Filter().Type)

	m = press(t, m, "s")
	assert.Equal(t, query.SortByAmount, a.Filter().Sort.Field)
	assert.Equal(t, "coffee 09", a.View().Page[0].Description)

	m = press(t, m, "r")
	assert.False(t, a.Filter().Sort.Desc)
	assert.Equal(t, "coffee 00", a.View().Page[0].Description)

	m = press(t, m, "c")
	assert.Equal(t, "Food", a.Filter().Category)

	m = press(t, m, "v")
	assert.Equal(t, query.Window{Days: 90}, a.Filter().Window)

	press(t, m, "x")
	assert.Equal(t, query.DefaultFilter(), a.Filter())
}

func TestModel_ScheduledAction(t *testing.T) {
	m, _ := newTestModel(t, 0)
	ran := false

	updated, _ := m.Update(scheduledMsg{fn: func() { ran = true }})
	assert.True(t, ran)

	m = updated.(Model)
	m.bridge.Notify(app.LevelInfo, "hello")
	updated, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = updated.(Model)
	assert.Equal(t, "hello", m.status.text)

	updated, _ = m.Update(clearStatusMsg{seq: m.statusSeq})
	assert.Empty(t, updated.(Model).status.text)
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t, 1)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	_, isQuit := cmd().(tea.QuitMsg)
	assert.True(t, isQuit)
	assert.Empty(t, updated.(Model).View())
}
