// Package tui is the interactive transaction browser.
package tui

import (
	"context"
	"slices"
	"time"

	"github.com/Veraticus/expense-tracker/internal/app"
	"github.com/Veraticus/expense-tracker/internal/model"
	"github.com/Veraticus/expense-tracker/internal/query"
	"github.com/Veraticus/expense-tracker/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// statusTimeout is how long a notification stays on screen.
const statusTimeout = 4 * time.Second

// Mode is what keyboard input currently drives.
type Mode int

const (
	// ModeBrowse moves through the list and changes filters.
	ModeBrowse Mode = iota
	// ModeSearch edits the search text.
	ModeSearch
	// ModeConfirmDelete waits for y to delete the selected transaction.
	ModeConfirmDelete
)

// windows is the cycle of dashboard periods.
var windows = []query.Window{{Days: 7}, query.DefaultWindow, {Days: 90}, {Days: 365}, query.AllTime}

var typeCycle = []string{query.All, string(model.TypeIncome), string(model.TypeExpense)}

// Model is the browser state.
type Model struct {
	ctx    context.Context
	app    *app.App
	bridge *Bridge
	theme  themes.Theme
	keymap KeyMap

	table  table.Model
	search textinput.Model
	help   help.Model

	status    notification
	statusSeq int
	width     int
	height    int
	mode      Mode
	quitting  bool
}

// New creates a browser over a. bridge must be the Notifier and Scheduler
// a was created with.
func New(ctx context.Context, a *app.App, bridge *Bridge) Model {
	search := textinput.New()
	search.Placeholder = "description or category"
	search.Prompt = "/ "
	search.CharLimit = 64

	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(query.PageSize+1),
	)

	theme := themes.For(a.Settings().Theme)
	styles := table.DefaultStyles()
	styles.Header = theme.Header
	styles.Selected = theme.Selected
	t.SetStyles(styles)

	m := Model{
		ctx:    ctx,
		app:    a,
		bridge: bridge,
		theme:  theme,
		keymap: DefaultKeyMap(),
		table:  t,
		search: search,
		help:   help.New(),
		width:  80,
	}
	m.syncRows()
	m.showStatus(bridge.takeNotes())
	return m
}

func columns(width int) []table.Column {
	desc := max(12, width-62)
	return []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Type", Width: 7},
		{Title: "Description", Width: desc},
		{Title: "Category", Width: 14},
		{Title: "Payment", Width: 12},
		{Title: "Amount", Width: 12},
	}
}

// Init implements tea.Model. It schedules anything queued while the
// application was opening, such as the monthly summary.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.bridge.takePending(), m.hideStatus())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetColumns(columns(msg.Width))
		m.help.Width = msg.Width

	case scheduledMsg:
		msg.fn()

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = notification{}
		}

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKey(msg)
		cmds = append(cmds, cmd)
	}

	m.syncRows()
	var cmd tea.Cmd
	m, cmd = m.flush()
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.mode {
	case ModeSearch:
		return m.handleSearchKey(msg)
	case ModeConfirmDelete:
		return m.handleConfirmKey(msg)
	}

	k := m.keymap
	f := m.app.Filter()
	switch {
	case key.Matches(msg, k.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, k.NextPage):
		if m.app.ChangePage(m.ctx, 1) {
			m.table.GotoTop()
		}
	case key.Matches(msg, k.PrevPage):
		if m.app.ChangePage(m.ctx, -1) {
			m.table.GotoTop()
		}
	case key.Matches(msg, k.Search):
		m.mode = ModeSearch
		m.search.SetValue(f.Search)
		m.search.CursorEnd()
		return m, m.search.Focus()
	case key.Matches(msg, k.Category):
		f.Category = next(append([]string{query.All}, query.Categories(m.app.Store().Transactions())...), f.Category)
		m.setFilter(f)
	case key.Matches(msg, k.Type):
		f.Type = next(typeCycle, f.Type)
		m.setFilter(f)
	case key.Matches(msg, k.Window):
		f.Window = next(windows, f.Window)
		m.setFilter(f)
	case key.Matches(msg, k.SortField):
		if f.Sort.Field == query.SortByAmount {
			f.Sort.Field = query.SortByDate
		} else {
			f.Sort.Field = query.SortByAmount
		}
		m.setFilter(f)
	case key.Matches(msg, k.SortDir):
		f.Sort.Desc = !f.Sort.Desc
		m.setFilter(f)
	case key.Matches(msg, k.ClearAll):
		m.setFilter(query.DefaultFilter())
	case key.Matches(msg, k.Delete):
		if _, ok := m.selected(); ok {
			m.mode = ModeConfirmDelete
		}
	case key.Matches(msg, k.Save):
		if err := m.app.Save(m.ctx); err != nil {
			m.bridge.Notify(app.LevelError, "Save failed: "+err.Error())
		}
	default:
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Accept):
		f := m.app.Filter()
		f.Search = m.search.Value()
		m.setFilter(f)
		m.mode = ModeBrowse
		m.search.Blur()
		return m, nil
	case key.Matches(msg, m.keymap.Cancel):
		m.mode = ModeBrowse
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.mode = ModeBrowse
	if !key.Matches(msg, m.keymap.ConfirmYes) {
		return m, nil
	}
	t, ok := m.selected()
	if !ok {
		return m, nil
	}
	if err := m.app.DeleteTransaction(m.ctx, t.ID); err != nil {
		m.bridge.Notify(app.LevelError, "Delete failed: "+err.Error())
	}
	return m, nil
}

func (m *Model) setFilter(f query.Filter) {
	m.app.SetFilter(m.ctx, f)
	m.table.GotoTop()
}

// selected returns the transaction under the cursor.
func (m Model) selected() (model.Transaction, bool) {
	page := m.app.View().Page
	i := m.table.Cursor()
	if i < 0 || i >= len(page) {
		return model.Transaction{}, false
	}
	return page[i], true
}

// syncRows copies the current page into the table.
func (m *Model) syncRows() {
	page := m.app.View().Page
	rows := make([]table.Row, len(page))
	for i, t := range page {
		amount := m.app.Format(t.Amount)
		if t.IsExpense() {
			amount = "-" + amount
		}
		rows[i] = table.Row{model.FormatDate(t.Date), string(t.Type), t.Description, t.Category, t.PaymentMethod, amount}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(0, len(rows)-1))
	}
}

// flush moves queued notifications onto the status line and schedules
// deferred actions.
func (m Model) flush() (Model, tea.Cmd) {
	pending := m.bridge.takePending()
	if !m.showStatus(m.bridge.takeNotes()) {
		return m, pending
	}
	return m, tea.Batch(pending, m.hideStatus())
}

// showStatus puts the last of notes on the status line.
func (m *Model) showStatus(notes []notification) bool {
	if len(notes) == 0 {
		return false
	}
	m.status = notes[len(notes)-1]
	m.statusSeq++
	return true
}

func (m Model) hideStatus() tea.Cmd {
	if m.status.text == "" {
		return nil
	}
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

// next returns the element after current in cycle, wrapping around. An
// unknown current starts the cycle over.
func next[T comparable](cycle []T, current T) T {
	i := slices.Index(cycle, current)
	return cycle[(i+1)%len(cycle)]
}
