package tui

import (
	"time"

	"github.com/Veraticus/expense-tracker/internal/app"
	tea "github.com/charmbracelet/bubbletea"
)

// scheduledMsg carries a deferred action back onto the event loop.
type scheduledMsg struct {
	fn func()
}

// clearStatusMsg hides the status line if it still shows message seq.
type clearStatusMsg struct {
	seq int
}

type notification struct {
	level app.Level
	text  string
}

type pendingAction struct {
	fn    func()
	delay time.Duration
}

// Bridge connects the application to the bubbletea loop. It is both the
// app.Notifier and the app.Scheduler of a browser session: messages and
// deferred actions are queued and handed to the program after each
// update.
type Bridge struct {
	notes   []notification
	pending []pendingAction
}

// NewBridge creates an empty bridge.
func NewBridge() *Bridge {
	return &Bridge{}
}

// Notify implements app.Notifier.
func (b *Bridge) Notify(level app.Level, msg string) {
	b.notes = append(b.notes, notification{level: level, text: msg})
}

// After implements app.Scheduler.
func (b *Bridge) After(delay time.Duration, fn func()) {
	b.pending = append(b.pending, pendingAction{fn: fn, delay: delay})
}

// takeNotes returns and forgets the queued notifications.
func (b *Bridge) takeNotes() []notification {
	notes := b.notes
	b.notes = nil
	return notes
}

// takePending returns a command that fires each queued deferred action
// after its delay.
func (b *Bridge) takePending() tea.Cmd {
	var cmds []tea.Cmd
	for _, p := range b.pending {
		fn := p.fn
		cmds = append(cmds, tea.Tick(p.delay, func(time.Time) tea.Msg {
			return scheduledMsg{fn: fn}
		}))
	}
	b.pending = nil
	return tea.Batch(cmds...)
}
