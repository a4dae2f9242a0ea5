package tui

import (
	"context"
	"fmt"

	"github.com/Veraticus/expense-tracker/internal/app"
	tea "github.com/charmbracelet/bubbletea"
)

// Run opens the browser on the alternate screen and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, a *app.App, bridge *Bridge) error {
	p := tea.NewProgram(New(ctx, a, bridge),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("browser failed: %w", err)
	}
	return nil
}
