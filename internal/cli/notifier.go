package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/Veraticus/expense-tracker/internal/app"
)

// Notifier prints application messages, one per line.
type Notifier struct {
	w     io.Writer
	quiet bool
}

// NewNotifier writes to w. A quiet notifier drops success and info
// messages but still prints warnings and errors.
func NewNotifier(w io.Writer, quiet bool) *Notifier {
	return &Notifier{w: w, quiet: quiet}
}

// Notify implements app.Notifier.
func (n *Notifier) Notify(level app.Level, msg string) {
	var line string
	switch level {
	case app.LevelSuccess:
		if n.quiet {
			return
		}
		line = FormatSuccess(msg)
	case app.LevelWarning:
		line = FormatWarning(msg)
	case app.LevelError:
		line = FormatError(msg)
	default:
		if n.quiet {
			return
		}
		line = FormatInfo(msg)
	}
	if _, err := fmt.Fprintln(n.w, line); err != nil {
		slog.Warn("Failed to write notification", "error", err)
	}
}
