package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Confirmer asks yes/no questions on a terminal.
type Confirmer struct {
	reader *LineReader
	writer io.Writer
	// assume answers yes without asking, for --yes.
	assume bool
}

// NewConfirmer reads answers from r and writes prompts to w. When assume
// is set every question is answered yes without prompting.
func NewConfirmer(r io.Reader, w io.Writer, assume bool) *Confirmer {
	return &Confirmer{reader: NewLineReader(r), writer: w, assume: assume}
}

// Confirm prints question and waits for an answer. Anything but y or yes
// is a no.
func (c *Confirmer) Confirm(ctx context.Context, question string) (bool, error) {
	if c.assume {
		return true, nil
	}
	if _, err := fmt.Fprint(c.writer, FormatPrompt(question+" [y/N]")); err != nil {
		return false, fmt.Errorf("failed to write prompt: %w", err)
	}
	answer, err := c.reader.ReadLine(ctx)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
